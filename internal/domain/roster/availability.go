package roster

import "github.com/riskibarqy/match-roster/internal/domain/candidate"

// Summary mirrors the counters shown under the roster list.
type Summary struct {
	Total    int
	Capacity int
	Numbered int
	Special  int
}

func (r *Roster) IsNumberTaken(n int) bool {
	return r.numberHolder(n, "") >= 0
}

func (r *Roster) IsRoleTaken(role RoleKey) bool {
	return r.roleHolder(role, "") >= 0
}

// NextSuggestedNumber is one past the highest number in use, or 1 for an empty roster.
func (r *Roster) NextSuggestedNumber() int {
	return r.maxNumberExcluding("") + 1
}

// SuggestNumber is the default number for a new entry with the given role: special
// roles carry no number.
func (r *Roster) SuggestNumber(role RoleKey) int {
	if role.IsSpecial() {
		return 0
	}
	return r.NextSuggestedNumber()
}

// FreeRoles lists the catalogue roles nobody holds, in catalogue order.
func (r *Roster) FreeRoles() []RoleKey {
	out := make([]RoleKey, 0, len(AllRoles))
	for _, key := range AllRoles {
		if !r.IsRoleTaken(key) {
			out = append(out, key)
		}
	}
	return out
}

// UnassignedCandidates returns the candidates that do not back an entry and whose
// label contains search, ignoring case. Import order is preserved.
func (r *Roster) UnassignedCandidates(pool candidate.List, search string) candidate.List {
	assigned := make(map[string]struct{}, len(r.entries))
	for _, item := range r.entries {
		assigned[item.CandidateID] = struct{}{}
	}

	out := make(candidate.List, 0, len(pool))
	for _, item := range pool {
		if _, ok := assigned[item.ID]; ok {
			continue
		}
		if !item.MatchesSearch(search) {
			continue
		}
		out = append(out, item.Clone())
	}
	return out
}

func (r *Roster) Summary() Summary {
	out := Summary{Total: len(r.entries), Capacity: r.capacity}
	for _, item := range r.entries {
		if item.IsSpecial() {
			out.Special++
		} else {
			out.Numbered++
		}
	}
	return out
}

func (r *Roster) numberHolder(n int, excludeID string) int {
	if n < 1 {
		return -1
	}
	for i, item := range r.entries {
		if item.CandidateID == excludeID || item.IsSpecial() {
			continue
		}
		if item.Number == n {
			return i
		}
	}
	return -1
}

func (r *Roster) roleHolder(role RoleKey, excludeID string) int {
	if role == RoleNone {
		return -1
	}
	for i, item := range r.entries {
		if item.CandidateID == excludeID {
			continue
		}
		if item.Role == role {
			return i
		}
	}
	return -1
}

func (r *Roster) maxNumberExcluding(excludeID string) int {
	highest := 0
	for _, item := range r.entries {
		if item.CandidateID == excludeID || item.IsSpecial() {
			continue
		}
		if item.Number > highest {
			highest = item.Number
		}
	}
	return highest
}
