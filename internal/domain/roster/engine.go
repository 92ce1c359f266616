package roster

import (
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/match-roster/internal/domain/candidate"
)

// Swap describes a number exchange performed by UpdateNumber. It is zero when the
// requested number was free.
type Swap struct {
	CandidateID string
	Number      int
}

func (s Swap) Happened() bool {
	return s.CandidateID != ""
}

// Add places a candidate on the roster. A special role forces the entry to carry no
// number and proposedNumber is ignored; otherwise the entry is numbered with
// proposedNumber. Every check runs before the roster is touched.
func (r *Roster) Add(pool candidate.List, candidateID string, proposedNumber int, proposedRole RoleKey) ([]Entry, error) {
	if len(r.entries) >= r.capacity {
		return nil, crerr.Wrapf(ErrCapacityExceeded, "limit is %d", r.capacity)
	}

	item, ok := pool.Find(candidateID)
	if !ok {
		return nil, crerr.Wrapf(ErrInvalidCandidate, "candidate %q does not exist", candidateID)
	}
	if r.indexOf(item.ID) >= 0 {
		return nil, crerr.Wrapf(ErrInvalidCandidate, "candidate %q is already on the roster", candidateID)
	}
	if proposedRole != RoleNone && !proposedRole.Valid() {
		return nil, crerr.Wrapf(ErrInvalidOperation, "unknown role %q", proposedRole)
	}

	number := 0
	if !proposedRole.IsSpecial() {
		if proposedNumber < 1 {
			return nil, crerr.Wrapf(ErrInvalidOperation, "number must be >= 1, got %d", proposedNumber)
		}
		if r.IsNumberTaken(proposedNumber) {
			return nil, crerr.Wrapf(ErrNumberConflict, "number %d", proposedNumber)
		}
		number = proposedNumber
	}

	if proposedRole != RoleNone && r.IsRoleTaken(proposedRole) {
		return nil, crerr.Wrapf(ErrRoleConflict, "role %s", proposedRole)
	}

	r.entries = append(r.entries, newEntry(item, number, proposedRole))
	r.commit()
	return r.Entries(), nil
}

// ToggleRole turns a role on or off for one entry. Turning a role on replaces any role
// the entry held. Moving into a special role drops the number; moving out of one
// assigns one past the highest number held by the other entries.
func (r *Roster) ToggleRole(candidateID string, role RoleKey, on bool) ([]Entry, error) {
	idx := r.indexOf(candidateID)
	if idx < 0 {
		return nil, crerr.Wrapf(ErrInvalidCandidate, "candidate %q is not on the roster", candidateID)
	}
	if !role.Valid() {
		return nil, crerr.Wrapf(ErrInvalidOperation, "unknown role %q", role)
	}
	if on && r.roleHolder(role, candidateID) >= 0 {
		return nil, crerr.Wrapf(ErrRoleConflict, "role %s is held by another entry", role)
	}

	current := r.entries[idx]
	next := current
	switch {
	case on:
		next.Role = role
	case current.Role == role:
		next.Role = RoleNone
	}

	if next.Role == current.Role {
		return r.Entries(), nil
	}

	wasSpecial := current.IsSpecial()
	isSpecial := next.IsSpecial()
	switch {
	case !wasSpecial && isSpecial:
		next.Number = 0
	case wasSpecial && !isSpecial:
		next.Number = r.maxNumberExcluding(candidateID) + 1
	}

	r.entries[idx] = next
	r.commit()
	return r.Entries(), nil
}

// UpdateNumber changes the number of a numbered entry. When another entry already
// holds the number the two entries exchange numbers.
func (r *Roster) UpdateNumber(candidateID string, number int) ([]Entry, Swap, error) {
	idx := r.indexOf(candidateID)
	if idx < 0 {
		return nil, Swap{}, crerr.Wrapf(ErrInvalidCandidate, "candidate %q is not on the roster", candidateID)
	}
	if number < 1 {
		return nil, Swap{}, crerr.Wrapf(ErrInvalidOperation, "number must be >= 1, got %d", number)
	}
	if r.entries[idx].IsSpecial() {
		return nil, Swap{}, crerr.Wrapf(ErrInvalidOperation, "entry %q holds role %s and has no number", candidateID, r.entries[idx].Role)
	}

	previous := r.entries[idx].Number
	if previous == number {
		return r.Entries(), Swap{}, nil
	}

	var swap Swap
	if other := r.numberHolder(number, candidateID); other >= 0 {
		r.entries[other].Number = previous
		swap = Swap{CandidateID: r.entries[other].CandidateID, Number: previous}
	}
	r.entries[idx].Number = number
	r.commit()
	return r.Entries(), swap, nil
}

// Remove deletes an entry. Its number and role become free; other entries keep
// their numbers.
func (r *Roster) Remove(candidateID string) ([]Entry, error) {
	idx := r.indexOf(candidateID)
	if idx < 0 {
		return nil, crerr.Wrapf(ErrInvalidCandidate, "candidate %q is not on the roster", candidateID)
	}

	r.entries = append(r.entries[:idx], r.entries[idx+1:]...)
	r.commit()
	return r.Entries(), nil
}
