package roster

import "github.com/riskibarqy/match-roster/internal/domain/candidate"

// DefaultCapacity is the maximum number of people on one match sheet.
const DefaultCapacity = 23

// Entry is one placed roster record. A numbered entry has Number > 0 and either no
// role or a marker role; a special entry holds an exclusive-special role and Number == 0.
type Entry struct {
	CandidateID string
	Label       string
	Fields      map[string]string
	Number      int
	Role        RoleKey
}

func (e Entry) IsSpecial() bool {
	return e.Role.IsSpecial()
}

func (e Entry) HasNumber() bool {
	return !e.IsSpecial() && e.Number > 0
}

// RoleFlags exposes the role as a flag mapping over the whole catalogue.
func (e Entry) RoleFlags() map[RoleKey]bool {
	out := make(map[RoleKey]bool, len(AllRoles))
	for _, key := range AllRoles {
		out[key] = key == e.Role
	}
	return out
}

func (e Entry) clone() Entry {
	copied := e
	if e.Fields != nil {
		copied.Fields = make(map[string]string, len(e.Fields))
		for key, value := range e.Fields {
			copied.Fields[key] = value
		}
	}
	return copied
}

// Roster is the ordered, versioned set of entries for one match. It is not safe for
// concurrent use; callers serialise access.
type Roster struct {
	entries  []Entry
	capacity int
	version  uint64
}

// New returns an empty roster. Capacities outside 1..DefaultCapacity fall back to
// DefaultCapacity.
func New(capacity int) *Roster {
	if capacity < 1 || capacity > DefaultCapacity {
		capacity = DefaultCapacity
	}
	return &Roster{capacity: capacity}
}

// Entries returns a copy of the entries in ordering-policy order.
func (r *Roster) Entries() []Entry {
	out := make([]Entry, 0, len(r.entries))
	for _, item := range r.entries {
		out = append(out, item.clone())
	}
	return out
}

// Entry returns a copy of the entry backed by candidateID.
func (r *Roster) Entry(candidateID string) (Entry, bool) {
	idx := r.indexOf(candidateID)
	if idx < 0 {
		return Entry{}, false
	}
	return r.entries[idx].clone(), true
}

func (r *Roster) Len() int {
	return len(r.entries)
}

func (r *Roster) Capacity() int {
	return r.capacity
}

// Version increases by one on every applied mutation.
func (r *Roster) Version() uint64 {
	return r.version
}

func (r *Roster) Clone() *Roster {
	if r == nil {
		return nil
	}
	copied := &Roster{
		entries:  make([]Entry, 0, len(r.entries)),
		capacity: r.capacity,
		version:  r.version,
	}
	for _, item := range r.entries {
		copied.entries = append(copied.entries, item.clone())
	}
	return copied
}

func (r *Roster) indexOf(candidateID string) int {
	for i := range r.entries {
		if r.entries[i].CandidateID == candidateID {
			return i
		}
	}
	return -1
}

func (r *Roster) commit() {
	sortEntries(r.entries)
	r.version++
}

func newEntry(c candidate.Candidate, number int, role RoleKey) Entry {
	fields := make(map[string]string, len(c.Fields))
	for key, value := range c.Fields {
		fields[key] = value
	}
	return Entry{
		CandidateID: c.ID,
		Label:       c.Label,
		Fields:      fields,
		Number:      number,
		Role:        role,
	}
}
