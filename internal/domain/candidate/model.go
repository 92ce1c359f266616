package candidate

import (
	"strconv"
	"strings"
)

// FieldMapping names the feed columns used to build labels and exports.
type FieldMapping struct {
	FirstName  string `yaml:"first_name"`
	LastName   string `yaml:"last_name"`
	BirthDate  string `yaml:"birth_date"`
	CardNumber string `yaml:"card_number"`
	CardIssued string `yaml:"card_issued"`
}

func DefaultFieldMapping() FieldMapping {
	return FieldMapping{
		FirstName:  "Nome",
		LastName:   "Cognome",
		BirthDate:  "DataNascita",
		CardNumber: "Tessera",
		CardIssued: "DataRilascio",
	}
}

// Record is one raw row from the candidate feed, keyed by column name.
type Record map[string]string

// Candidate is an imported person that can be placed on the roster.
type Candidate struct {
	ID     string
	Label  string
	Fields map[string]string
}

// List is an imported candidate set. A candidate's ID is its position in the list.
type List []Candidate

// FromRecords converts feed rows into candidates, in feed order.
func FromRecords(records []Record, mapping FieldMapping) List {
	out := make(List, 0, len(records))
	for idx, record := range records {
		fields := make(map[string]string, len(record))
		for key, value := range record {
			fields[key] = value
		}
		out = append(out, Candidate{
			ID:     strconv.Itoa(idx),
			Label:  BuildLabel(record[mapping.FirstName], record[mapping.LastName]),
			Fields: fields,
		})
	}
	return out
}

func BuildLabel(firstName, lastName string) string {
	return strings.TrimSpace(strings.TrimSpace(firstName) + " " + strings.TrimSpace(lastName))
}

// Find resolves a candidate by ID.
func (l List) Find(id string) (Candidate, bool) {
	idx, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil || idx < 0 || idx >= len(l) {
		return Candidate{}, false
	}
	item := l[idx]
	if item.ID != strings.TrimSpace(id) {
		return Candidate{}, false
	}
	return item, true
}

// Clone returns a deep copy so callers cannot mutate an imported set.
func (l List) Clone() List {
	if l == nil {
		return nil
	}
	out := make(List, len(l))
	for i, item := range l {
		out[i] = item.Clone()
	}
	return out
}

func (c Candidate) Clone() Candidate {
	copied := c
	if c.Fields != nil {
		copied.Fields = make(map[string]string, len(c.Fields))
		for key, value := range c.Fields {
			copied.Fields[key] = value
		}
	}
	return copied
}

// MatchesSearch reports a case-insensitive substring match on the label.
func (c Candidate) MatchesSearch(search string) bool {
	search = strings.TrimSpace(search)
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Label), strings.ToLower(search))
}
