package roster

import "sort"

// sortEntries applies the roster order: numbered entries first by ascending number,
// then special entries by role priority. The sort is stable so entries with equal
// keys keep their relative order.
func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return lessEntry(entries[i], entries[j])
	})
}

func lessEntry(a, b Entry) bool {
	aSpecial := a.IsSpecial()
	bSpecial := b.IsSpecial()

	switch {
	case !aSpecial && !bSpecial:
		return a.Number < b.Number
	case !aSpecial && bSpecial:
		return true
	case aSpecial && !bSpecial:
		return false
	default:
		return a.Role.priority() < b.Role.priority()
	}
}

// Sorted returns a copy of entries in roster order.
func Sorted(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, item := range entries {
		out = append(out, item.clone())
	}
	sortEntries(out)
	return out
}
