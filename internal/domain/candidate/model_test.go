package candidate

import "testing"

func TestFromRecords_BuildsPositionalIDsAndLabels(t *testing.T) {
	records := []Record{
		{"Nome": "Giulia", "Cognome": "Ferri", "Tessera": "A-1"},
		{"Cognome": "Solo"},
		{},
	}

	got := FromRecords(records, DefaultFieldMapping())
	if len(got) != 3 {
		t.Fatalf("unexpected candidate count: %d", len(got))
	}
	if got[0].ID != "0" || got[2].ID != "2" {
		t.Fatalf("unexpected ids: %s %s", got[0].ID, got[2].ID)
	}
	if got[0].Label != "Giulia Ferri" {
		t.Fatalf("unexpected label: %q", got[0].Label)
	}
	if got[1].Label != "Solo" {
		t.Fatalf("unexpected label for missing first name: %q", got[1].Label)
	}
	if got[2].Label != "" {
		t.Fatalf("expected empty label, got %q", got[2].Label)
	}

	records[0]["Tessera"] = "changed"
	if got[0].Fields["Tessera"] != "A-1" {
		t.Fatalf("candidate fields must not alias feed records")
	}
}

func TestList_Find(t *testing.T) {
	list := FromRecords([]Record{{"Nome": "A"}, {"Nome": "B"}}, DefaultFieldMapping())

	if item, ok := list.Find("1"); !ok || item.Label != "B" {
		t.Fatalf("expected to find candidate 1, got %+v ok=%v", item, ok)
	}
	for _, id := range []string{"2", "-1", "x", "01", ""} {
		if _, ok := list.Find(id); ok {
			t.Fatalf("expected lookup of %q to fail", id)
		}
	}
}

func TestCandidate_MatchesSearch(t *testing.T) {
	item := Candidate{Label: "Davide Lolli"}
	if !item.MatchesSearch("lol") || !item.MatchesSearch("DAVIDE") || !item.MatchesSearch("  ") {
		t.Fatalf("expected case-insensitive match")
	}
	if item.MatchesSearch("rossi") {
		t.Fatalf("unexpected match")
	}
}
