package sheets

import "testing"

func TestParseCSV_SkipsBlankRowsAndPadsShortRows(t *testing.T) {
	t.Parallel()

	raw := []byte("\ufeffNome,Cognome,DataNascita,Tessera\n" +
		"Mario,Rossi,01/02/2000,T-1\n" +
		"\n" +
		",,,\n" +
		"Luca,Bianchi\n" +
		"Anna,\"Verdi, jr\",03/04/2001,T-3,extra\n")

	records, err := ParseCSV(raw)
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got=%d", len(records))
	}
	if records[0]["Nome"] != "Mario" {
		t.Fatalf("expected BOM to be stripped from the first header, got=%v", records[0])
	}
	if value, ok := records[1]["Tessera"]; !ok || value != "" {
		t.Fatalf("expected short row to be padded, got=%v", records[1])
	}
	if records[2]["Cognome"] != "Verdi, jr" {
		t.Fatalf("expected quoted cell to survive, got=%q", records[2]["Cognome"])
	}
	if len(records[2]) != 4 {
		t.Fatalf("expected cells past the header to be dropped, got=%v", records[2])
	}
}

func TestParseCSV_HeaderOnly(t *testing.T) {
	t.Parallel()

	records, err := ParseCSV([]byte("Nome,Cognome\n"))
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got=%d", len(records))
	}
}

func TestParseCSV_DuplicateHeaderKeepsFirstColumn(t *testing.T) {
	t.Parallel()

	records, err := ParseCSV([]byte("Nome,Nome, \nA,B,C\n"))
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 1 || records[0]["Nome"] != "A" || len(records[0]) != 1 {
		t.Fatalf("unexpected record: %v", records)
	}
}
