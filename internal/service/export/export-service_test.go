package export

import (
	"BandDesk/entity"
	"io"
	"log/slog"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildRoster(t *testing.T) {
	instrument := "Clarinet"
	brand := "Selmer-77"
	defects := "minor dent"

	agreements := []entity.Agreement{
		{
			ID:          "a1",
			StudentName: "Alex Lee",
			ParentName:  "Jamie Lee",
			Address:     "12 Elm St",
			PhoneNumber: "555-0100",
			LoanDate:    "2026-08-30",
		},
		{
			ID:          "a2",
			StudentName: "Sam Ortiz",
			ParentName:  "Lee Ortiz",
			Address:     "4 Oak Ave",
			PhoneNumber: "555-0101",
			LoanDate:    "2026-08-29",
			Instrument:  &instrument,
			Brand:       &brand,
			Defects:     &defects,
		},
	}

	service := NewService("Waterloo School District", discardLogger())
	roster, err := service.BuildRoster(agreements)
	if err != nil {
		t.Fatalf("BuildRoster() error = %v", err)
	}
	defer roster.Close()

	cell := func(ref string) string {
		value, err := roster.GetCellValue(rosterSheet, ref)
		if err != nil {
			t.Fatalf("GetCellValue(%s) error = %v", ref, err)
		}
		return value
	}

	if got := cell("A1"); got != "Student" {
		t.Errorf("header A1 = %q, want Student", got)
	}
	if got := cell("A2"); got != "Alex Lee" {
		t.Errorf("A2 = %q, want Alex Lee", got)
	}
	if got := cell("J2"); got != "Pending" {
		t.Errorf("J2 = %q, want Pending", got)
	}
	if got := cell("G3"); got != "Clarinet" {
		t.Errorf("G3 = %q, want Clarinet", got)
	}
	if got := cell("J3"); got != "Completed" {
		t.Errorf("J3 = %q, want Completed", got)
	}
}

func TestBuildRosterEmpty(t *testing.T) {
	service := NewService("Waterloo School District", discardLogger())

	roster, err := service.BuildRoster(nil)
	if err != nil {
		t.Fatalf("BuildRoster() error = %v", err)
	}
	defer roster.Close()

	sheets := roster.GetSheetList()
	if len(sheets) != 1 || sheets[0] != rosterSheet {
		t.Errorf("sheets = %v, want only %q", sheets, rosterSheet)
	}
}
