package services

import (
	"reflect"
	"strings"
	"testing"
)

func TestNormalizePubType(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Journal", PubTypeJournal},
		{"scientific journal", PubTypeJournal},
		{"Conference Proceeding", PubTypeConference},
		{"proceedings-article", PubTypeConference},
		{"Book Chapter", PubTypeOther},
		{"", PubTypeOther},
	}
	for _, tt := range tests {
		if got := NormalizePubType(tt.in); got != tt.want {
			t.Errorf("NormalizePubType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClassifyPubType(t *testing.T) {
	journal := &Publication{Venue: "International Journal of Robotics"}
	if got := ClassifyPubType(journal); got != PubTypeJournal {
		t.Errorf("journal venue classified as %q", got)
	}
	byAggregation := &Publication{AggregationType: "Journal", Venue: "Robotica"}
	if got := ClassifyPubType(byAggregation); got != PubTypeJournal {
		t.Errorf("journal aggregation classified as %q", got)
	}
	conf := &Publication{Venue: "ACM Symposium on Applied Computing"}
	if got := ClassifyPubType(conf); got != PubTypeConference {
		t.Errorf("conference venue classified as %q", got)
	}
}

func TestReportQuarterDefaultsToFourth(t *testing.T) {
	may := 5
	if got := ReportQuarter(&Publication{Month: &may}); got != 2 {
		t.Errorf("quarter = %d, want 2", got)
	}
	if got := ReportQuarter(&Publication{Date: "2023/11/02"}); got != 4 {
		t.Errorf("quarter = %d, want 4", got)
	}
	if got := ReportQuarter(&Publication{}); got != 4 {
		t.Errorf("no month quarter = %d, want 4", got)
	}
}

func TestMOVLink(t *testing.T) {
	if got := movLink(&Publication{Link: "https://example.org/rec"}); got != "https://example.org/rec" {
		t.Errorf("movLink = %q", got)
	}
	if got := movLink(&Publication{DOI: "10.1/x"}); got != "https://doi.org/10.1/x" {
		t.Errorf("movLink = %q", got)
	}
	if got := movLink(&Publication{}); got != "" {
		t.Errorf("movLink = %q, want empty", got)
	}
}

func TestBuildPublicationReportRoundTrip(t *testing.T) {
	feb, aug := 2, 8
	pubs := []*Publication{
		{Title: "Journal Paper Q1", Authors: "Santos J.D.", Venue: "Journal of Testing", Month: &feb, DOI: "10.1/q1"},
		{Title: "Journal Paper Q3", Authors: "Reyes M.", Venue: "Journal of Testing", Month: &aug},
		{Title: "Conference Paper", Authors: "Cruz A.", Venue: "Intl Conference on Software"},
	}

	data, err := BuildPublicationReport(pubs, 2023)
	if err != nil {
		t.Fatalf("BuildPublicationReport: %v", err)
	}

	rows, err := readXLSXRows(data)
	if err != nil {
		t.Fatalf("readXLSXRows: %v", err)
	}

	if len(rows) == 0 || !strings.Contains(rows[0][0], "2023") {
		t.Fatalf("missing report title row: %v", rows)
	}
	if !reflect.DeepEqual(rows[1], reportColumns) {
		t.Errorf("header = %v, want %v", rows[1], reportColumns)
	}

	var flat []string
	for _, r := range rows {
		flat = append(flat, r[0])
	}
	joined := strings.Join(flat, "|")

	// journal section precedes conference section, quarters in order
	ji := strings.Index(joined, PubTypeJournal)
	ci := strings.Index(joined, PubTypeConference)
	if ji < 0 || ci < 0 || ji > ci {
		t.Errorf("section order wrong: %v", flat)
	}

	// numbering is global across sections
	var numbers []string
	for _, r := range rows {
		if len(r) == len(reportColumns) && r[0] != "No." {
			numbers = append(numbers, r[0])
		}
	}
	if !reflect.DeepEqual(numbers, []string{"1", "2", "3"}) {
		t.Errorf("numbering = %v, want [1 2 3]", numbers)
	}

	// the conference paper has no month, so it lands in quarter 4
	confRowFound := false
	for _, r := range rows {
		if len(r) == len(reportColumns) && r[1] == "Conference Paper" {
			confRowFound = true
			if r[4] != PubTypeConference {
				t.Errorf("type cell = %q", r[4])
			}
		}
	}
	if !confRowFound {
		t.Error("conference paper row missing")
	}
}

func TestParseFacultyRoster(t *testing.T) {
	grid := [][]string{
		{"Faculty Roster 2023"},
		{"Name", "Department", "Position"},
		{"Juan Dela Cruz", "Computer Science", "Professor"},
		{"Maria Santos", "Mathematics", ""},
		{"", "ignored", ""},
	}
	data, err := writeXLSX("Roster", grid)
	if err != nil {
		t.Fatalf("writeXLSX: %v", err)
	}

	records, err := ParseFacultyRoster(data)
	if err != nil {
		t.Fatalf("ParseFacultyRoster: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Name != "Juan Dela Cruz" || records[0].Department != "Computer Science" || records[0].Position != "Professor" {
		t.Errorf("first record = %+v", records[0])
	}
	if len(records[0].NameVariants) == 0 {
		t.Error("variants not generated")
	}
	if records[1].Position != "" {
		t.Errorf("second record position = %q, want empty", records[1].Position)
	}
}

func TestParseFacultyRosterNoHeader(t *testing.T) {
	data, err := writeXLSX("Sheet1", [][]string{{"just", "random", "cells"}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseFacultyRoster(data); err == nil {
		t.Error("expected an error when no header row exists")
	}
}

func TestXLSXRoundTripSpecialCharacters(t *testing.T) {
	grid := [][]string{{"a<b&c>", "", "trailing"}}
	data, err := writeXLSX("S", grid)
	if err != nil {
		t.Fatal(err)
	}
	rows, err := readXLSXRows(data)
	if err != nil {
		t.Fatal(err)
	}
	if rows[0][0] != "a<b&c>" || rows[0][2] != "trailing" {
		t.Errorf("round trip = %v", rows[0])
	}
}
