package services

import "testing"

func TestParsePublicationDate(t *testing.T) {
	tests := []struct {
		name      string
		cover     string
		display   string
		wantYear  int
		wantMonth int
		wantDay   int
		wantDate  string
	}{
		{"full date", "2023-05-17", "", 2023, 5, 17, "2023/05/17"},
		{"year month", "2023-05", "", 2023, 5, 0, "2023/05"},
		{"year only", "2023", "", 2023, 0, 0, "2023"},
		{"display fallback", "", "15 March 2021", 2021, 0, 0, "2021"},
		{"garbage cover with fallback", "n/a", "Volume 12, 2019", 2019, 0, 0, "2019"},
		{"nothing", "", "no year here", 0, 0, 0, ""},
		{"invalid month dropped", "2022-13-01", "", 2022, 0, 0, "2022"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			year, month, day, dateStr := ParsePublicationDate(tt.cover, tt.display)
			if got := deref(year); got != tt.wantYear {
				t.Errorf("year = %d, want %d", got, tt.wantYear)
			}
			if got := deref(month); got != tt.wantMonth {
				t.Errorf("month = %d, want %d", got, tt.wantMonth)
			}
			if got := deref(day); got != tt.wantDay {
				t.Errorf("day = %d, want %d", got, tt.wantDay)
			}
			if dateStr != tt.wantDate {
				t.Errorf("date = %q, want %q", dateStr, tt.wantDate)
			}
		})
	}
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func TestIdentityKey(t *testing.T) {
	withID := &Publication{ScopusID: "85123456789", Title: "Some Title"}
	if got := withID.IdentityKey(); got != "85123456789" {
		t.Errorf("IdentityKey = %q, want scopus id", got)
	}
	withoutID := &Publication{Title: "Some Title"}
	if got := withoutID.IdentityKey(); got != "Some Title" {
		t.Errorf("IdentityKey = %q, want title", got)
	}
}

func TestDateStringHelpers(t *testing.T) {
	if y := YearFromDateString("2024/03/01"); y != 2024 {
		t.Errorf("YearFromDateString = %d, want 2024", y)
	}
	if y := YearFromDateString(""); y != 0 {
		t.Errorf("YearFromDateString empty = %d, want 0", y)
	}
	if m := MonthFromDateString("2024/03/01"); m != 3 {
		t.Errorf("MonthFromDateString = %d, want 3", m)
	}
	if m := MonthFromDateString("2024"); m != 0 {
		t.Errorf("MonthFromDateString year-only = %d, want 0", m)
	}
}
