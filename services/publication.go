// services/publication.go - Unified publication record shared by both source pipelines
package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"research-metrics-api/utils"
)

// Publication is the normalized record both fetch pipelines produce and the
// reconciler merges. Year, Month and Day are pointers because either source
// may carry a partial date; Date mirrors them as a "YYYY/MM/DD" display
// string with the missing parts dropped.
type Publication struct {
	Title           string   `json:"title"`
	Authors         string   `json:"authors"`
	AuthorsMatching string   `json:"authors_matching"`
	Year            *int     `json:"year"`
	Month           *int     `json:"month"`
	Day             *int     `json:"day"`
	Date            string   `json:"date"`
	Venue           string   `json:"venue"`
	Publisher       string   `json:"publisher"`
	Citations       int      `json:"citations"`
	Link            string   `json:"link"`
	DOI             string   `json:"doi"`
	Affiliation     string   `json:"affiliation"`
	Subtype         string   `json:"subtype"`
	SubtypeCode     string   `json:"subtype_code"`
	AggregationType string   `json:"aggregation_type"`
	DocumentType    string   `json:"document_type"`
	ScopusID        string   `json:"scopus_id"`
	OpenAlexID      string   `json:"openalex_id"`
	SubjectAreas    []string `json:"subject_areas,omitempty"`
	Source          string   `json:"source"`
	Indexing        string   `json:"indexing"`
	MatchedBy       string   `json:"matched_by,omitempty"`

	MatchedFaculty     []string `json:"matched_faculty,omitempty"`
	MatchedDepartments []string `json:"matched_departments,omitempty"`
}

// IdentityKey identifies a publication across pipeline stages. The Scopus ID
// wins when present; otherwise the raw title stands in.
func (p *Publication) IdentityKey() string {
	if p.ScopusID != "" {
		return p.ScopusID
	}
	return p.Title
}

// NormalizedDOI returns the publication's DOI in canonical form.
func (p *Publication) NormalizedDOI() string {
	return utils.NormalizeDOI(p.DOI)
}

// NormalizedTitle returns the publication's title comparison key.
func (p *Publication) NormalizedTitle() string {
	return utils.NormalizeTitle(p.Title)
}

var yearInTextRegex = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// ParsePublicationDate interprets a machine date of the form YYYY, YYYY-MM or
// YYYY-MM-DD. When it yields nothing, a four-digit year is scavenged from the
// free-form display date. The returned string renders the parts that exist as
// "YYYY", "YYYY/MM" or "YYYY/MM/DD".
func ParsePublicationDate(coverDate, displayDate string) (year, month, day *int, dateStr string) {
	parts := strings.Split(strings.TrimSpace(coverDate), "-")
	if len(parts) > 0 && parts[0] != "" {
		if y, err := strconv.Atoi(parts[0]); err == nil && y > 0 {
			year = &y
		}
	}
	if year != nil && len(parts) > 1 {
		if m, err := strconv.Atoi(parts[1]); err == nil && m >= 1 && m <= 12 {
			month = &m
		}
	}
	if month != nil && len(parts) > 2 {
		if d, err := strconv.Atoi(parts[2]); err == nil && d >= 1 && d <= 31 {
			day = &d
		}
	}

	if year == nil {
		if m := yearInTextRegex.FindString(displayDate); m != "" {
			y, _ := strconv.Atoi(m)
			year = &y
		}
	}

	switch {
	case year == nil:
		dateStr = ""
	case month == nil:
		dateStr = strconv.Itoa(*year)
	case day == nil:
		dateStr = fmt.Sprintf("%d/%02d", *year, *month)
	default:
		dateStr = fmt.Sprintf("%d/%02d/%02d", *year, *month, *day)
	}
	return year, month, day, dateStr
}

// YearFromDateString extracts the leading year of a "YYYY/MM/DD" style date
// string. Returns 0 when the string carries no year.
func YearFromDateString(date string) int {
	first := strings.SplitN(strings.TrimSpace(date), "/", 2)[0]
	y, err := strconv.Atoi(first)
	if err != nil {
		return 0
	}
	return y
}

// MonthFromDateString extracts the month component of a "YYYY/MM/DD" style
// date string. Returns 0 when absent.
func MonthFromDateString(date string) int {
	parts := strings.Split(strings.TrimSpace(date), "/")
	if len(parts) < 2 {
		return 0
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 1 || m > 12 {
		return 0
	}
	return m
}

func intPtr(v int) *int { return &v }
