// services/stats_service.go - Dashboard aggregates over reconciled publications
package services

import "sort"

// ComputeHIndex returns the largest h such that h publications have at least
// h citations each.
func ComputeHIndex(pubs []*Publication) int {
	citations := make([]int, 0, len(pubs))
	for _, p := range pubs {
		citations = append(citations, p.Citations)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(citations)))

	h := 0
	for i, c := range citations {
		if c >= i+1 {
			h = i + 1
		} else {
			break
		}
	}
	return h
}

// TotalCitations sums citation counts.
func TotalCitations(pubs []*Publication) int {
	total := 0
	for _, p := range pubs {
		total += p.Citations
	}
	return total
}

// QuarterFromMonth maps a calendar month to its quarter, 0 for an unknown
// month.
func QuarterFromMonth(month int) int {
	if month < 1 || month > 12 {
		return 0
	}
	return (month-1)/3 + 1
}

// publicationMonth reads the month field, falling back to the date string.
func publicationMonth(p *Publication) int {
	if p.Month != nil {
		return *p.Month
	}
	return MonthFromDateString(p.Date)
}

// publicationYear reads the year field, falling back to the date string.
func publicationYear(p *Publication) int {
	if p.Year != nil {
		return *p.Year
	}
	return YearFromDateString(p.Date)
}

// QuarterlyCounts tallies publications per quarter. Records without a month
// are left out.
func QuarterlyCounts(pubs []*Publication) map[int]int {
	counts := make(map[int]int, 4)
	for _, p := range pubs {
		if q := QuarterFromMonth(publicationMonth(p)); q > 0 {
			counts[q]++
		}
	}
	return counts
}

// CollegeCounts tallies matched publications per college. Each publication
// counts once per distinct college its matched departments map into.
func CollegeCounts(pubs []*Publication, mapDept func(string) string) map[string]int {
	counts := make(map[string]int)
	for _, p := range pubs {
		colleges := make(map[string]struct{})
		for _, dept := range p.MatchedDepartments {
			if college := mapDept(dept); college != "" {
				colleges[college] = struct{}{}
			}
		}
		for college := range colleges {
			counts[college]++
		}
	}
	return counts
}

// DepartmentQuarterlyCounts tallies matched publications per department and
// quarter. Records without a month are left out, as in QuarterlyCounts.
func DepartmentQuarterlyCounts(pubs []*Publication) map[string]map[int]int {
	counts := make(map[string]map[int]int)
	for _, p := range pubs {
		q := QuarterFromMonth(publicationMonth(p))
		if q == 0 {
			continue
		}
		for _, dept := range p.MatchedDepartments {
			if counts[dept] == nil {
				counts[dept] = make(map[int]int, 4)
			}
			counts[dept][q]++
		}
	}
	return counts
}

// AvailableYears lists the distinct publication years, newest first.
func AvailableYears(pubs []*Publication) []int {
	seen := make(map[int]struct{})
	for _, p := range pubs {
		if y := publicationYear(p); y > 0 {
			seen[y] = struct{}{}
		}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// FilterByYear keeps publications from one year. A non-positive year keeps
// everything.
func FilterByYear(pubs []*Publication, year int) []*Publication {
	if year <= 0 {
		return pubs
	}
	var out []*Publication
	for _, p := range pubs {
		if publicationYear(p) == year {
			out = append(out, p)
		}
	}
	return out
}

// DateStats reports how complete publication dates are across a set.
type DateStats struct {
	FullDate  int `json:"full_date"`
	YearMonth int `json:"year_month"`
	YearOnly  int `json:"year_only"`
	Missing   int `json:"missing"`
}

// ComputeDateStats classifies each record by how much of its date is known.
func ComputeDateStats(pubs []*Publication) DateStats {
	var stats DateStats
	for _, p := range pubs {
		switch {
		case p.Day != nil:
			stats.FullDate++
		case p.Month != nil:
			stats.YearMonth++
		case publicationYear(p) > 0:
			stats.YearOnly++
		default:
			stats.Missing++
		}
	}
	return stats
}

// DashboardStats is the aggregate payload behind the dashboard endpoint.
type DashboardStats struct {
	TotalPublications   int                    `json:"total_publications"`
	TotalMatched        int                    `json:"total_matched"`
	TotalCitations      int                    `json:"total_citations"`
	HIndex              int                    `json:"h_index"`
	QuarterlyCounts     map[int]int            `json:"quarterly_counts"`
	DepartmentCounts    map[string]int         `json:"department_counts"`
	DepartmentQuarterly map[string]map[int]int `json:"department_quarterly"`
	CollegeCounts       map[string]int         `json:"college_counts"`
	AvailableYears      []int                  `json:"available_years"`
	DateStats           DateStats              `json:"date_stats"`
	Year                int                    `json:"year,omitempty"`
}

// BuildDashboardStats assembles the dashboard payload for one year slice of
// the reconciled, attributed publication set.
func BuildDashboardStats(pubs []*Publication, attribution *AttributionResult, mapDept func(string) string, year int) *DashboardStats {
	allYears := AvailableYears(pubs)
	pubs = FilterByYear(pubs, year)

	stats := &DashboardStats{
		TotalPublications:   len(pubs),
		TotalCitations:      TotalCitations(pubs),
		HIndex:              ComputeHIndex(pubs),
		QuarterlyCounts:     QuarterlyCounts(pubs),
		DepartmentQuarterly: DepartmentQuarterlyCounts(pubs),
		CollegeCounts:       CollegeCounts(pubs, mapDept),
		AvailableYears:      allYears,
		DateStats:           ComputeDateStats(pubs),
		Year:                year,
	}
	if attribution != nil {
		stats.TotalMatched = attribution.TotalMatched
		stats.DepartmentCounts = attribution.DepartmentCounts
	}
	return stats
}
