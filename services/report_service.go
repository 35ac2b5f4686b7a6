// services/report_service.go - Quarterly publication report workbook
package services

import (
	"fmt"
	"strconv"
	"strings"
)

// Canonical publication type labels used by the report sections.
const (
	PubTypeJournal    = "Journal"
	PubTypeConference = "Conference Proceeding"
	PubTypeOther      = "Other Type"
)

var reportPubTypeOrder = []string{PubTypeJournal, PubTypeConference, PubTypeOther}

var reportColumns = []string{
	"No.",
	"Article Title",
	"Author/s",
	"College, Campus",
	"Type of Publication",
	"Source of Fund",
	"Journal or Conference Proceeding Title",
	"Indexing",
	"Publisher",
	"MOV",
}

// NormalizePubType folds an arbitrary type label into one of the three
// report sections.
func NormalizePubType(label string) string {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "journal"):
		return PubTypeJournal
	case strings.Contains(l, "conference"), strings.Contains(l, "proceeding"):
		return PubTypeConference
	default:
		return PubTypeOther
	}
}

// ClassifyPubType decides a publication's report section from its venue and
// type metadata. A journal signal anywhere wins; everything else lands under
// conference proceedings.
func ClassifyPubType(p *Publication) string {
	for _, label := range []string{p.AggregationType, p.Venue, p.Subtype, p.DocumentType} {
		if strings.Contains(strings.ToLower(label), "journal") {
			return PubTypeJournal
		}
	}
	return PubTypeConference
}

// ReportQuarter places a publication in a quarter, defaulting to the fourth
// when no month is known.
func ReportQuarter(p *Publication) int {
	if q := QuarterFromMonth(publicationMonth(p)); q > 0 {
		return q
	}
	return 4
}

// movLink is the means-of-verification URL: the record link when present,
// the DOI resolver otherwise.
func movLink(p *Publication) string {
	if p.Link != "" {
		return p.Link
	}
	if doi := p.NormalizedDOI(); doi != "" {
		return "https://doi.org/" + doi
	}
	return ""
}

func reportCollege(p *Publication) string {
	if len(p.MatchedDepartments) > 0 {
		return strings.Join(p.MatchedDepartments, "; ")
	}
	return p.Affiliation
}

func reportIndexing(p *Publication) string {
	if p.Indexing != "" {
		return p.Indexing
	}
	return "Scopus"
}

// publicationReportRow renders one numbered data row.
func publicationReportRow(no int, p *Publication, pubType string) []string {
	return []string{
		strconv.Itoa(no),
		p.Title,
		p.Authors,
		reportCollege(p),
		pubType,
		"",
		p.Venue,
		reportIndexing(p),
		p.Publisher,
		movLink(p),
	}
}

// BuildPublicationReportRows lays out the full report grid: one section per
// publication type, quarter sub-sections inside each, and a single numbering
// sequence across the whole workbook.
func BuildPublicationReportRows(pubs []*Publication, year int) [][]string {
	byTypeQuarter := make(map[string]map[int][]*Publication)
	for _, p := range pubs {
		pubType := NormalizePubType(ClassifyPubType(p))
		if byTypeQuarter[pubType] == nil {
			byTypeQuarter[pubType] = make(map[int][]*Publication)
		}
		q := ReportQuarter(p)
		byTypeQuarter[pubType][q] = append(byTypeQuarter[pubType][q], p)
	}

	var rows [][]string
	if year > 0 {
		rows = append(rows, []string{fmt.Sprintf("Research Publications Report %d", year)})
	} else {
		rows = append(rows, []string{"Research Publications Report"})
	}
	rows = append(rows, reportColumns)

	no := 0
	for _, pubType := range reportPubTypeOrder {
		quarters := byTypeQuarter[pubType]
		if len(quarters) == 0 {
			continue
		}
		rows = append(rows, []string{pubType})
		for q := 1; q <= 4; q++ {
			section := quarters[q]
			if len(section) == 0 {
				continue
			}
			rows = append(rows, []string{fmt.Sprintf("Quarter %d", q)})
			for _, p := range section {
				no++
				rows = append(rows, publicationReportRow(no, p, pubType))
			}
		}
	}
	return rows
}

// ReportFileName is the download name for a yearly report workbook.
func ReportFileName(year int) string {
	if year > 0 {
		return fmt.Sprintf("publications-report-%d.xlsx", year)
	}
	return "publications-report.xlsx"
}

// BuildPublicationReport renders the quarterly report as XLSX bytes.
func BuildPublicationReport(pubs []*Publication, year int) ([]byte, error) {
	sheetName := "Publications"
	if year > 0 {
		sheetName = fmt.Sprintf("Publications %d", year)
	}
	return writeXLSX(sheetName, BuildPublicationReportRows(pubs, year))
}
