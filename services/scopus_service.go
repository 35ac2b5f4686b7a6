// services/scopus_service.go - Scopus Search API client and record normalization
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"research-metrics-api/utils"

	"github.com/sethgrid/pester"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

const (
	scopusSearchURL      = "https://api.elsevier.com/content/search/scopus"
	scopusAffiliationURL = "https://api.elsevier.com/content/search/affiliation"
	scopusPageSize       = 25
	scopusMaxResults     = 5000
)

// scopusStandardFields is the field list requested when the API key is not
// entitled to the COMPLETE view. STANDARD omits author lists unless asked for.
const scopusStandardFields = "dc:identifier,eid,dc:title,dc:creator,author,affiliation," +
	"prism:publicationName,prism:coverDate,prism:coverDisplayDate,prism:doi," +
	"citedby-count,subtype,subtypeDescription,prism:aggregationType,dc:publisher,link"

// httpDoer lets tests substitute a scripted transport for the retrying client.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ScopusService fetches institutional publications from the Scopus Search API.
type ScopusService struct {
	db      *gorm.DB
	client  httpDoer
	limiter *rate.Limiter
	apiKey  string
}

// NewScopusService constructs a ScopusService. A nil client gets a retrying
// HTTP client with exponential backoff that honors 429 responses.
func NewScopusService(db *gorm.DB, client httpDoer, apiKey string) *ScopusService {
	if client == nil {
		pc := pester.New()
		pc.Backoff = pester.ExponentialBackoff
		pc.MaxRetries = 3
		pc.RetryOnHTTP429 = true
		pc.Timeout = 30 * time.Second
		client = pc
	}
	return &ScopusService{
		db:      db,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(5), 1),
		apiKey:  apiKey,
	}
}

// InstitutionQuery selects which affiliation to fetch. AffiliationID takes
// precedence over AffiliationName; Year restricts to a publication year when
// positive; MaxResults caps the page walk and defaults to scopusMaxResults.
type InstitutionQuery struct {
	AffiliationID   string
	AffiliationName string
	Year            int
	MaxResults      int
}

func (q InstitutionQuery) queryString() string {
	var base string
	if id := strings.TrimSpace(q.AffiliationID); id != "" {
		base = fmt.Sprintf("AF-ID(%s)", id)
	} else {
		base = fmt.Sprintf("AFFIL(%s)", strings.TrimSpace(q.AffiliationName))
	}
	if q.Year > 0 {
		base = fmt.Sprintf("%s AND PUBYEAR = %d", base, q.Year)
	}
	return base
}

// FetchResult carries the normalized publications of one fetch together with
// run metadata. Degraded is set when the COMPLETE view was refused and the
// STANDARD field subset served instead.
type FetchResult struct {
	Publications []*Publication `json:"publications"`
	TotalResults int            `json:"total_results"`
	Degraded     bool           `json:"degraded"`
	RunID        string         `json:"run_id"`
}

// FetchInstitution pages through every search result for the query and
// normalizes each entry. The run is recorded in source_fetch_runs so failed
// fetches stay auditable.
func (s *ScopusService) FetchInstitution(ctx context.Context, q InstitutionQuery) (*FetchResult, error) {
	if strings.TrimSpace(q.AffiliationID) == "" && strings.TrimSpace(q.AffiliationName) == "" {
		return nil, errors.New("affiliation id or name is required")
	}
	if s.apiKey == "" {
		return nil, errors.New("scopus api key is not configured")
	}

	maxResults := q.MaxResults
	if maxResults <= 0 || maxResults > scopusMaxResults {
		maxResults = scopusMaxResults
	}

	run := startFetchRun(ctx, s.db, "scopus", q.queryString())

	result := &FetchResult{RunID: run.RunID}
	view := "COMPLETE"
	start := 0
	totalResults := -1
	var fetchErr error

	defer func() {
		finishFetchRun(ctx, s.db, run, totalResults, len(result.Publications), fetchErr)
	}()

	for {
		page, status, err := s.fetchSearchPage(ctx, q.queryString(), view, start)
		if err != nil {
			if (status == http.StatusUnauthorized || status == http.StatusForbidden) && view == "COMPLETE" {
				log.Printf("scopus: view COMPLETE refused (status %d), retrying with STANDARD", status)
				view = "STANDARD"
				result.Degraded = true
				continue
			}
			fetchErr = err
			return nil, err
		}

		if totalResults < 0 {
			totalResults = page.TotalResults
			result.TotalResults = page.TotalResults
		}

		if len(page.Entries) == 0 {
			break
		}

		for _, raw := range page.Entries {
			entry, err := parseScopusEntry(raw)
			if err != nil {
				log.Printf("scopus: skipping unparseable entry: %v", err)
				continue
			}
			result.Publications = append(result.Publications, scopusEntryToPublication(entry))
		}

		start += len(page.Entries)
		if start >= maxResults {
			break
		}
		if totalResults >= 0 && start >= totalResults {
			break
		}
	}

	return result, nil
}

type scopusPage struct {
	TotalResults int
	Entries      []json.RawMessage
}

func (s *ScopusService) fetchSearchPage(ctx context.Context, query, view string, start int) (*scopusPage, int, error) {
	reqURL, err := url.Parse(scopusSearchURL)
	if err != nil {
		return nil, 0, err
	}

	params := reqURL.Query()
	params.Set("query", query)
	params.Set("count", strconv.Itoa(scopusPageSize))
	params.Set("start", strconv.Itoa(start))
	params.Set("view", view)
	if view == "STANDARD" {
		params.Set("field", scopusStandardFields)
	}
	reqURL.RawQuery = params.Encode()

	body, status, err := s.get(ctx, reqURL.String())
	if err != nil {
		return nil, status, err
	}

	var decoded struct {
		SearchResults struct {
			TotalResults string            `json:"opensearch:totalResults"`
			Entries      []json.RawMessage `json:"entry"`
		} `json:"search-results"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, status, fmt.Errorf("decode scopus response: %w", err)
	}

	return &scopusPage{
		TotalResults: parseIntSafe(decoded.SearchResults.TotalResults),
		Entries:      decoded.SearchResults.Entries,
	}, status, nil
}

func (s *ScopusService) get(ctx context.Context, rawURL string) ([]byte, int, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-ELS-APIKey", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, resp.StatusCode, fmt.Errorf("scopus api error: status %d body %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

// Organization is one affiliation search hit.
type Organization struct {
	AffiliationID string `json:"affiliation_id"`
	Name          string `json:"name"`
	City          string `json:"city"`
	Country       string `json:"country"`
	DocumentCount int    `json:"document_count"`
}

// SearchOrganizations looks up Scopus affiliation profiles by name.
func (s *ScopusService) SearchOrganizations(ctx context.Context, name string) ([]Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("organization name is required")
	}
	if s.apiKey == "" {
		return nil, errors.New("scopus api key is not configured")
	}

	reqURL, err := url.Parse(scopusAffiliationURL)
	if err != nil {
		return nil, err
	}
	params := reqURL.Query()
	params.Set("query", fmt.Sprintf("AFFIL(%s)", name))
	params.Set("count", strconv.Itoa(scopusPageSize))
	reqURL.RawQuery = params.Encode()

	body, _, err := s.get(ctx, reqURL.String())
	if err != nil {
		return nil, err
	}

	var decoded struct {
		SearchResults struct {
			Entries []struct {
				Identifier    string `json:"dc:identifier"`
				Name          string `json:"affiliation-name"`
				City          string `json:"city"`
				Country       string `json:"country"`
				DocumentCount string `json:"document-count"`
			} `json:"entry"`
		} `json:"search-results"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode affiliation response: %w", err)
	}

	orgs := make([]Organization, 0, len(decoded.SearchResults.Entries))
	for _, e := range decoded.SearchResults.Entries {
		orgs = append(orgs, Organization{
			AffiliationID: strings.TrimPrefix(strings.TrimSpace(e.Identifier), "AFFILIATION_ID:"),
			Name:          strings.TrimSpace(e.Name),
			City:          strings.TrimSpace(e.City),
			Country:       strings.TrimSpace(e.Country),
			DocumentCount: parseIntSafe(e.DocumentCount),
		})
	}
	return orgs, nil
}

// scopusEntryToPublication maps one search entry to the shared record shape.
func scopusEntryToPublication(entry *scopusEntry) *Publication {
	scopusID := strings.TrimPrefix(strings.TrimSpace(entry.Identifier), "SCOPUS_ID:")

	title := strings.TrimSpace(entry.Title)
	if title == "" {
		title = "Untitled Publication"
	}

	link := ""
	if l := entry.Links.FirstByRef("scopus"); l != nil {
		link = *l
	} else if scopusID != "" {
		link = fmt.Sprintf("https://www.scopus.com/record/display.uri?eid=2-s2.0-%s", scopusID)
	}

	year, month, day, dateStr := ParsePublicationDate(entry.CoverDate, entry.CoverDisplayDate)

	affiliation := ""
	if len(entry.Affiliation) > 0 {
		affiliation = strings.TrimSpace(entry.Affiliation[0].AffilName)
	}

	pub := &Publication{
		Title:           title,
		Authors:         scopusDisplayAuthors(entry),
		AuthorsMatching: scopusMatchingAuthors(entry),
		Year:            year,
		Month:           month,
		Day:             day,
		Date:            dateStr,
		Venue:           strings.TrimSpace(entry.PublicationName),
		Publisher:       strings.TrimSpace(entry.Publisher),
		Citations:       parseIntSafe(entry.CitedByCount),
		Link:            link,
		DOI:             utils.NormalizeDOI(entry.DOI),
		Affiliation:     affiliation,
		Subtype:         strings.TrimSpace(entry.SubtypeDesc),
		SubtypeCode:     strings.TrimSpace(entry.Subtype),
		AggregationType: strings.TrimSpace(entry.AggregationType),
		DocumentType:    strings.TrimSpace(entry.SubtypeDesc),
		ScopusID:        scopusID,
		SubjectAreas:    entry.SubjectAreas.Values(),
		Source:          "scopus",
		Indexing:        "Scopus",
	}
	return pub
}

// scopusDisplayAuthors builds the human readable author string. Given name
// plus surname when both exist, the indexed name otherwise, the dc:creator
// field as a last resort.
func scopusDisplayAuthors(entry *scopusEntry) string {
	var names []string
	for _, a := range entry.Author {
		given := strings.TrimSpace(a.GivenName)
		surname := strings.TrimSpace(a.Surname)
		switch {
		case given != "" && surname != "":
			names = append(names, given+" "+surname)
		case strings.TrimSpace(a.AuthName) != "":
			names = append(names, strings.TrimSpace(a.AuthName))
		}
	}
	if len(names) > 0 {
		return strings.Join(names, ", ")
	}
	return creatorFallback(entry.Creator.String())
}

// scopusMatchingAuthors builds "Surname, INITIALS" tokens for the faculty
// matcher. Initials come from the explicit field when present, then from the
// given name's first letters; a bare surname keeps its trailing comma.
func scopusMatchingAuthors(entry *scopusEntry) string {
	var names []string
	for _, a := range entry.Author {
		surname := strings.TrimSpace(a.Surname)
		if surname == "" {
			if name := strings.TrimSpace(a.AuthName); name != "" {
				names = append(names, name)
			}
			continue
		}
		initials := strings.TrimSpace(a.Initials)
		if initials == "" {
			initials = utils.InitialsFromGiven(a.GivenName)
		}
		if initials == "" {
			names = append(names, surname+",")
			continue
		}
		names = append(names, surname+", "+initials)
	}
	if len(names) > 0 {
		return strings.Join(names, ", ")
	}
	return creatorFallback(entry.Creator.String())
}

// creatorFallback splits a dc:creator value on semicolons and rejoins with
// commas so downstream segmentation sees a uniform separator.
func creatorFallback(creator string) string {
	creator = strings.TrimSpace(creator)
	if creator == "" {
		return ""
	}
	parts := strings.Split(creator, ";")
	var names []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return strings.Join(names, ", ")
}
