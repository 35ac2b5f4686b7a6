// services/openalex_service.go - OpenAlex API client and record normalization
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"research-metrics-api/utils"

	"github.com/sethgrid/pester"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

const (
	openAlexWorksURL        = "https://api.openalex.org/works"
	openAlexInstitutionsURL = "https://api.openalex.org/institutions"
	openAlexPageSize        = 200
	openAlexDOIBatchSize    = 100
)

// openAlexSelectFields trims work payloads to what the pipeline reads.
const openAlexSelectFields = "id,ids,doi,display_name,publication_year,publication_date," +
	"type,type_crossref,cited_by_count,authorships,primary_location,locations"

// OpenAlexService fetches institutional works from the OpenAlex API.
type OpenAlexService struct {
	db      *gorm.DB
	client  httpDoer
	limiter *rate.Limiter
	mailto  string
}

// NewOpenAlexService constructs an OpenAlexService. The mailto address joins
// requests to the polite pool; empty is allowed but slower.
func NewOpenAlexService(db *gorm.DB, client httpDoer, mailto string) *OpenAlexService {
	if client == nil {
		pc := pester.New()
		pc.Backoff = pester.ExponentialBackoff
		pc.MaxRetries = 3
		pc.RetryOnHTTP429 = true
		pc.Timeout = 30 * time.Second
		client = pc
	}
	return &OpenAlexService{
		db:      db,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(10), 1),
		mailto:  strings.TrimSpace(mailto),
	}
}

type openAlexWork struct {
	ID              string              `json:"id"`
	DOI             string              `json:"doi"`
	DisplayName     string              `json:"display_name"`
	PublicationYear *int                `json:"publication_year"`
	PublicationDate string              `json:"publication_date"`
	Type            string              `json:"type"`
	TypeCrossref    string              `json:"type_crossref"`
	CitedByCount    int                 `json:"cited_by_count"`
	Authorships     []openAlexAuthor    `json:"authorships"`
	PrimaryLocation *openAlexLocation   `json:"primary_location"`
	Locations       []*openAlexLocation `json:"locations"`
}

type openAlexAuthor struct {
	Author struct {
		DisplayName string `json:"display_name"`
	} `json:"author"`
}

type openAlexLocation struct {
	Source *struct {
		DisplayName          string `json:"display_name"`
		HostOrganizationName string `json:"host_organization_name"`
	} `json:"source"`
}

type openAlexListResponse struct {
	Meta struct {
		Count      int    `json:"count"`
		NextCursor string `json:"next_cursor"`
	} `json:"meta"`
	Results []openAlexWork `json:"results"`
}

// FetchInstitutionWorks walks the cursor pagination for every work affiliated
// with the institution, optionally restricted to one publication year.
func (s *OpenAlexService) FetchInstitutionWorks(ctx context.Context, institutionID string, year, maxResults int) (*FetchResult, error) {
	institutionID = strings.TrimSpace(institutionID)
	if institutionID == "" {
		return nil, errors.New("institution id is required")
	}
	if maxResults <= 0 {
		maxResults = scopusMaxResults
	}

	filter := "institutions.id:" + institutionID
	if year > 0 {
		filter += ",publication_year:" + strconv.Itoa(year)
	}

	run := startFetchRun(ctx, s.db, "openalex", filter)

	result := &FetchResult{RunID: run.RunID}
	totalResults := -1
	cursor := "*"
	var fetchErr error

	defer func() {
		finishFetchRun(ctx, s.db, run, totalResults, len(result.Publications), fetchErr)
	}()

	for cursor != "" {
		page, err := s.fetchWorksPage(ctx, filter, cursor)
		if err != nil {
			fetchErr = err
			return nil, err
		}

		if totalResults < 0 {
			totalResults = page.Meta.Count
			result.TotalResults = page.Meta.Count
		}
		if len(page.Results) == 0 {
			break
		}

		for i := range page.Results {
			result.Publications = append(result.Publications, openAlexWorkToPublication(&page.Results[i]))
		}
		if len(result.Publications) >= maxResults {
			result.Publications = result.Publications[:maxResults]
			break
		}
		cursor = page.Meta.NextCursor
	}

	return result, nil
}

// FetchWorksByDOIs resolves works for the given DOIs in batches. DOIs that
// OpenAlex does not know are silently absent from the result.
func (s *OpenAlexService) FetchWorksByDOIs(ctx context.Context, dois []string) ([]*Publication, error) {
	cleaned := make([]string, 0, len(dois))
	seen := make(map[string]struct{}, len(dois))
	for _, d := range dois {
		norm := utils.NormalizeDOI(d)
		if norm == "" {
			continue
		}
		if _, ok := seen[norm]; ok {
			continue
		}
		seen[norm] = struct{}{}
		cleaned = append(cleaned, norm)
	}
	if len(cleaned) == 0 {
		return nil, nil
	}

	var pubs []*Publication
	for start := 0; start < len(cleaned); start += openAlexDOIBatchSize {
		end := start + openAlexDOIBatchSize
		if end > len(cleaned) {
			end = len(cleaned)
		}
		batch := cleaned[start:end]

		urls := make([]string, len(batch))
		for i, d := range batch {
			urls[i] = "https://doi.org/" + d
		}
		filter := "doi:" + strings.Join(urls, "|")

		cursor := "*"
		for cursor != "" {
			page, err := s.fetchWorksPage(ctx, filter, cursor)
			if err != nil {
				return nil, err
			}
			if len(page.Results) == 0 {
				break
			}
			for i := range page.Results {
				pubs = append(pubs, openAlexWorkToPublication(&page.Results[i]))
			}
			cursor = page.Meta.NextCursor
		}
	}
	return pubs, nil
}

func (s *OpenAlexService) fetchWorksPage(ctx context.Context, filter, cursor string) (*openAlexListResponse, error) {
	reqURL, err := url.Parse(openAlexWorksURL)
	if err != nil {
		return nil, err
	}
	params := reqURL.Query()
	params.Set("filter", filter)
	params.Set("per-page", strconv.Itoa(openAlexPageSize))
	params.Set("cursor", cursor)
	params.Set("select", openAlexSelectFields)
	if s.mailto != "" {
		params.Set("mailto", s.mailto)
	}
	reqURL.RawQuery = params.Encode()

	body, err := s.get(ctx, reqURL.String())
	if err != nil {
		return nil, err
	}

	var decoded openAlexListResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode openalex response: %w", err)
	}
	return &decoded, nil
}

func (s *OpenAlexService) get(ctx context.Context, rawURL string) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("openalex api error: status %d body %s", resp.StatusCode, string(body))
	}
	return io.ReadAll(resp.Body)
}

var openAlexInstitutionIDRegex = regexp.MustCompile(`/I(\d+)$`)

// InstitutionMatch is a scored institution search hit. ID is the short form
// ("I123456789") extracted from the OpenAlex URL.
type InstitutionMatch struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	CountryCode string  `json:"country_code"`
	Score       float64 `json:"score"`
}

// SearchInstitution finds the best matching institution profile for a name.
// Country code and title agreement dominate OpenAlex's own relevance order.
func (s *OpenAlexService) SearchInstitution(ctx context.Context, name, countryCode string) (*InstitutionMatch, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("institution name is required")
	}

	reqURL, err := url.Parse(openAlexInstitutionsURL)
	if err != nil {
		return nil, err
	}
	params := reqURL.Query()
	params.Set("search", name)
	params.Set("per-page", "25")
	if s.mailto != "" {
		params.Set("mailto", s.mailto)
	}
	reqURL.RawQuery = params.Encode()

	body, err := s.get(ctx, reqURL.String())
	if err != nil {
		return nil, err
	}

	var decoded struct {
		Results []struct {
			ID          string `json:"id"`
			DisplayName string `json:"display_name"`
			CountryCode string `json:"country_code"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode institution response: %w", err)
	}
	if len(decoded.Results) == 0 {
		return nil, fmt.Errorf("no institution found for %q", name)
	}

	wantTitle := utils.NormalizeTitle(name)
	wantCountry := strings.ToUpper(strings.TrimSpace(countryCode))

	var best *InstitutionMatch
	for _, r := range decoded.Results {
		m := openAlexInstitutionIDRegex.FindStringSubmatch(r.ID)
		if m == nil {
			continue
		}

		score := 0.0
		if wantCountry != "" && strings.ToUpper(r.CountryCode) == wantCountry {
			score += 10
		}
		gotTitle := utils.NormalizeTitle(r.DisplayName)
		if gotTitle == wantTitle {
			score += 20
		} else if strings.Contains(gotTitle, wantTitle) || strings.Contains(wantTitle, gotTitle) {
			score += 5
		}

		if best == nil || score > best.Score {
			best = &InstitutionMatch{
				ID:          "I" + m[1],
				DisplayName: r.DisplayName,
				CountryCode: r.CountryCode,
				Score:       score,
			}
		}
	}
	if best == nil {
		return nil, fmt.Errorf("no usable institution id for %q", name)
	}
	return best, nil
}

// openAlexWorkToPublication maps one work to the shared record shape.
func openAlexWorkToPublication(w *openAlexWork) *Publication {
	title := strings.TrimSpace(w.DisplayName)
	if title == "" {
		title = "Untitled Publication"
	}

	year, month, day, dateStr := ParsePublicationDate(w.PublicationDate, "")
	if year == nil && w.PublicationYear != nil && *w.PublicationYear > 0 {
		y := *w.PublicationYear
		year = &y
		dateStr = strconv.Itoa(y)
	}

	var names, matching []string
	for _, a := range w.Authorships {
		n := strings.TrimSpace(a.Author.DisplayName)
		if n == "" {
			continue
		}
		names = append(names, n)
		surname, initials := utils.SurnameAndInitials(n)
		if surname == "" {
			continue
		}
		if initials == "" {
			matching = append(matching, surname+",")
		} else {
			matching = append(matching, surname+", "+initials)
		}
	}
	authors := strings.Join(names, ", ")

	venue, publisher := openAlexVenue(w)

	doi := utils.NormalizeDOI(w.DOI)
	link := strings.TrimSpace(w.ID)
	if link == "" && doi != "" {
		link = "https://doi.org/" + doi
	}

	return &Publication{
		Title:           title,
		Authors:         authors,
		AuthorsMatching: strings.Join(matching, ", "),
		Year:            year,
		Month:           month,
		Day:             day,
		Date:            dateStr,
		Venue:           venue,
		Publisher:       publisher,
		Citations:       w.CitedByCount,
		Link:            link,
		DOI:             doi,
		Subtype:         strings.TrimSpace(w.Type),
		DocumentType:    strings.TrimSpace(w.TypeCrossref),
		OpenAlexID:      strings.TrimPrefix(strings.TrimSpace(w.ID), "https://openalex.org/"),
		Source:          "openalex",
	}
}

// openAlexVenue picks the primary location's source, falling back to the
// first location that carries one.
func openAlexVenue(w *openAlexWork) (venue, publisher string) {
	locs := make([]*openAlexLocation, 0, len(w.Locations)+1)
	if w.PrimaryLocation != nil {
		locs = append(locs, w.PrimaryLocation)
	}
	locs = append(locs, w.Locations...)

	for _, loc := range locs {
		if loc == nil || loc.Source == nil {
			continue
		}
		if venue == "" {
			venue = strings.TrimSpace(loc.Source.DisplayName)
		}
		if publisher == "" {
			publisher = strings.TrimSpace(loc.Source.HostOrganizationName)
		}
		if venue != "" && publisher != "" {
			break
		}
	}
	return venue, publisher
}
