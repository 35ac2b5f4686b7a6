package services

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
)

// doerFunc adapts a function to the httpDoer interface.
type doerFunc func(req *http.Request) (*http.Response, error)

func (f doerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

const scopusPageBody = `{
	"search-results": {
		"opensearch:totalResults": "2",
		"entry": [
			{
				"dc:identifier": "SCOPUS_ID:85123456789",
				"eid": "2-s2.0-85123456789",
				"dc:title": "Deep Learning for Crop Yield",
				"dc:publisher": "Elsevier",
				"prism:publicationName": "Journal of Agricultural Informatics",
				"prism:aggregationType": "Journal",
				"subtype": "ar",
				"subtypeDescription": "Article",
				"prism:coverDate": "2023-05-17",
				"prism:coverDisplayDate": "17 May 2023",
				"prism:doi": "10.1000/ABC123",
				"citedby-count": "12",
				"affiliation": {"afid": "60012345", "affilname": "Example University"},
				"author": [
					{"authid": "1", "authname": "Santos J.D.", "given-name": "Juan", "surname": "Santos", "initials": "J.D."},
					{"authid": "2", "authname": "Reyes M.", "given-name": "Maria", "surname": "Reyes", "initials": "M."}
				],
				"subject-area": [
					{"@abbrev": "COMP", "$": "Computer Science"},
					{"@abbrev": "AGRI", "$": "Agricultural Sciences"}
				]
			},
			{
				"dc:identifier": "SCOPUS_ID:85999999999",
				"dc:creator": "Cruz A.; Lim B.",
				"citedby-count": "0",
				"author": {"authid": "3", "authname": "Cruz A."}
			}
		]
	}
}`

func TestFetchInstitutionCompleteView(t *testing.T) {
	var views []string
	client := doerFunc(func(req *http.Request) (*http.Response, error) {
		views = append(views, req.URL.Query().Get("view"))
		if req.Header.Get("X-ELS-APIKey") != "test-key" {
			t.Errorf("missing api key header")
		}
		return jsonResponse(http.StatusOK, scopusPageBody), nil
	})

	service := NewScopusService(nil, client, "test-key")
	result, err := service.FetchInstitution(context.Background(), InstitutionQuery{AffiliationID: "60012345"})
	if err != nil {
		t.Fatalf("FetchInstitution: %v", err)
	}
	if result.Degraded {
		t.Error("unexpected degraded flag")
	}
	if len(views) != 1 || views[0] != "COMPLETE" {
		t.Errorf("views requested: %v", views)
	}
	if result.TotalResults != 2 || len(result.Publications) != 2 {
		t.Fatalf("got %d/%d publications", len(result.Publications), result.TotalResults)
	}

	p := result.Publications[0]
	if p.ScopusID != "85123456789" {
		t.Errorf("ScopusID = %q, want the prefix stripped", p.ScopusID)
	}
	if p.Title != "Deep Learning for Crop Yield" || p.Venue != "Journal of Agricultural Informatics" {
		t.Errorf("title/venue = %q / %q", p.Title, p.Venue)
	}
	if p.Authors != "Juan Santos, Maria Reyes" {
		t.Errorf("Authors = %q", p.Authors)
	}
	if p.AuthorsMatching != "Santos, J.D., Reyes, M." {
		t.Errorf("AuthorsMatching = %q", p.AuthorsMatching)
	}
	if p.DOI != "10.1000/abc123" {
		t.Errorf("DOI = %q, want lowercased", p.DOI)
	}
	if p.Citations != 12 || p.Date != "2023/05/17" {
		t.Errorf("citations/date = %d / %q", p.Citations, p.Date)
	}
	if p.Affiliation != "Example University" {
		t.Errorf("Affiliation = %q", p.Affiliation)
	}
	if len(p.SubjectAreas) != 2 || p.SubjectAreas[0] != "Computer Science" {
		t.Errorf("SubjectAreas = %v", p.SubjectAreas)
	}
	if p.Link == "" {
		t.Error("record link missing")
	}
	if p.Source != "scopus" || p.Indexing != "Scopus" {
		t.Errorf("provenance = (%q, %q)", p.Source, p.Indexing)
	}

	// second entry: untitled placeholder, single-object author, creator fallback unused
	q := result.Publications[1]
	if q.Title != "Untitled Publication" {
		t.Errorf("placeholder title = %q", q.Title)
	}
	if q.AuthorsMatching != "Cruz A." {
		t.Errorf("AuthorsMatching = %q", q.AuthorsMatching)
	}
}

func TestFetchInstitutionStandardFallback(t *testing.T) {
	var views []string
	client := doerFunc(func(req *http.Request) (*http.Response, error) {
		view := req.URL.Query().Get("view")
		views = append(views, view)
		if view == "COMPLETE" {
			return jsonResponse(http.StatusForbidden, `{"error": "insufficient entitlements"}`), nil
		}
		if req.URL.Query().Get("field") == "" {
			t.Error("STANDARD retry must request an explicit field list")
		}
		return jsonResponse(http.StatusOK, scopusPageBody), nil
	})

	service := NewScopusService(nil, client, "test-key")
	result, err := service.FetchInstitution(context.Background(), InstitutionQuery{AffiliationName: "Example University"})
	if err != nil {
		t.Fatalf("FetchInstitution: %v", err)
	}
	if !result.Degraded {
		t.Error("degraded flag not set after fallback")
	}
	if len(views) != 2 || views[0] != "COMPLETE" || views[1] != "STANDARD" {
		t.Errorf("views requested: %v", views)
	}
	if len(result.Publications) != 2 {
		t.Errorf("got %d publications", len(result.Publications))
	}
}

func TestFetchInstitutionErrorSurfaces(t *testing.T) {
	client := doerFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusInternalServerError, `{"error": "boom"}`), nil
	})
	service := NewScopusService(nil, client, "test-key")
	if _, err := service.FetchInstitution(context.Background(), InstitutionQuery{AffiliationID: "1"}); err == nil {
		t.Fatal("expected an error")
	}
}

func TestFetchInstitutionValidation(t *testing.T) {
	service := NewScopusService(nil, doerFunc(nil), "test-key")
	if _, err := service.FetchInstitution(context.Background(), InstitutionQuery{}); err == nil {
		t.Error("empty query must fail")
	}
	noKey := NewScopusService(nil, doerFunc(nil), "")
	if _, err := noKey.FetchInstitution(context.Background(), InstitutionQuery{AffiliationID: "1"}); err == nil {
		t.Error("missing api key must fail")
	}
}

func TestInstitutionQueryString(t *testing.T) {
	q := InstitutionQuery{AffiliationID: "60012345", AffiliationName: "ignored", Year: 2023}
	if got := q.queryString(); got != "AF-ID(60012345) AND PUBYEAR = 2023" {
		t.Errorf("queryString = %q", got)
	}
	byName := InstitutionQuery{AffiliationName: "Example University"}
	if got := byName.queryString(); got != "AFFIL(Example University)" {
		t.Errorf("queryString = %q", got)
	}
}

func TestSearchOrganizations(t *testing.T) {
	body := `{"search-results": {"entry": [
		{"dc:identifier": "AFFILIATION_ID:60012345", "affiliation-name": "Example University",
		 "city": "Manila", "country": "Philippines", "document-count": "1234"}
	]}}`
	client := doerFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, body), nil
	})

	service := NewScopusService(nil, client, "test-key")
	orgs, err := service.SearchOrganizations(context.Background(), "Example University")
	if err != nil {
		t.Fatalf("SearchOrganizations: %v", err)
	}
	if len(orgs) != 1 {
		t.Fatalf("got %d organizations", len(orgs))
	}
	org := orgs[0]
	if org.AffiliationID != "60012345" || org.DocumentCount != 1234 || org.Country != "Philippines" {
		t.Errorf("organization = %+v", org)
	}
}

func TestScopusEntryFlexibleShapes(t *testing.T) {
	raw := json.RawMessage(`{
		"dc:title": "Sample",
		"dc:creator": {"$": "Only Author"},
		"affiliation": [{"afid": "1", "affilname": "First U"}, {"afid": "2", "affilname": "Second U"}],
		"subject-area": [{"@abbrev": "", "$": "Lone Area"}, {"@abbrev": "MED"}]
	}`)
	entry, err := parseScopusEntry(raw)
	if err != nil {
		t.Fatalf("parseScopusEntry: %v", err)
	}
	if entry.Creator.String() != "Only Author" {
		t.Errorf("creator = %q", entry.Creator)
	}
	if len(entry.Affiliation) != 2 {
		t.Errorf("affiliations = %+v", entry.Affiliation)
	}
	if got := entry.SubjectAreas.Values(); len(got) != 2 || got[0] != "Lone Area" || got[1] != "MED" {
		t.Errorf("subject areas = %v", got)
	}

	p := scopusEntryToPublication(entry)
	if p.Affiliation != "First U" {
		t.Errorf("Affiliation = %q", p.Affiliation)
	}
	if p.Authors != "Only Author" || p.AuthorsMatching != "Only Author" {
		t.Errorf("creator fallback = %q / %q", p.Authors, p.AuthorsMatching)
	}
}
