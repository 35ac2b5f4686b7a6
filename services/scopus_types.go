// services/scopus_types.go - Wire types for Scopus search payloads
//
// Scopus is loose with shapes: fields appear as a string, an object with a
// "$" key, or an array of either, depending on the record. The custom
// unmarshalers here absorb that so the rest of the pipeline sees plain Go
// values.
package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type scopusEntry struct {
	EID              string             `json:"eid"`
	Identifier       string             `json:"dc:identifier"`
	Title            string             `json:"dc:title"`
	Creator          flexibleString     `json:"dc:creator"`
	Publisher        string             `json:"dc:publisher"`
	AggregationType  string             `json:"prism:aggregationType"`
	Subtype          string             `json:"subtype"`
	SubtypeDesc      string             `json:"subtypeDescription"`
	PublicationName  string             `json:"prism:publicationName"`
	CoverDate        string             `json:"prism:coverDate"`
	CoverDisplayDate string             `json:"prism:coverDisplayDate"`
	DOI              string             `json:"prism:doi"`
	CitedByCount     string             `json:"citedby-count"`
	Links            scopusLinks        `json:"link"`
	Affiliation      scopusAffiliations `json:"affiliation"`
	Author           scopusAuthors      `json:"author"`
	SubjectAreas     scopusSubjectAreas `json:"subject-area"`
}

func parseScopusEntry(raw json.RawMessage) (*scopusEntry, error) {
	var entry scopusEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("parse scopus entry: %w", err)
	}
	return &entry, nil
}

type scopusLinks []scopusLink

type scopusLink struct {
	Ref  string `json:"@ref"`
	Href string `json:"@href"`
}

func (l scopusLinks) FirstByRef(ref string) *string {
	for _, link := range l {
		if strings.EqualFold(strings.TrimSpace(link.Ref), strings.TrimSpace(ref)) {
			href := strings.TrimSpace(link.Href)
			if href != "" {
				return &href
			}
		}
	}
	return nil
}

type scopusAffiliations []scopusAffiliation

func (a *scopusAffiliations) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '[' {
		var arr []scopusAffiliation
		if err := json.Unmarshal(data, &arr); err != nil {
			return err
		}
		*a = arr
		return nil
	}
	var single scopusAffiliation
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*a = []scopusAffiliation{single}
	return nil
}

type scopusAffiliation struct {
	Afid      string `json:"afid"`
	AffilName string `json:"affilname"`
	City      string `json:"affiliation-city"`
	Country   string `json:"affiliation-country"`
}

type scopusAuthors []scopusAuthor

func (a *scopusAuthors) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '[' {
		var arr []scopusAuthor
		if err := json.Unmarshal(data, &arr); err != nil {
			return err
		}
		*a = arr
		return nil
	}
	var single scopusAuthor
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*a = []scopusAuthor{single}
	return nil
}

type scopusAuthor struct {
	AuthID    string `json:"authid"`
	AuthName  string `json:"authname"`
	GivenName string `json:"given-name"`
	Surname   string `json:"surname"`
	Initials  string `json:"initials"`
}

// scopusSubjectAreas collects subject area names, falling back to the
// abbreviation when no display value is present.
type scopusSubjectAreas []string

func (s *scopusSubjectAreas) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	items := []json.RawMessage{json.RawMessage(data)}
	if data[0] == '[' {
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
	}

	var values []string
	for _, item := range items {
		var area struct {
			Abbrev string          `json:"@abbrev"`
			Value  json.RawMessage `json:"$"`
		}
		if err := json.Unmarshal(item, &area); err != nil {
			continue
		}
		if val := extractStringFromRaw(area.Value); val != nil && strings.TrimSpace(*val) != "" {
			values = append(values, *val)
			continue
		}
		if abbrev := strings.TrimSpace(area.Abbrev); abbrev != "" {
			values = append(values, abbrev)
		}
	}
	*s = values
	return nil
}

func (s scopusSubjectAreas) Values() []string {
	if len(s) == 0 {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// flexibleString accepts a bare string, a "$"-keyed object, or an array of
// either and keeps the first usable value.
type flexibleString string

func (f *flexibleString) UnmarshalJSON(data []byte) error {
	if val := extractStringFromRaw(json.RawMessage(data)); val != nil {
		*f = flexibleString(*val)
	}
	return nil
}

func (f flexibleString) String() string { return string(f) }

func extractStringFromRaw(raw json.RawMessage) *string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if raw[0] == '"' {
		var str string
		if err := json.Unmarshal(raw, &str); err == nil {
			str = strings.TrimSpace(str)
			if str == "" {
				return nil
			}
			return &str
		}
	}
	if raw[0] == '[' {
		var arr []json.RawMessage
		if err := json.Unmarshal(raw, &arr); err != nil {
			return nil
		}
		for _, item := range arr {
			if val := extractStringFromRaw(item); val != nil {
				return val
			}
		}
		return nil
	}
	if raw[0] == '{' {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil
		}
		if val, ok := obj["$"]; ok {
			return extractStringFromRaw(val)
		}
		if val, ok := obj["value"]; ok {
			return extractStringFromRaw(val)
		}
	}
	return nil
}

func parseIntSafe(val string) int {
	val = strings.TrimSpace(val)
	if val == "" {
		return 0
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return parsed
}
