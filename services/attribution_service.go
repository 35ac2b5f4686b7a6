// services/attribution_service.go - Faculty attribution over reconciled publications
package services

import (
	"regexp"
	"sort"
	"strings"
)

// surnameInitialsRegex recognizes "Dela Cruz J.D., Santos M.," style author
// strings where initials trail the surname without a comma.
var surnameInitialsRegex = regexp.MustCompile(`([A-Za-z\s]+?)\s+([A-Z](?:\.[A-Z])*(?:\.[A-Z]+)?\.?)\s*,`)

// SegmentAuthorTokens splits a joined author string into per-author tokens in
// "Surname, Initials" form where possible. Two layouts are handled: surname
// followed directly by initials, and comma-separated pairs where the initials
// come after their own comma. The comma layout pairs parts two at a time, so
// dotted ("J.D.") and dotless ("JD") initials segment the same way; an odd
// trailing part is a bare surname.
func SegmentAuthorTokens(authorsStr string) []string {
	authorsStr = strings.TrimSpace(authorsStr)
	if authorsStr == "" {
		return nil
	}

	if matches := surnameInitialsRegex.FindAllStringSubmatch(authorsStr+",", -1); len(matches) > 0 {
		tokens := make([]string, 0, len(matches))
		for _, m := range matches {
			surname := strings.TrimSpace(m[1])
			initials := strings.TrimSpace(m[2])
			if surname == "" {
				continue
			}
			tokens = append(tokens, surname+", "+initials)
		}
		if len(tokens) > 0 {
			return tokens
		}
	}

	var parts []string
	for _, p := range strings.Split(authorsStr, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	var tokens []string
	for i := 0; i < len(parts); i += 2 {
		if i+1 < len(parts) {
			tokens = append(tokens, parts[i]+", "+parts[i+1])
		} else {
			tokens = append(tokens, parts[i])
		}
	}
	return tokens
}

// FacultyAttribution is one roster member's slice of the matched set.
type FacultyAttribution struct {
	Department   string         `json:"department"`
	Position     string         `json:"position"`
	Publications []*Publication `json:"publications"`
}

// AttributionResult aggregates roster matches over a publication set.
type AttributionResult struct {
	MatchedPublications []*Publication                 `json:"matched_publications"`
	FacultyPublications map[string]*FacultyAttribution `json:"faculty_publications"`
	DepartmentCounts    map[string]int                 `json:"department_counts"`
	TotalMatched        int                            `json:"total_matched"`
}

// AttributePublications matches every author of every publication against the
// roster. Each publication is processed once even if it appears twice in the
// input, each department is counted once per publication, and a faculty
// member's publication list never repeats an entry.
func AttributePublications(pubs []*Publication, roster []*FacultyRecord, threshold float64) *AttributionResult {
	result := &AttributionResult{
		FacultyPublications: make(map[string]*FacultyAttribution),
		DepartmentCounts:    make(map[string]int),
	}

	seenPubs := make(map[string]struct{}, len(pubs))
	facultySeen := make(map[string]map[string]struct{})

	for _, pub := range pubs {
		if pub == nil {
			continue
		}
		pubID := pub.IdentityKey()
		if _, ok := seenPubs[pubID]; ok {
			continue
		}
		seenPubs[pubID] = struct{}{}

		authorsStr := pub.AuthorsMatching
		if authorsStr == "" {
			authorsStr = pub.Authors
		}

		var matched []*FacultyRecord
		deptSet := make(map[string]struct{})
		nameSet := make(map[string]struct{})

		for _, token := range SegmentAuthorTokens(authorsStr) {
			f := MatchAuthorToFaculty(token, roster, threshold)
			if f == nil {
				continue
			}
			if _, ok := nameSet[f.Name]; ok {
				continue
			}
			nameSet[f.Name] = struct{}{}
			matched = append(matched, f)
			if f.Department != "" {
				deptSet[f.Department] = struct{}{}
			}
		}

		if len(matched) == 0 {
			continue
		}

		names := make([]string, len(matched))
		for i, f := range matched {
			names[i] = f.Name
		}
		pub.MatchedFaculty = names
		pub.MatchedDepartments = sortedKeys(deptSet)

		result.MatchedPublications = append(result.MatchedPublications, pub)
		result.TotalMatched++
		for dept := range deptSet {
			result.DepartmentCounts[dept]++
		}
		for _, f := range matched {
			if facultySeen[f.Name] == nil {
				facultySeen[f.Name] = make(map[string]struct{})
			}
			if _, ok := facultySeen[f.Name][pubID]; ok {
				continue
			}
			facultySeen[f.Name][pubID] = struct{}{}
			entry := result.FacultyPublications[f.Name]
			if entry == nil {
				entry = &FacultyAttribution{Department: f.Department, Position: f.Position}
				result.FacultyPublications[f.Name] = entry
			}
			entry.Publications = append(entry.Publications, pub)
		}
	}

	return result
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
