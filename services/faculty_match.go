// services/faculty_match.go - Author to faculty roster matching
package services

import (
	"strings"

	"research-metrics-api/utils"
)

// DefaultMatchThreshold is the minimum score an author/faculty pair needs to
// count as a match. Overridable per call.
const DefaultMatchThreshold = 0.7

// FacultyRecord is the roster view the matcher works against, independent of
// where the roster came from.
type FacultyRecord struct {
	ID           uint64   `json:"id"`
	Name         string   `json:"name"`
	Department   string   `json:"department"`
	Position     string   `json:"position,omitempty"`
	NameVariants []string `json:"name_variants,omitempty"`
}

// splitRosterName separates a roster name into surname and given tokens.
// Names entered surname-first split at the comma; given-first names fall
// back to trailing-token surname detection.
func splitRosterName(name string) (string, []string) {
	if idx := strings.Index(name, ","); idx >= 0 {
		return strings.TrimSpace(name[:idx]), strings.Fields(name[idx+1:])
	}
	surname, _ := utils.SurnameAndInitials(name)
	tokens := strings.Fields(name)
	return surname, tokens[:len(tokens)-len(strings.Fields(surname))]
}

// GenerateNameVariants expands a roster name into the spellings indexed
// author strings tend to use. Order is stable and duplicates are dropped.
func GenerateNameVariants(name string) []string {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	surname, given := splitRosterName(name)

	candidates := []string{name}
	if len(given) > 0 {
		candidates = append(candidates, strings.Join(given, " ")+" "+surname)
		candidates = append(candidates, surname+" "+strings.Join(given, " "))
		candidates = append(candidates, given[0]+" "+surname)
		candidates = append(candidates, initialDot(given[0])+" "+surname)
		if len(given) > 1 {
			var dotted []string
			for _, g := range given {
				dotted = append(dotted, initialDot(g))
			}
			candidates = append(candidates, strings.Join(dotted, " ")+" "+surname)
		}
	}

	seen := make(map[string]struct{}, len(candidates))
	var variants []string
	for _, c := range candidates {
		key := utils.NormalizeTitle(c)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		variants = append(variants, c)
	}
	return variants
}

func initialDot(token string) string {
	for _, r := range token {
		return strings.ToUpper(string(r)) + "."
	}
	return ""
}

// MatchAuthorToFaculty finds the roster entry the author string most likely
// refers to, or nil when nothing reaches the threshold. A non-positive
// threshold falls back to DefaultMatchThreshold.
func MatchAuthorToFaculty(author string, roster []*FacultyRecord, threshold float64) *FacultyRecord {
	author = strings.TrimSpace(author)
	if author == "" {
		return nil
	}
	if threshold <= 0 {
		threshold = DefaultMatchThreshold
	}

	var best *FacultyRecord
	bestScore := 0.0
	for _, f := range roster {
		score := scoreAuthorAgainstFaculty(author, f)
		if score >= 1.0 {
			return f
		}
		if score > bestScore {
			best = f
			bestScore = score
		}
	}
	if bestScore >= threshold {
		return best
	}
	return nil
}

// scoreAuthorAgainstFaculty rates how well one author string fits one roster
// entry. An exact variant hit scores 1.0. Otherwise "Surname, Initials"
// author forms are compared piecewise: matching surname with matching
// initials scores high, partial initial agreement lower, a bare surname hit
// lowest.
func scoreAuthorAgainstFaculty(author string, f *FacultyRecord) float64 {
	authorKey := utils.NormalizeTitle(author)
	if authorKey == "" {
		return 0
	}

	variants := f.NameVariants
	if len(variants) == 0 {
		variants = GenerateNameVariants(f.Name)
	}
	for _, v := range variants {
		if utils.NormalizeTitle(v) == authorKey {
			return 1.0
		}
	}

	facSurname, facGiven := splitRosterName(f.Name)
	facInitials := utils.InitialsFromGiven(strings.Join(facGiven, " "))
	facSurnameKey := utils.NormalizeTitle(facSurname)
	if facSurnameKey == "" {
		return 0
	}

	if idx := strings.Index(author, ","); idx >= 0 {
		authSurname := utils.NormalizeTitle(author[:idx])
		if authSurname != facSurnameKey {
			return 0
		}
		authInitials := utils.CleanInitials(author[idx+1:])
		switch {
		case authInitials == "" || facInitials == "":
			return 0.7
		case authInitials == facInitials:
			return 1.0
		case authInitials[0] == facInitials[0] && len(authInitials) == len(facInitials):
			return 0.9
		case authInitials[0] == facInitials[0]:
			return 0.8
		default:
			return 0
		}
	}

	// No comma: treat the trailing token(s) as the surname.
	authSurname, _ := utils.SurnameAndInitials(author)
	if utils.NormalizeTitle(authSurname) == facSurnameKey {
		return 0.7
	}
	return 0
}
