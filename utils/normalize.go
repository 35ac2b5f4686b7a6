// utils/normalize.go - String normalization for record matching
package utils

import (
	"regexp"
	"strings"
)

var (
	titleCleanRegex = regexp.MustCompile(`[^a-z0-9]+`)
	spaceRegex      = regexp.MustCompile(`\s+`)
)

// surnameParticles are lowercase tokens that attach to the following surname
// ("de la Cruz", "van der Berg"). Trailing punctuation is ignored when testing
// membership.
var surnameParticles = map[string]struct{}{
	"de": {}, "del": {}, "della": {}, "di": {}, "da": {}, "dos": {}, "das": {},
	"van": {}, "von": {}, "la": {}, "le": {}, "du": {}, "st": {}, "st.": {},
}

// NormalizeTitle produces a canonical comparison key for a title or name:
// lowercase, every non-alphanumeric run collapsed to a single space, trimmed.
// Idempotent and safe on empty input.
func NormalizeTitle(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	s = titleCleanRegex.ReplaceAllString(s, " ")
	s = spaceRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizeDOI strips URL and scheme prefixes from a DOI and lowercases it.
// DOIs are the primary merge key across sources, so every boundary crossing
// must pass through this function.
func NormalizeDOI(doi string) string {
	s := strings.ToLower(strings.TrimSpace(doi))
	if s == "" {
		return ""
	}
	s = strings.TrimPrefix(s, "https://doi.org/")
	s = strings.TrimPrefix(s, "http://doi.org/")
	s = strings.TrimPrefix(s, "doi:")
	return strings.TrimSpace(s)
}

// SurnameAndInitials splits a "Given [Middle] Surname" display name into its
// surname and uppercase initials. The surname is the trailing token plus any
// immediately preceding particle tokens; initials are taken from the first
// letter of each remaining token. A single-token name is treated as a bare
// surname with no initials.
func SurnameAndInitials(displayName string) (string, string) {
	tokens := strings.Fields(strings.TrimSpace(displayName))
	if len(tokens) == 0 {
		return "", ""
	}

	surnameStart := len(tokens) - 1
	for surnameStart > 0 {
		prev := strings.ToLower(strings.Trim(tokens[surnameStart-1], ".,"))
		if _, ok := surnameParticles[prev]; !ok {
			break
		}
		surnameStart--
	}

	surname := strings.Join(tokens[surnameStart:], " ")

	var initials strings.Builder
	for _, t := range tokens[:surnameStart] {
		r := rune(t[0])
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			initials.WriteString(strings.ToUpper(string(r)))
		}
	}
	return surname, initials.String()
}

// InitialsFromGiven derives uppercase initials from a given-name string,
// one letter per whitespace-separated token.
func InitialsFromGiven(given string) string {
	var initials strings.Builder
	for _, t := range strings.Fields(given) {
		r := rune(t[0])
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			initials.WriteString(strings.ToUpper(string(r)))
		}
	}
	return initials.String()
}

// CleanInitials uppercases initials and strips dots and spaces so "R.G.B."
// and "RGB" compare equal.
func CleanInitials(initials string) string {
	s := strings.ToUpper(strings.TrimSpace(initials))
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, " ", "")
	return s
}
