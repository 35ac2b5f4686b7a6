// config/settings.go - Environment-driven application settings
package config

import (
	"os"
	"strconv"
	"strings"
)

// Settings collects the environment configuration read once at startup.
type Settings struct {
	ScopusAPIKey          string
	ScopusAffiliationID   string
	OpenAlexInstitutionID string
	OpenAlexMailto        string
	InstitutionName       string
	InstitutionCountry    string
	MatchThreshold        float64
	CollegeMappingFile    string
	ServerPort            string
}

// LoadSettings reads the settings from the environment. MATCH_SCORE_THRESHOLD
// falls back to 0.7 when unset or unparseable.
func LoadSettings() *Settings {
	threshold := 0.7
	if raw := strings.TrimSpace(os.Getenv("MATCH_SCORE_THRESHOLD")); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 && v <= 1 {
			threshold = v
		}
	}

	port := strings.TrimSpace(os.Getenv("SERVER_PORT"))
	if port == "" {
		port = "8080"
	}

	return &Settings{
		ScopusAPIKey:          strings.TrimSpace(os.Getenv("SCOPUS_API_KEY")),
		ScopusAffiliationID:   strings.TrimSpace(os.Getenv("SCOPUS_AFFILIATION_ID")),
		OpenAlexInstitutionID: strings.TrimSpace(os.Getenv("OPENALEX_INSTITUTION_ID")),
		OpenAlexMailto:        strings.TrimSpace(os.Getenv("OPENALEX_MAILTO")),
		InstitutionName:       strings.TrimSpace(os.Getenv("INSTITUTION_NAME")),
		InstitutionCountry:    strings.TrimSpace(os.Getenv("INSTITUTION_COUNTRY")),
		MatchThreshold:        threshold,
		CollegeMappingFile:    strings.TrimSpace(os.Getenv("COLLEGE_MAPPING_FILE")),
		ServerPort:            port,
	}
}
