// config/colleges.go - Department to college mapping
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// CollegeRule maps department names to a college key. A department matches
// when it contains any AnyOf substring and none of the NoneOf substrings,
// compared case-insensitively.
type CollegeRule struct {
	College string   `yaml:"college"`
	AnyOf   []string `yaml:"any_of"`
	NoneOf  []string `yaml:"none_of,omitempty"`
}

// CollegeMapping is an ordered rule list. The first matching rule wins.
type CollegeMapping struct {
	Rules []CollegeRule `yaml:"rules"`
}

// DefaultCollegeMapping returns the built-in rules. Order matters: the plain
// engineering rule must come after the more specific ones it would otherwise
// shadow.
func DefaultCollegeMapping() *CollegeMapping {
	return &CollegeMapping{Rules: []CollegeRule{
		{College: "engineering_technology", AnyOf: []string{"engineering technology"}},
		{College: "informatics_computing", AnyOf: []string{"informatics", "computing", "computer"}},
		{College: "architecture_design", AnyOf: []string{"architecture", "design", "fine arts"}},
		{College: "engineering", AnyOf: []string{"engineering"}, NoneOf: []string{"technology"}},
	}}
}

// LoadCollegeMapping reads rules from a YAML file, falling back to the
// defaults when no path is configured.
func LoadCollegeMapping(path string) (*CollegeMapping, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultCollegeMapping(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read college mapping: %w", err)
	}

	var mapping CollegeMapping
	if err := yaml.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("parse college mapping: %w", err)
	}
	if len(mapping.Rules) == 0 {
		return DefaultCollegeMapping(), nil
	}
	return &mapping, nil
}

// MapDepartment resolves a department name to its college key, or "" when no
// rule matches.
func (m *CollegeMapping) MapDepartment(department string) string {
	dept := strings.ToLower(strings.TrimSpace(department))
	if dept == "" {
		return ""
	}

	for _, rule := range m.Rules {
		matched := false
		for _, sub := range rule.AnyOf {
			if strings.Contains(dept, strings.ToLower(sub)) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		excluded := false
		for _, sub := range rule.NoneOf {
			if strings.Contains(dept, strings.ToLower(sub)) {
				excluded = true
				break
			}
		}
		if excluded {
			continue
		}
		return rule.College
	}
	return ""
}
