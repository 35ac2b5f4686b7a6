package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCollegeMapping(t *testing.T) {
	m := DefaultCollegeMapping()

	tests := []struct {
		department string
		want       string
	}{
		{"College of Engineering Technology", "engineering_technology"},
		{"Department of Computer Science", "informatics_computing"},
		{"School of Informatics", "informatics_computing"},
		{"College of Architecture and Fine Arts", "architecture_design"},
		{"College of Engineering", "engineering"},
		{"Department of Nursing", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := m.MapDepartment(tt.department); got != tt.want {
			t.Errorf("MapDepartment(%q) = %q, want %q", tt.department, got, tt.want)
		}
	}
}

func TestEngineeringTechnologyNotPlainEngineering(t *testing.T) {
	m := DefaultCollegeMapping()
	if got := m.MapDepartment("engineering technology"); got != "engineering_technology" {
		t.Errorf("got %q, want engineering_technology", got)
	}
	// the plain engineering rule must not swallow technology departments
	if got := m.MapDepartment("technology of engineering"); got == "engineering" {
		t.Error("technology department mapped to plain engineering")
	}
}

func TestLoadCollegeMappingFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "colleges.yaml")
	content := []byte("rules:\n  - college: science\n    any_of: [science]\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := LoadCollegeMapping(path)
	if err != nil {
		t.Fatalf("LoadCollegeMapping: %v", err)
	}
	if got := m.MapDepartment("College of Science"); got != "science" {
		t.Errorf("MapDepartment = %q, want science", got)
	}
}

func TestLoadCollegeMappingEmptyPath(t *testing.T) {
	m, err := LoadCollegeMapping("")
	if err != nil {
		t.Fatalf("LoadCollegeMapping: %v", err)
	}
	if got := m.MapDepartment("College of Engineering"); got != "engineering" {
		t.Errorf("MapDepartment = %q, want engineering", got)
	}
}
