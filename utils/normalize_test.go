package utils

import "testing"

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", "   \t ", ""},
		{"case folding", "Deep Learning for Crop Yield", "deep learning for crop yield"},
		{"punctuation collapsed", "IoT-based sensing: a (short) survey!", "iot based sensing a short survey"},
		{"unicode dashes", "graphene – properties & uses", "graphene properties uses"},
		{"digits kept", "5G networks in 2024", "5g networks in 2024"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTitle(tt.in); got != tt.want {
				t.Errorf("NormalizeTitle(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeTitleIdempotent(t *testing.T) {
	inputs := []string{
		"Deep Learning for Crop Yield",
		"  A--B__C  ",
		"",
		"already normalized text",
	}
	for _, in := range inputs {
		once := NormalizeTitle(in)
		if twice := NormalizeTitle(once); twice != once {
			t.Errorf("NormalizeTitle not idempotent for %q: %q != %q", in, twice, once)
		}
	}
}

func TestNormalizeDOI(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"10.1000/XYZ123", "10.1000/xyz123"},
		{"https://doi.org/10.1000/xyz123", "10.1000/xyz123"},
		{"http://doi.org/10.1000/Xyz123", "10.1000/xyz123"},
		{"doi:10.1000/xyz123", "10.1000/xyz123"},
		{"  10.1/X  ", "10.1/x"},
	}
	for _, tt := range tests {
		if got := NormalizeDOI(tt.in); got != tt.want {
			t.Errorf("NormalizeDOI(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSurnameAndInitials(t *testing.T) {
	tests := []struct {
		in           string
		wantSurname  string
		wantInitials string
	}{
		{"Juan Dela Cruz", "Cruz", "JD"},
		{"Maria Santos", "Santos", "M"},
		{"Jose Protacio de la Cruz", "de la Cruz", "JP"},
		{"Vincent van Gogh", "van Gogh", "V"},
		{"Madonna", "Madonna", ""},
		{"", "", ""},
		{"Anna Marie St. Claire", "St. Claire", "AM"},
	}
	for _, tt := range tests {
		surname, initials := SurnameAndInitials(tt.in)
		if surname != tt.wantSurname || initials != tt.wantInitials {
			t.Errorf("SurnameAndInitials(%q) = (%q, %q), want (%q, %q)",
				tt.in, surname, initials, tt.wantSurname, tt.wantInitials)
		}
	}
}

func TestInitialsFromGiven(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Juan Domingo", "JD"},
		{"maria", "M"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := InitialsFromGiven(tt.in); got != tt.want {
			t.Errorf("InitialsFromGiven(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCleanInitials(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"R.G.B.", "RGB"},
		{"r g b", "RGB"},
		{"JD", "JD"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanInitials(tt.in); got != tt.want {
			t.Errorf("CleanInitials(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
