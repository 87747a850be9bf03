package utils

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"The Forest Hiker", "the-forest-hiker"},
		{"The Snow Adventurer!", "the-snow-adventurer"},
		{"  Leading & Trailing  ", "leading-trailing"},
		{"Already-Slugged", "already-slugged"},
		{"Tour   with    runs", "tour-with-runs"},
		{"Ünïcödé Letters", "ünïcödé-letters"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
