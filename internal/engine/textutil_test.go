package engine

import "testing"

func TestHostOf(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.geeksforgeeks.org/osi-model/", "geeksforgeeks.org"},
		{"www.geeksforgeeks.org", "geeksforgeeks.org"},
		{"en.wikipedia.org", "en.wikipedia.org"},
		{"http://Developer.Mozilla.org:443/en-US/docs", "developer.mozilla.org"},
		{"cs50.harvard.edu/x/2024", "cs50.harvard.edu"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := HostOf(tt.in); got != tt.want {
				t.Errorf("HostOf(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := TruncateRunes("короткий", 100, "..."); got != "короткий" {
		t.Errorf("short string changed: %q", got)
	}
	got := TruncateRunes("сетевая модель OSI", 7, "")
	if n := len([]rune(got)); n > 7 {
		t.Errorf("expected at most 7 runes, got %d (%q)", n, got)
	}
}
