package inputval

import "testing"

func TestIsValidHTTPURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://example.com", true},
		{"http://example.com/path?q=1", true},
		{"  https://museum.example.jp/ex  ", true},
		{"", false},
		{"example.com", false},
		{"ftp://example.com", false},
		{"https://", false},
		{"javascript:alert(1)", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := IsValidHTTPURL(tt.in); got != tt.want {
				t.Errorf("IsValidHTTPURL(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsValidObjectID(t *testing.T) {
	if !IsValidObjectID("5f1d7f9b2c8e4a0011223344") {
		t.Error("expected valid")
	}
	for _, s := range []string{"", "xyz", "5f1d7f9b2c8e4a001122334"} {
		if IsValidObjectID(s) {
			t.Errorf("IsValidObjectID(%q) = true", s)
		}
	}
}
