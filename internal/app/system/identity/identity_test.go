package identity

import (
	"strings"
	"testing"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Event A", "event a"},
		{"Ｅｖｅｎｔ　Ａ", "event a"},
		{"  Event \t\n  A  ", "event a"},
		{"ＡＢＣ展", "abc展"},
		{"ｶﾀｶﾅ展", "カタカナ展"},
		{"モネ　連作の情景", "モネ 連作の情景"},
		{"", ""},
		{"   ", ""},
		{"\uFEFFEvent", "event"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := NormalizeTitle(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExhibitionID_EquivalentTitles(t *testing.T) {
	base := ExhibitionID("m1", "event a")
	variants := []string{
		"Ｅｖｅｎｔ　Ａ",
		"EVENT A",
		"Event   A",
		" event a ",
		"event　a",
	}
	for _, v := range variants {
		if got := ExhibitionID("m1", v); got != base {
			t.Errorf("ExhibitionID(m1, %q) = %q, want %q", v, got, base)
		}
	}
}

func TestExhibitionID_DistinctTitles(t *testing.T) {
	a := ExhibitionID("m1", "Event A")
	b := ExhibitionID("m1", "Event B")
	if a == b {
		t.Errorf("expected different ids for different titles, both %q", a)
	}
}

func TestExhibitionID_DistinctMuseums(t *testing.T) {
	a := ExhibitionID("m1", "Event A")
	b := ExhibitionID("m2", "Event A")
	if a == b {
		t.Errorf("expected different ids for different museums, both %q", a)
	}
}

func TestExhibitionID_Format(t *testing.T) {
	id := ExhibitionID("507f1f77bcf86cd799439011", "Event A")

	if !strings.HasPrefix(id, "507f1f77bcf86cd799439011_") {
		t.Fatalf("id %q missing museum prefix", id)
	}
	hash := strings.TrimPrefix(id, "507f1f77bcf86cd799439011_")
	// 16 byte digest, unpadded base64url
	if len(hash) != 22 {
		t.Errorf("hash length = %d, want 22", len(hash))
	}
	if strings.ContainsAny(hash, "+/=") {
		t.Errorf("hash %q is not unpadded base64url", hash)
	}
}

func TestExhibitionID_KnownValue(t *testing.T) {
	// md5("event a") = b253c718e4b511e7a47c5e98f34512c6
	got := ExhibitionID("m1", "Event A")
	want := "m1_slPHGOS1EeekfF6Y80USxg"
	if got != want {
		t.Errorf("ExhibitionID = %q, want %q", got, want)
	}
}
