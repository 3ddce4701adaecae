package util

import "testing"

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"  Pikachu ": "pikachu",
		"MR-MIME":    "mr-mime",
		"\t25\n":     "25",
		"":           "",
	}
	for input, want := range cases {
		if got := Normalize(input); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestURLExtension(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/other/official-artwork/25.png", "png"},
		{"https://example.com/art/123.PNG?raw=true", "PNG"},
		{"https://example.com/v1.2/art/123.jpeg", "jpeg"},
		{"https://example.com/art/noext", ""},
		{"https://example.com/art/trailing.", ""},
		{"123.gif", "gif"},
	}
	for _, tc := range cases {
		if got := URLExtension(tc.url); got != tc.want {
			t.Errorf("URLExtension(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}

func TestTruncateString(t *testing.T) {
	if got := TruncateString("bulbasaur", 4); got != "bulb..." {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := TruncateString("mew", 10); got != "mew" {
		t.Fatalf("short string should be unchanged, got %q", got)
	}
}
