package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple title", "My List", "my-list"},
		{"lowercase", "GOLANG", "golang"},
		{"punctuation runs", "Go: The Good Parts!!", "go-the-good-parts"},
		{"apostrophe", "don't stop", "don-t-stop"},
		{"accents folded", "Café Crème", "cafe-creme"},
		{"leading and trailing", "--Go / Rust--", "go-rust"},
		{"digits kept", "Top 10 Papers 2024", "top-10-papers-2024"},
		{"non latin only", "日本語", FallbackSlug},
		{"empty", "", FallbackSlug},
		{"symbols only", "!!!", FallbackSlug},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDisambiguateSlug(t *testing.T) {
	if got := DisambiguateSlug("my-list", 1700000000123); got != "my-list-1700000000123" {
		t.Errorf("DisambiguateSlug = %q", got)
	}
}
