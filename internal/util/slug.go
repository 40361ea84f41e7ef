// Package util provides text helpers shared by the services.
package util

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// FallbackSlug is used when a title has no ASCII letters or digits.
const FallbackSlug = "list"

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a title to a URL-safe slug.
//
//	"My List"        -> "my-list"
//	"Café au lait!"  -> "cafe-au-lait"
//	"--Go / Rust--"  -> "go-rust"
//	"日本語"          -> "list"
func Slugify(s string) string {
	s = norm.NFKD.String(s)

	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if s == "" {
		return FallbackSlug
	}
	return s
}

// DisambiguateSlug appends a millisecond timestamp to a colliding slug.
func DisambiguateSlug(slug string, epochMillis int64) string {
	return slug + "-" + strconv.FormatInt(epochMillis, 10)
}
