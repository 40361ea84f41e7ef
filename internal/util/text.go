package util

import (
	"regexp"
	"strings"
	"unicode"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
)

var htmlTagPattern = regexp.MustCompile(`<(p|br|div|span|b|i|strong|em|a|ul|ol|li|h[1-6]|blockquote|code|pre)[\s>/]`)

// SafeText trims s and removes any markup, leaving plain text. Used for
// titles and descriptions, which are rendered verbatim, so interior
// whitespace including newlines is kept as written.
func SafeText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || !strings.ContainsAny(s, "<&") {
		return s
	}

	var buf strings.Builder
	skip := 0
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(buf.String())
		case html.TextToken:
			if skip == 0 {
				buf.Write(z.Text())
			}
		case html.StartTagToken:
			name, _ := z.TagName()
			if isRawTextTag(name) {
				skip++
				continue
			}
			breakLine(&buf, name)
		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			breakLine(&buf, name)
		case html.EndTagToken:
			name, _ := z.TagName()
			if isRawTextTag(name) && skip > 0 {
				skip--
			}
		}
	}
}

func isRawTextTag(name []byte) bool {
	tag := string(name)
	return tag == "script" || tag == "style"
}

// breakLine separates block elements with a newline unless the text
// already ends in whitespace.
func breakLine(buf *strings.Builder, name []byte) {
	switch string(name) {
	case "p", "div", "br", "li", "h1", "h2", "h3", "h4", "h5", "h6":
	default:
		return
	}
	text := buf.String()
	if text == "" || unicode.IsSpace(rune(text[len(text)-1])) {
		return
	}
	buf.WriteByte('\n')
}

// NotesMarkdown normalises item notes. Rich-text HTML pasted from the
// browser is converted to Markdown; anything else is only trimmed.
func NotesMarkdown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || !htmlTagPattern.MatchString(strings.ToLower(s)) {
		return s
	}

	markdown, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return SafeText(s)
	}
	return strings.TrimSpace(markdown)
}

// OptionalText applies fn to *s and maps an empty result to nil.
func OptionalText(s *string, fn func(string) string) *string {
	if s == nil {
		return nil
	}
	v := fn(*s)
	if v == "" {
		return nil
	}
	return &v
}
