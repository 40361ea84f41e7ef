package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "  Learn Go  ", "Learn Go"},
		{"bold tag", "<b>Learn</b> Go", "Learn Go"},
		{"script dropped", `<script>alert("x")</script>Hello`, "Hello"},
		{"entities decoded", "Tom &amp; Jerry", "Tom & Jerry"},
		{"block elements on new lines", "<p>one</p><p>two</p>", "one\ntwo"},
		{"only tags", "<br><br>", ""},
		{"newline kept without markup", "Week 1: basics\nWeek 2: advanced", "Week 1: basics\nWeek 2: advanced"},
		{"newline kept with ampersand", "Week 1: rock & roll\nWeek 2: advanced", "Week 1: rock & roll\nWeek 2: advanced"},
		{"newline kept with tags", "<b>Week 1</b>\n\nWeek 2", "Week 1\n\nWeek 2"},
		{"interior spacing kept", "a  &amp;  b", "a  &  b"},
		{"style dropped", "<style>p{}</style>Notes", "Notes"},
		{"comparison text", "1 < 2", "1 < 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeText(tt.input))
		})
	}
}

func TestNotesMarkdown(t *testing.T) {
	assert.Equal(t, "just text", NotesMarkdown("  just text "))

	md := NotesMarkdown("<p>Read <strong>chapter 3</strong></p>")
	assert.True(t, strings.Contains(md, "**chapter 3**"), "got %q", md)
	assert.NotContains(t, md, "<p>")
}

func TestOptionalText(t *testing.T) {
	assert.Nil(t, OptionalText(nil, SafeText))

	empty := "  <br> "
	assert.Nil(t, OptionalText(&empty, SafeText))

	v := " <i>desc</i> "
	got := OptionalText(&v, SafeText)
	if assert.NotNil(t, got) {
		assert.Equal(t, "desc", *got)
	}
}
