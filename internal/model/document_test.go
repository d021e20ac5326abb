package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatFromFilename(t *testing.T) {
	cases := []struct {
		name   string
		want   Format
		wantOK bool
	}{
		{"report.pdf", FormatPDF, true},
		{"Report.PDF", FormatPDF, true},
		{"notes.docx", FormatDOCX, true},
		{"archive.tar.txt", FormatTXT, true},
		{"legacy.doc", "", false},
		{"README", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := FormatFromFilename(tc.name)
		assert.Equal(t, tc.wantOK, ok, tc.name)
		assert.Equal(t, tc.want, got, tc.name)
	}
}

func TestTexts(t *testing.T) {
	chunks := []Chunk{{Index: 0, Text: "a"}, {Index: 1, Text: "b"}}
	assert.Equal(t, []string{"a", "b"}, Texts(chunks))
	assert.Empty(t, Texts(nil))
}
