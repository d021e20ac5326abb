// Package model defines the request-scoped data of the retrieval pipeline.
package model

import (
	"path/filepath"
	"strings"
)

// Format is the source format of an uploaded document.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatTXT  Format = "txt"
)

// FormatFromFilename maps a filename's extension to a Format. ok is false for
// anything outside pdf, docx and txt.
func FormatFromFilename(filename string) (Format, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	switch Format(ext) {
	case FormatPDF, FormatDOCX, FormatTXT:
		return Format(ext), true
	}
	return "", false
}

// Document is the raw text extracted from one upload. It lives for one request.
type Document struct {
	Name   string
	Format Format
	Text   string
}

// Chunk is a bounded piece of a Document and the unit of embedding and retrieval.
// Index is the position in the chunk sequence; it breaks similarity ties.
type Chunk struct {
	Index int
	Text  string
}

// Texts returns the chunk texts in order.
func Texts(chunks []Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Text
	}
	return out
}
