// Package service holds the task logic behind each HTTP route: it builds the
// prompt, fetches document context when needed and post-processes model output.
package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"text-intel-go/internal/model"
)

var (
	// ErrEmptyInput is returned for text that is empty after trimming.
	ErrEmptyInput = errors.New("input text is empty")
	// ErrUnsupportedLanguage is returned for a code language outside SupportedLanguages.
	ErrUnsupportedLanguage = errors.New("Invalid language selected. Supported languages are: " + strings.Join(SupportedLanguages, ", "))
)

// DocumentPipeline is the part of pipeline.Processor the services rely on.
type DocumentPipeline interface {
	Extract(r io.Reader, filename string) (*model.Document, error)
	RetrieveContext(ctx context.Context, text, query string, k int) (string, error)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
