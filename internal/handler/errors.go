// Package handler contains the gin handlers for the text-intelligence routes.
package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"text-intel-go/internal/middleware"
	"text-intel-go/internal/service"
	"text-intel-go/pkg/extract"
	"text-intel-go/pkg/llm"
	"text-intel-go/pkg/log"
)

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrEmptyInput),
		errors.Is(err, service.ErrUnsupportedLanguage),
		errors.Is(err, llm.ErrUnknownModel),
		errors.Is(err, extract.ErrUnsupportedFormat),
		errors.Is(err, extract.ErrDecode),
		errors.Is(err, extract.ErrUnreadable),
		errors.Is(err, extract.ErrTooLarge),
		isTooLarge(err):
		return http.StatusBadRequest
	}
	// provider failures and everything unexpected
	return http.StatusInternalServerError
}

// messageFor returns the client-facing text of err.
func messageFor(err error) string {
	switch {
	case errors.Is(err, extract.ErrUnsupportedFormat):
		return "Unsupported file type."
	case errors.Is(err, extract.ErrUnreadable):
		return "Error reading file: " + strings.TrimPrefix(err.Error(), extract.ErrUnreadable.Error()+": ")
	case errors.Is(err, service.ErrUnsupportedLanguage):
		return service.ErrUnsupportedLanguage.Error()
	}
	return err.Error()
}

// respondError writes {"error": message} with the status mapped from err.
func respondError(c *gin.Context, component string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Errorw("["+component+"] request failed", "path", c.FullPath(), "requestId", c.GetString(middleware.RequestIDKey), "error", err)
	} else {
		log.Warnw("["+component+"] request rejected", "path", c.FullPath(), "status", status, "error", err)
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": messageFor(err)})
}

func isTooLarge(err error) bool {
	var maxBytes *http.MaxBytesError
	return errors.As(err, &maxBytes)
}

// rejectBody answers a body that could not be read or decoded. Oversized
// bodies keep their own message; anything else is message.
func rejectBody(c *gin.Context, component string, err error, message string) {
	if isTooLarge(err) {
		respondError(c, component, err)
		return
	}
	badRequest(c, message)
}

// badRequest rejects a request with a fixed validation message.
func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

// parseModel resolves a request's model field, writing a 400 when it is unknown.
func parseModel(c *gin.Context, component, value string) (llm.ModelChoice, bool) {
	choice, err := llm.ParseModelChoice(value)
	if err != nil {
		respondError(c, component, err)
		return "", false
	}
	return choice, true
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
