package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"text-intel-go/internal/service"
	"text-intel-go/pkg/extract"
	"text-intel-go/pkg/llm"
)

// ModelLister reports the model choices a deployment serves.
type ModelLister interface {
	Models() []llm.ModelChoice
}

// MetaHandler serves the informational routes.
type MetaHandler struct {
	models ModelLister
}

// NewMetaHandler creates a MetaHandler.
func NewMetaHandler(models ModelLister) *MetaHandler {
	return &MetaHandler{models: models}
}

// Health reports liveness.
func (h *MetaHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Models lists the model choices and the default.
func (h *MetaHandler) Models(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"models":  h.models.Models(),
		"default": llm.DefaultModel,
	})
}

// SupportedTypes lists the accepted upload extensions and code languages.
func (h *MetaHandler) SupportedTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"fileTypes": extract.SupportedExtensions(),
		"languages": service.SupportedLanguages,
	})
}
