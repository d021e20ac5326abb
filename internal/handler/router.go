package handler

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"text-intel-go/internal/middleware"
)

// Handlers groups everything NewRouter mounts.
type Handlers struct {
	Summary  *SummaryHandler
	Text     *TextHandler
	Document *DocumentHandler
	Meta     *MetaHandler
	Limits   BodyLimits
}

// BodyLimits bounds request bodies in bytes; zero disables a limit.
type BodyLimits struct {
	JSON int64
	// Upload is the largest accepted file; multipart bodies get formOverhead on top.
	Upload int64
}

// formOverhead leaves room for the multipart framing and form fields.
const formOverhead = 1 << 20

func (l BodyLimits) multipart() int64 {
	if l.Upload <= 0 {
		return 0
	}
	return l.Upload + formOverhead
}

// NewRouter builds the gin engine with request ids, logging, recovery and
// CORS open to all origins.
func NewRouter(h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.RequestLogger(), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, middleware.RequestIDHeader)
	corsCfg.ExposeHeaders = []string{middleware.RequestIDHeader}
	r.Use(cors.New(corsCfg))

	jsonLimit := middleware.BodyLimit(h.Limits.JSON)
	uploadLimit := middleware.BodyLimit(h.Limits.multipart())

	r.POST("/summarize-text", jsonLimit, h.Summary.SummarizeText)
	r.POST("/summarize-doc", uploadLimit, h.Summary.SummarizeDocument)
	r.POST("/analyze_sentiment", jsonLimit, h.Text.AnalyzeSentiment)
	r.POST("/extract_entities", jsonLimit, h.Text.ExtractEntities)
	r.POST("/generate-code", jsonLimit, h.Text.GenerateCode)
	r.POST("/generate-answer", jsonLimit, h.Text.GenerateAnswer)
	r.POST("/answer-query-from-document", uploadLimit, h.Document.AnswerQueryFromDocument)

	r.GET("/health", h.Meta.Health)
	r.GET("/models", h.Meta.Models)
	r.GET("/supported-types", h.Meta.SupportedTypes)
	return r
}
