package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"text-intel-go/internal/service"
)

// TextHandler serves the text-only tasks: sentiment, entities, code and answers.
type TextHandler struct {
	sentimentService service.SentimentService
	entityService    service.EntityService
	codeService      service.CodeService
	answerService    service.AnswerService
}

// NewTextHandler creates a TextHandler.
func NewTextHandler(
	sentimentService service.SentimentService,
	entityService service.EntityService,
	codeService service.CodeService,
	answerService service.AnswerService,
) *TextHandler {
	return &TextHandler{
		sentimentService: sentimentService,
		entityService:    entityService,
		codeService:      codeService,
		answerService:    answerService,
	}
}

// SentimentRequest is the body of /analyze_sentiment.
type SentimentRequest struct {
	TextInput string `json:"text_input"`
	Model     string `json:"model"`
}

// TextRequest is the body of /extract_entities and /generate-answer.
type TextRequest struct {
	Text  string `json:"text"`
	Model string `json:"model"`
}

// CodeRequest is the body of /generate-code.
type CodeRequest struct {
	Text        string `json:"text"`
	ModelChoice string `json:"model_choice"`
	Language    string `json:"language"`
}

// AnalyzeSentiment classifies the sentiment of text_input.
func (h *TextHandler) AnalyzeSentiment(c *gin.Context) {
	var req SentimentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		rejectBody(c, "TextHandler", err, "Invalid request body")
		return
	}
	if isBlank(req.TextInput) {
		badRequest(c, "No text provided for sentiment analysis")
		return
	}
	choice, ok := parseModel(c, "TextHandler", req.Model)
	if !ok {
		return
	}

	sentiment, err := h.sentimentService.Analyze(c.Request.Context(), req.TextInput, choice)
	if err != nil {
		respondError(c, "TextHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sentiment": sentiment})
}

// ExtractEntities lists the named entities found in text.
func (h *TextHandler) ExtractEntities(c *gin.Context) {
	var req TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		rejectBody(c, "TextHandler", err, "Invalid request body")
		return
	}
	if isBlank(req.Text) {
		badRequest(c, "No text provided for entity extraction")
		return
	}
	choice, ok := parseModel(c, "TextHandler", req.Model)
	if !ok {
		return
	}

	entities, err := h.entityService.Extract(c.Request.Context(), req.Text, choice)
	if err != nil {
		respondError(c, "TextHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entities": entities})
}

// GenerateCode produces code in the requested language.
func (h *TextHandler) GenerateCode(c *gin.Context) {
	var req CodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		rejectBody(c, "TextHandler", err, "Invalid request body")
		return
	}
	if isBlank(req.Text) {
		badRequest(c, "No text provided for code extraction")
		return
	}
	choice, ok := parseModel(c, "TextHandler", req.ModelChoice)
	if !ok {
		return
	}

	code, err := h.codeService.Generate(c.Request.Context(), req.Text, req.Language, choice)
	if err != nil {
		respondError(c, "TextHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": code})
}

// GenerateAnswer answers an open-domain question.
func (h *TextHandler) GenerateAnswer(c *gin.Context) {
	var req TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		rejectBody(c, "TextHandler", err, "Invalid request body")
		return
	}
	if isBlank(req.Text) {
		badRequest(c, "No text provided for generating answers")
		return
	}
	choice, ok := parseModel(c, "TextHandler", req.Model)
	if !ok {
		return
	}

	answer, err := h.answerService.Answer(c.Request.Context(), req.Text, choice)
	if err != nil {
		respondError(c, "TextHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"answer": answer})
}
