package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"text-intel-go/internal/service"
)

// SummaryHandler serves /summarize-text and /summarize-doc.
type SummaryHandler struct {
	summaryService service.SummaryService
}

// NewSummaryHandler creates a SummaryHandler.
func NewSummaryHandler(summaryService service.SummaryService) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService}
}

// SummarizeTextRequest is the body of /summarize-text. Form fields of the same
// names are accepted as well.
type SummarizeTextRequest struct {
	Text  string `json:"text" form:"text"`
	Model string `json:"model" form:"model"`
}

// SummarizeText summarizes pasted text.
func (h *SummaryHandler) SummarizeText(c *gin.Context) {
	var req SummarizeTextRequest
	if err := c.ShouldBind(&req); err != nil {
		rejectBody(c, "SummaryHandler", err, "Invalid request body")
		return
	}
	if isBlank(req.Text) {
		badRequest(c, "Text input cannot be empty.")
		return
	}
	choice, ok := parseModel(c, "SummaryHandler", req.Model)
	if !ok {
		return
	}

	summary, err := h.summaryService.SummarizeText(c.Request.Context(), req.Text, choice)
	if err != nil {
		respondError(c, "SummaryHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// SummarizeDocument summarizes an uploaded pdf, docx or txt file.
func (h *SummaryHandler) SummarizeDocument(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		rejectBody(c, "SummaryHandler", err, "Please provide a document file.")
		return
	}
	choice, ok := parseModel(c, "SummaryHandler", c.PostForm("model"))
	if !ok {
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, "SummaryHandler", err)
		return
	}
	defer file.Close()

	summary, err := h.summaryService.SummarizeDocument(c.Request.Context(), file, fileHeader.Filename, choice)
	if err != nil {
		respondError(c, "SummaryHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
