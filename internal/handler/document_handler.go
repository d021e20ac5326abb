package handler

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"text-intel-go/internal/service"
)

// DocumentHandler serves question answering over an uploaded document.
type DocumentHandler struct {
	answerService service.AnswerService
}

// NewDocumentHandler creates a DocumentHandler.
func NewDocumentHandler(answerService service.AnswerService) *DocumentHandler {
	return &DocumentHandler{answerService: answerService}
}

// AnswerQueryFromDocument answers the query form field from the file form field.
func (h *DocumentHandler) AnswerQueryFromDocument(c *gin.Context) {
	if !strings.Contains(c.GetHeader("Content-Type"), "multipart/form-data") {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "Content-Type must be multipart/form-data"})
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		if isTooLarge(err) {
			respondError(c, "DocumentHandler", err)
			return
		}
		badRequest(c, "No file part in the request")
		return
	}
	fileHeader, message := uploadedFile(form)
	if fileHeader == nil {
		badRequest(c, message)
		return
	}
	choice, ok := parseModel(c, "DocumentHandler", c.PostForm("model"))
	if !ok {
		return
	}
	query := c.PostForm("query")

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, "DocumentHandler", err)
		return
	}
	defer file.Close()

	answer, err := h.answerService.AnswerFromDocument(c.Request.Context(), file, fileHeader.Filename, query, choice)
	if err != nil {
		respondError(c, "DocumentHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"answer": answer})
}

// uploadedFile returns the "file" part, or the validation message explaining
// why there is none. A part sent without a filename is parsed as a plain value.
func uploadedFile(form *multipart.Form) (*multipart.FileHeader, string) {
	if files := form.File["file"]; len(files) > 0 {
		if files[0].Filename == "" {
			return nil, "No file selected"
		}
		return files[0], ""
	}
	if _, ok := form.Value["file"]; ok {
		return nil, "No file selected"
	}
	return nil, "No file part in the request"
}
