package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"text-intel-go/internal/config"
	"text-intel-go/internal/pipeline"
	"text-intel-go/internal/service"
	"text-intel-go/pkg/embedding"
	"text-intel-go/pkg/extract"
	"text-intel-go/pkg/llm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// scriptedGenerator answers every prompt with reply and remembers what it saw.
type scriptedGenerator struct {
	reply string
	err   error

	mu      sync.Mutex
	prompts []string
	choices []llm.ModelChoice
}

func (g *scriptedGenerator) Generate(ctx context.Context, choice llm.ModelChoice, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	g.choices = append(g.choices, choice)
	return g.reply, g.err
}

func (g *scriptedGenerator) Models() []llm.ModelChoice { return llm.ModelChoices }

func (g *scriptedGenerator) lastPrompt() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.prompts) == 0 {
		return ""
	}
	return g.prompts[len(g.prompts)-1]
}

func newTestRouter(t *testing.T, gen *scriptedGenerator, chunkSize, overlap int) *gin.Engine {
	t.Helper()
	chunker, err := pipeline.NewChunker(chunkSize, overlap, "\n")
	require.NoError(t, err)
	processor := pipeline.NewProcessor(
		extract.NewExtractor(1<<20),
		chunker,
		pipeline.NewIndexer(embedding.NewHashingClient(128), 2),
	)
	rag := config.RAGConfig{
		QATopK:       3,
		SummaryTopK:  1,
		SummaryQuery: "What are the primary topics, arguments, and conclusions in this document?",
	}
	answers := service.NewAnswerService(processor, gen, rag.QATopK)
	return NewRouter(Handlers{
		Summary:  NewSummaryHandler(service.NewSummaryService(processor, gen, rag)),
		Text:     NewTextHandler(service.NewSentimentService(gen), service.NewEntityService(gen), service.NewCodeService(gen), answers),
		Document: NewDocumentHandler(answers),
		Meta:     NewMetaHandler(gen),
		Limits:   BodyLimits{JSON: 64 << 10, Upload: 1 << 20},
	})
}

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type part struct {
	field, filename, content string
	isFile                   bool
}

func postMultipart(t *testing.T, r http.Handler, path string, parts ...part) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, p := range parts {
		if p.isFile {
			fw, err := mw.CreateFormFile(p.field, p.filename)
			require.NoError(t, err)
			_, err = fw.Write([]byte(p.content))
			require.NoError(t, err)
			continue
		}
		require.NoError(t, mw.WriteField(p.field, p.content))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func TestAnalyzeSentimentReturnsBareLabel(t *testing.T) {
	gen := &scriptedGenerator{reply: "  Positive.\n"}
	r := newTestRouter(t, gen, 1000, 200)

	w := postJSON(r, "/analyze_sentiment", `{"text_input":"I love this product!","model":"LLama 3.3 Meta"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]interface{}{"sentiment": "positive"}, decode(t, w))
	assert.Equal(t, []llm.ModelChoice{llm.ModelLlama}, gen.choices)
	assert.Contains(t, gen.lastPrompt(), "Text: I love this product!")
}

func TestGenerateCodeRejectsUnsupportedLanguage(t *testing.T) {
	gen := &scriptedGenerator{reply: "puts 'hello world'"}
	r := newTestRouter(t, gen, 1000, 200)

	w := postJSON(r, "/generate-code", `{"text":"print hello world","language":"ruby"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "Supported languages are: python, java, C++, javascript")
	assert.Empty(t, gen.prompts)
}

func TestGenerateCodeDefaults(t *testing.T) {
	gen := &scriptedGenerator{reply: "print('hello world')"}
	r := newTestRouter(t, gen, 1000, 200)

	w := postJSON(r, "/generate-code", `{"text":"print hello world"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "print('hello world')", decode(t, w)["code"])
	assert.Equal(t, []llm.ModelChoice{llm.DefaultModel}, gen.choices)
	assert.Contains(t, gen.lastPrompt(), "python code generator")

	w = postJSON(r, "/generate-code", `{"text":"x","model_choice":"Deepseek","language":"java"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, llm.ModelDeepseek, gen.choices[1])
}

func TestEmptyTextMessages(t *testing.T) {
	r := newTestRouter(t, &scriptedGenerator{reply: "x"}, 1000, 200)

	cases := []struct{ path, body, message string }{
		{"/summarize-text", `{"text":""}`, "Text input cannot be empty."},
		{"/analyze_sentiment", `{"text_input":"   "}`, "No text provided for sentiment analysis"},
		{"/extract_entities", `{"model":"Google Gemini"}`, "No text provided for entity extraction"},
		{"/generate-code", `{"text":""}`, "No text provided for code extraction"},
		{"/generate-answer", `{"text":""}`, "No text provided for generating answers"},
	}
	for _, tc := range cases {
		w := postJSON(r, tc.path, tc.body)
		assert.Equal(t, http.StatusBadRequest, w.Code, tc.path)
		assert.Equal(t, map[string]interface{}{"error": tc.message}, decode(t, w), tc.path)
	}
}

func TestUnknownModelIsBadRequest(t *testing.T) {
	gen := &scriptedGenerator{reply: "x"}
	r := newTestRouter(t, gen, 1000, 200)

	w := postJSON(r, "/generate-answer", `{"text":"hi","model":"gpt-4"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "unknown model")
	assert.Empty(t, gen.prompts)
}

func TestProviderFailureIsServerError(t *testing.T) {
	gen := &scriptedGenerator{err: &llm.ProviderError{Model: llm.ModelGemini, Err: errors.New("quota exceeded")}}
	r := newTestRouter(t, gen, 1000, 200)

	w := postJSON(r, "/extract_entities", `{"text":"Ada in London","model":"Google Gemini"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Google Gemini request failed: quota exceeded", decode(t, w)["error"])
}

func TestSummarizeTextAndEntitiesAndAnswer(t *testing.T) {
	gen := &scriptedGenerator{reply: "  result  "}
	r := newTestRouter(t, gen, 1000, 200)

	w := postJSON(r, "/summarize-text", `{"text":"A long report about revenue.","model":"Deepseek"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "  result  ", decode(t, w)["summary"])
	assert.Contains(t, gen.lastPrompt(), "A long report about revenue.")

	w = postJSON(r, "/extract_entities", `{"text":"Ada in London"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "result", decode(t, w)["entities"])

	w = postJSON(r, "/generate-answer", `{"text":"Why is the sky blue?"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "  result  ", decode(t, w)["answer"])
}

func TestSummarizeTextAcceptsForm(t *testing.T) {
	gen := &scriptedGenerator{reply: "ok"}
	r := newTestRouter(t, gen, 1000, 200)

	req := httptest.NewRequest(http.MethodPost, "/summarize-text", strings.NewReader("text=form+body&model=Deepseek"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []llm.ModelChoice{llm.ModelDeepseek}, gen.choices)
}

func TestSummarizeDoc(t *testing.T) {
	gen := &scriptedGenerator{reply: "summary of doc"}
	r := newTestRouter(t, gen, 1000, 200)

	w := postMultipart(t, r, "/summarize-doc",
		part{field: "file", filename: "report.txt", content: "Quarterly revenue grew.", isFile: true},
		part{field: "model", content: "Google Gemini"},
	)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "summary of doc", decode(t, w)["summary"])
	assert.Equal(t, []llm.ModelChoice{llm.ModelGemini}, gen.choices)

	w = postMultipart(t, r, "/summarize-doc", part{field: "model", content: "Deepseek"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please provide a document file.", decode(t, w)["error"])

	w = postMultipart(t, r, "/summarize-doc", part{field: "file", filename: "deck.pptx", content: "x", isFile: true})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Unsupported file type.", decode(t, w)["error"])
}

func TestAnswerQueryFromDocumentRequiresMultipart(t *testing.T) {
	gen := &scriptedGenerator{reply: "x"}
	r := newTestRouter(t, gen, 1000, 200)

	w := postJSON(r, "/answer-query-from-document", `{"query":"what?"}`)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	assert.Equal(t, "Content-Type must be multipart/form-data", decode(t, w)["error"])
	assert.Empty(t, gen.prompts)
}

func TestAnswerQueryFromDocumentValidation(t *testing.T) {
	r := newTestRouter(t, &scriptedGenerator{reply: "x"}, 1000, 200)

	w := postMultipart(t, r, "/answer-query-from-document", part{field: "query", content: "what?"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No file part in the request", decode(t, w)["error"])

	w = postMultipart(t, r, "/answer-query-from-document",
		part{field: "file", filename: "", content: "", isFile: true},
		part{field: "query", content: "what?"},
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No file selected", decode(t, w)["error"])

	w = postMultipart(t, r, "/answer-query-from-document",
		part{field: "file", filename: "notes.txt", content: "\xff\xfe\xfd", isFile: true},
		part{field: "query", content: "what?"},
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postMultipart(t, r, "/answer-query-from-document",
		part{field: "file", filename: "scan.pdf", content: "not really a pdf", isFile: true},
		part{field: "query", content: "what?"},
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, strings.HasPrefix(decode(t, w)["error"].(string), "Error reading file: "))
}

func TestAnswerQueryFromDocumentUsesRankedContext(t *testing.T) {
	lines := []string{
		"alpha beta gamma delta epsilon",
		"zeta eta theta iota kappa lambda",
		"mu nu xi omicron pi rho sigma tau",
	}
	gen := &scriptedGenerator{reply: "grounded answer"}
	r := newTestRouter(t, gen, 40, 0)

	w := postMultipart(t, r, "/answer-query-from-document",
		part{field: "file", filename: "greek.txt", content: strings.Join(lines, "\n"), isFile: true},
		part{field: "query", content: "alpha beta"},
		part{field: "model", content: "Deepseek"},
	)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "grounded answer", decode(t, w)["answer"])
	assert.Equal(t, []llm.ModelChoice{llm.ModelDeepseek}, gen.choices)

	prompt := gen.lastPrompt()
	prefix := "Answer the following question based on the provided context:\n\n"
	suffix := "\n\nQuestion: alpha beta"
	require.True(t, strings.HasPrefix(prompt, prefix))
	require.True(t, strings.HasSuffix(prompt, suffix))
	parts := strings.Split(strings.TrimSuffix(strings.TrimPrefix(prompt, prefix), suffix), "\n\n")
	assert.ElementsMatch(t, lines, parts)
	assert.Equal(t, lines[0], parts[0])
}

func TestAnswerQueryFromDocumentTooLarge(t *testing.T) {
	r := newTestRouter(t, &scriptedGenerator{reply: "x"}, 1000, 200)

	w := postMultipart(t, r, "/answer-query-from-document",
		part{field: "file", filename: "big.txt", content: strings.Repeat("a", 3<<20), isFile: true},
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSummarizeDocumentTooLarge(t *testing.T) {
	gen := &scriptedGenerator{reply: "x"}
	r := newTestRouter(t, gen, 1000, 200)

	w := postMultipart(t, r, "/summarize-doc",
		part{field: "file", filename: "big.txt", content: strings.Repeat("a", 3<<20), isFile: true},
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "too large")
	assert.Empty(t, gen.prompts)
}

func TestJSONBodyTooLarge(t *testing.T) {
	gen := &scriptedGenerator{reply: "positive"}
	r := newTestRouter(t, gen, 1000, 200)

	big := strings.Repeat("word ", 20<<10)
	for _, tc := range []struct{ path, body string }{
		{"/analyze_sentiment", `{"text_input":"` + big + `"}`},
		{"/summarize-text", `{"text":"` + big + `"}`},
		{"/generate-answer", `{"text":"` + big + `"}`},
	} {
		w := postJSON(r, tc.path, tc.body)
		assert.Equal(t, http.StatusBadRequest, w.Code, tc.path)
		assert.Contains(t, decode(t, w)["error"], "too large", tc.path)
	}
	assert.Empty(t, gen.prompts)

	w := postJSON(r, "/analyze_sentiment", `{"text_input":"fine"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetaRoutes(t *testing.T) {
	r := newTestRouter(t, &scriptedGenerator{}, 1000, 200)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/models", nil))
	body := decode(t, w)
	assert.Equal(t, "LLama 3.3 Meta", body["default"])
	assert.Equal(t, []interface{}{"LLama 3.3 Meta", "Google Gemini", "Deepseek"}, body["models"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/supported-types", nil))
	body = decode(t, w)
	assert.Equal(t, []interface{}{".pdf", ".docx", ".txt"}, body["fileTypes"])
	assert.Len(t, body["languages"], 4)
}

func TestCORSAndRequestID(t *testing.T) {
	r := newTestRouter(t, &scriptedGenerator{reply: "neutral"}, 1000, 200)

	req := httptest.NewRequest(http.MethodOptions, "/analyze_sentiment", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = postJSON(r, "/analyze_sentiment", `{"text_input":"meh"}`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{service.ErrEmptyInput, http.StatusBadRequest},
		{service.ErrUnsupportedLanguage, http.StatusBadRequest},
		{llm.ErrUnknownModel, http.StatusBadRequest},
		{extract.ErrUnsupportedFormat, http.StatusBadRequest},
		{extract.ErrDecode, http.StatusBadRequest},
		{extract.ErrTooLarge, http.StatusBadRequest},
		{&llm.ProviderError{Model: llm.ModelLlama, Err: context.Canceled}, http.StatusInternalServerError},
		{errors.New("something unexpected"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}
