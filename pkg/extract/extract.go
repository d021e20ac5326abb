// Package extract turns uploaded PDF, DOCX and plain-text files into raw text.
package extract

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"text-intel-go/internal/model"
	"text-intel-go/pkg/log"
)

var (
	// ErrUnsupportedFormat is returned for any extension other than .pdf, .docx and .txt.
	ErrUnsupportedFormat = errors.New("unsupported file type")
	// ErrDecode is returned when a .txt upload is not valid UTF-8.
	ErrDecode = errors.New("file is not valid UTF-8 text")
	// ErrUnreadable is returned when a PDF or DOCX container cannot be opened.
	ErrUnreadable = errors.New("error reading file")
	// ErrTooLarge is returned when the upload exceeds the configured limit.
	ErrTooLarge = errors.New("file exceeds size limit")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// SupportedExtensions lists the accepted file extensions.
func SupportedExtensions() []string {
	return []string{".pdf", ".docx", ".txt"}
}

// Extractor reads an upload fully and dispatches on its extension.
type Extractor struct {
	maxSize int64
}

// NewExtractor creates an Extractor. maxSize <= 0 disables the size limit.
func NewExtractor(maxSize int64) *Extractor {
	return &Extractor{maxSize: maxSize}
}

// Extract returns the text content of r. filename only supplies the extension.
func (e *Extractor) Extract(r io.Reader, filename string) (*model.Document, error) {
	format, ok := model.FormatFromFilename(filename)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
	}

	data, err := e.readAll(r)
	if err != nil {
		return nil, err
	}

	var text string
	switch format {
	case model.FormatPDF:
		text, err = extractPDF(data)
	case model.FormatDOCX:
		text, err = extractDOCX(data)
	case model.FormatTXT:
		text, err = extractTXT(data)
	}
	if err != nil {
		return nil, err
	}

	log.Infof("[Extractor] extracted %s, format: %s, bytes: %d, chars: %d", filename, format, len(data), utf8.RuneCountInString(text))
	return &model.Document{Name: filename, Format: format, Text: text}, nil
}

func (e *Extractor) readAll(r io.Reader) ([]byte, error) {
	if e.maxSize <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
		}
		return data, nil
	}
	data, err := io.ReadAll(io.LimitReader(r, e.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if int64(len(data)) > e.maxSize {
		return nil, fmt.Errorf("%w of %d bytes", ErrTooLarge, e.maxSize)
	}
	return data, nil
}

// extractPDF concatenates page texts in page order. A page without extractable
// text contributes nothing; only an unopenable file is an error.
func extractPDF(data []byte) (text string, err error) {
	// the pdf package panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: malformed pdf: %v", ErrUnreadable, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	var b strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		b.WriteString(pageText(reader.Page(i), i))
	}
	return b.String(), nil
}

func pageText(page pdf.Page, num int) (text string) {
	defer func() {
		if r := recover(); r != nil {
			log.Warnf("[Extractor] pdf page %d could not be decoded: %v", num, r)
			text = ""
		}
	}()
	if page.V.IsNull() {
		return ""
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		log.Warnf("[Extractor] pdf page %d has no extractable text: %v", num, err)
		return ""
	}
	return text
}

func extractDOCX(data []byte) (string, error) {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer r.Close()
	return paragraphText(r.Editable().GetContent())
}

// paragraphText walks word/document.xml and emits every w:p followed by a newline.
// Runs of w:t are concatenated, w:tab becomes a tab and w:br/w:cr a newline.
// Tab stops declared in paragraph properties are ignored.
func paragraphText(documentXML string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(documentXML))

	var out strings.Builder
	var stack []*strings.Builder // nested paragraphs (text boxes) are emitted on their own
	inText := false
	propsDepth := 0

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: invalid document.xml: %v", ErrUnreadable, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				stack = append(stack, &strings.Builder{})
			case "pPr":
				propsDepth++
			case "t":
				inText = true
			case "tab":
				if propsDepth == 0 && len(stack) > 0 {
					stack[len(stack)-1].WriteByte('\t')
				}
			case "br", "cr":
				if len(stack) > 0 {
					stack[len(stack)-1].WriteByte('\n')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if len(stack) > 0 {
					out.WriteString(stack[len(stack)-1].String())
					out.WriteByte('\n')
					stack = stack[:len(stack)-1]
				}
			case "pPr":
				propsDepth--
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText && len(stack) > 0 {
				stack[len(stack)-1].Write(t)
			}
		}
	}
	return out.String(), nil
}

func extractTXT(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", ErrDecode
	}
	return string(data), nil
}
