// Package extract pulls plain text out of uploaded judgment PDFs.
// Extraction is best effort: scanned or malformed files yield no text
// and the workflow decides what an empty result means.
package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// PDFExtractor extracts text from PDF file buffers
type PDFExtractor struct {
	logger *zap.Logger
}

// NewPDFExtractor creates a new PDF extractor
func NewPDFExtractor(logger *zap.Logger) *PDFExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PDFExtractor{logger: logger}
}

// Text concatenates the page text of every parseable file. A file that
// cannot be parsed contributes nothing and does not abort the rest.
func (e *PDFExtractor) Text(files [][]byte) string {
	var sb strings.Builder
	for i, buf := range files {
		text, err := extractOne(buf)
		if err != nil {
			e.logger.Warn("could not extract text from pdf",
				zap.Int("file_index", i),
				zap.Error(err),
			)
			continue
		}
		sb.WriteString(text)
	}
	return sb.String()
}

// extractOne parses a single PDF buffer. The parser panics on some
// malformed inputs, so the recover converts that into an error.
func extractOne(buf []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parse panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(content)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
