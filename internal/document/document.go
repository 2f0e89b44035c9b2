package document

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	ContentTypeText = "text/plain"
	ContentTypePDF  = "application/pdf"
)

var ErrUnsupportedType = errors.New("unsupported file type (only PDF and TXT allowed)")

// DetectContentType returns the content type for an upload, falling back to
// the filename extension when the declared type is missing or generic.
func DetectContentType(filename, declared string) (string, error) {
	if declared == "" || declared == "application/octet-stream" {
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".txt", ".md", "":
			declared = ContentTypeText
		case ".pdf":
			declared = ContentTypePDF
		}
	}
	// Strip parameters such as "; charset=utf-8".
	if i := strings.Index(declared, ";"); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}
	switch declared {
	case ContentTypeText, ContentTypePDF:
		return declared, nil
	default:
		return "", ErrUnsupportedType
	}
}

// ExtractText returns the text of a document. PDFs are parsed page by page,
// anything else is treated as plain text.
func ExtractText(filename string, content []byte) (string, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return extractPDF(content)
	}
	return string(content), nil
}

// ReadFile loads and extracts the document at path.
func ReadFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	text, err := ExtractText(path, content)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", path, err)
	}
	return text, nil
}

func extractPDF(content []byte) (string, error) {
	reader := bytes.NewReader(content)
	pdfReader, err := pdf.NewReader(reader, int64(len(content)))
	if err != nil {
		return "", err
	}

	var textBuilder strings.Builder
	numPages := pdfReader.NumPage()

	for pageNum := 1; pageNum <= numPages; pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() || page.V.Key("Contents").Kind() == pdf.Null {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip pages that fail to extract
			continue
		}
		textBuilder.WriteString(text)
		textBuilder.WriteString("\n")
	}

	return textBuilder.String(), nil
}
