package services

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFParserService pulls the text layer out of a PDF byte stream, page by
// page in page order. A PDF with no extractable text (a scanned document, for
// example) yields an empty string without error; no OCR is attempted.
type PDFParserService interface {
	ExtractText(r io.ReaderAt, size int64) (string, error)
	ExtractTextFromFile(filePath string) (string, error)
}

type pdfParserService struct{}

func NewPDFParserService() PDFParserService {
	return &pdfParserService{}
}

// ExtractText implements PDFParserService. The reader is consumed in a single
// pass; corrupted or encrypted streams return *ExtractionError. The pdf
// library panics on some malformed inputs, so those are recovered into the
// same error.
func (p *pdfParserService) ExtractText(r io.ReaderAt, size int64) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = &ExtractionError{Reason: fmt.Sprintf("malformed document: %v", rec)}
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", &ExtractionError{Reason: "unreadable document", Err: err}
	}

	var textBuilder strings.Builder
	totalPage := reader.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// Pages without a readable text layer contribute nothing.
			continue
		}
		if pageText == "" {
			continue
		}

		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n")
	}

	return textBuilder.String(), nil
}

// ExtractTextFromFile implements PDFParserService.
func (p *pdfParserService) ExtractTextFromFile(filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", &ExtractionError{Reason: "cannot open file", Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", &ExtractionError{Reason: "cannot stat file", Err: err}
	}

	return p.ExtractText(f, info.Size())
}
