package loader

import (
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"

	"DiligenceScanner/internal/domain"
)

// TextFormat treats the whole file as a single page.
type TextFormat struct{}

func (TextFormat) Name() string { return "text" }
func (TextFormat) Extensions() []string { return []string{".txt"} }

func (TextFormat) Read(path string) ([]domain.Page, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return []domain.Page{{PageNum: 1, Text: string(raw)}}, nil
}

// PDFFormat extracts plain text per page. No OCR and no layout
// reconstruction; image-only pages come back empty.
type PDFFormat struct{}

func (PDFFormat) Name() string { return "pdf" }
func (PDFFormat) Extensions() []string { return []string{".pdf"} }

func (PDFFormat) Read(path string) ([]domain.Page, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer file.Close()

	pages := make([]domain.Page, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)

		text := ""
		if !page.V.IsNull() {
			// Unextractable pages stay in the sequence with empty text
			// so page numbering matches the source document.
			if plain, err := page.GetPlainText(nil); err == nil {
				text = strings.TrimSpace(plain)
			}
		}
		pages = append(pages, domain.Page{PageNum: i, Text: text})
	}

	return pages, nil
}

// HTMLFormat strips markup and yields the document text as one page.
type HTMLFormat struct{}

func (HTMLFormat) Name() string { return "html" }
func (HTMLFormat) Extensions() []string { return []string{".html", ".htm"} }

func (HTMLFormat) Read(path string) ([]domain.Page, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	doc, err := goquery.NewDocumentFromReader(file)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	return []domain.Page{{PageNum: 1, Text: strings.TrimSpace(doc.Text())}}, nil
}
