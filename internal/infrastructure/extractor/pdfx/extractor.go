package pdfx

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/nexodify/forensic-engine/internal/core/domain"
	"github.com/nexodify/forensic-engine/internal/core/ports"
)

// PathResolver maps a storage key to a readable on-disk path.
type PathResolver interface {
	Path(key string) (string, error)
}

// Extractor pulls per-page plain text out of an uploaded appraisal PDF.
type Extractor struct {
	resolver PathResolver
}

func NewExtractor(resolver PathResolver) *Extractor {
	return &Extractor{resolver: resolver}
}

func (e *Extractor) Extract(ctx context.Context, storagePath string) ([]ports.Page, error) {
	path, err := e.resolver.Path(storagePath)
	if err != nil {
		return nil, fmt.Errorf("resolve storage key: %w", err)
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "open pdf", err)
	}
	defer f.Close()

	total := reader.NumPage()
	if total == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "open pdf", fmt.Errorf("document has no pages"))
	}

	pages := make([]ports.Page, 0, total)
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, ports.Page{Number: i})
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Scanned or damaged pages still occupy a slot so page
			// numbers in evidence citations stay aligned.
			pages = append(pages, ports.Page{Number: i})
			continue
		}
		pages = append(pages, ports.Page{Number: i, Text: strings.TrimSpace(text)})
	}
	return pages, nil
}
