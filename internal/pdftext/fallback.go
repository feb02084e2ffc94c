// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package pdftext

import (
	"fmt"

	"github.com/gen2brain/go-fitz"
)

// ExtractPlainPages extracts per-page plain text with MuPDF, losing word
// geometry. It is the fallback extraction path: the QA validator checks
// sampled parse results against it, and degraded-run diagnostics quote it.
// API reference: https://pkg.go.dev/github.com/gen2brain/go-fitz
func ExtractPlainPages(data []byte) ([]string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	numPages := doc.NumPage()
	pages := make([]string, 0, numPages)
	for i := 0; i < numPages; i++ {
		text, err := doc.Text(i)
		if err != nil {
			// Keep going; a single unreadable page should not sink the
			// fallback path.
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}
