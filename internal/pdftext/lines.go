// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch

// Package pdftext turns positioned PDF word tokens into plain text lines.
// It is the only place in the repository that consults geometry; everything
// downstream of it operates on strings.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// yTolerance absorbs sub-pixel baseline jitter when bucketing words into
// visual lines.
const yTolerance = 2.0

// ExtractLines opens a PDF from raw bytes and returns the reconstructed text
// lines of every page, in document order. Cancellation is honored at page
// boundaries only. An unopenable document or a document with zero pages is
// an error; a blank page just yields no lines.
func ExtractLines(ctx context.Context, data []byte) ([][]string, error) {
	if len(data) < 4 || !bytes.HasPrefix(data, []byte("%PDF")) {
		return nil, fmt.Errorf("not a PDF file: invalid header")
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	numPages := reader.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	pages := make([][]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, nil)
			continue
		}
		pages = append(pages, LinesFromWords(page.Content().Text))
	}
	return pages, nil
}

type row struct {
	y     float64
	words []pdf.Text
}

// LinesFromWords groups word tokens into visual lines: words whose vertical
// positions fall within yTolerance of each other share a line, lines are
// ordered top to bottom, and words within a line are ordered left to right
// and joined with single spaces.
func LinesFromWords(words []pdf.Text) []string {
	var rows []row
	for _, w := range words {
		if strings.TrimSpace(w.S) == "" {
			continue
		}
		placed := false
		for i := range rows {
			if abs(rows[i].y-w.Y) < yTolerance {
				rows[i].words = append(rows[i].words, w)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, row{y: w.Y, words: []pdf.Text{w}})
		}
	}

	// PDF user space has its origin at the bottom left, so top of page means
	// larger Y.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].y > rows[j].y })

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		sort.SliceStable(r.words, func(i, j int) bool { return r.words[i].X < r.words[j].X })
		parts := make([]string, 0, len(r.words))
		for _, w := range r.words {
			parts = append(parts, strings.TrimSpace(w.S))
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	return lines
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
