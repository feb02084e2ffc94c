// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch

// Package fetcher downloads roster documents from the House clerk's site
// and discovers the current roster PDF link from the committee index page.
package fetcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Fetcher downloads documents over HTTP.
type Fetcher struct {
	client *http.Client
}

// New creates a fetcher with a sane default timeout.
func New() *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

// Fetch downloads a document and returns its bytes plus the hex-encoded
// SHA-256 of the content. The hash is what change detection compares.
func (f *Fetcher) Fetch(ctx context.Context, docURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, docURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", "roster-watch/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch %s: %w", docURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, docURL)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response body: %w", err)
	}

	return data, HashBytes(data), nil
}

// HashBytes returns the hex-encoded SHA-256 of data.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DiscoverRosterURL fetches the committee index page and returns the
// absolute URL of the roster PDF it links to. The clerk occasionally moves
// the file, so the link is scraped rather than hardcoded.
func (f *Fetcher) DiscoverRosterURL(ctx context.Context, indexURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, indexURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", "roster-watch/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch index page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d fetching index page", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse index page: %w", err)
	}

	href, ok := findRosterLink(doc)
	if !ok {
		return "", fmt.Errorf("no roster PDF link found on %s", indexURL)
	}

	base, err := url.Parse(indexURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse index URL: %w", err)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("failed to parse roster link %q: %w", href, err)
	}
	return base.ResolveReference(ref).String(), nil
}

// findRosterLink scans anchors for the committee roster PDF. The canonical
// file is scsoal.pdf ("Standing Committees, Select, and Other Assignment
// List"); any PDF link whose text mentions committee assignments is
// accepted as fallback.
func findRosterLink(doc *goquery.Document) (string, bool) {
	var href string
	var found bool

	doc.Find("a[href]").EachWithBreak(func(i int, s *goquery.Selection) bool {
		link, _ := s.Attr("href")
		lower := strings.ToLower(link)
		if strings.Contains(lower, "scsoal") && strings.HasSuffix(lower, ".pdf") {
			href = link
			found = true
			return false
		}
		text := strings.ToLower(s.Text())
		if strings.HasSuffix(lower, ".pdf") &&
			strings.Contains(text, "committee") && strings.Contains(text, "assignment") {
			href = link
			found = true
			return false
		}
		return true
	})

	return href, found
}
