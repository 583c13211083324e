// Package covers enriches books with cover image URLs from Open Library.
package covers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/household-twins/bookshelf/internal/models"
)

const searchEndpoint = "https://openlibrary.org/search.json"

// Client looks up book covers. Every failure mode collapses to "not found";
// a cover is nice to have, never worth failing a scan over.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
}

// NewClient creates a cover lookup client with a bounded request timeout.
func NewClient() *Client {
	return &Client{
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		BaseURL: searchEndpoint,
	}
}

// Lookup searches Open Library for the book and returns its cover URL.
func (c *Client) Lookup(ctx context.Context, title, author string) (string, bool) {
	query := url.Values{}
	query.Set("q", title+" "+author)
	query.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+"?"+query.Encode(), nil)
	if err != nil {
		return "", false
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		slog.Warn("Cover lookup failed", "title", title, "author", author, "err", err)
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("Cover lookup returned non-200", "title", title, "status", resp.StatusCode)
		return "", false
	}

	var result struct {
		Docs []struct {
			CoverID int64    `json:"cover_i"`
			ISBN    []string `json:"isbn"`
		} `json:"docs"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		slog.Warn("Failed to decode cover lookup response", "title", title, "err", err)
		return "", false
	}

	if len(result.Docs) == 0 {
		return "", false
	}

	doc := result.Docs[0]
	if doc.CoverID != 0 {
		return fmt.Sprintf("https://covers.openlibrary.org/b/id/%d-M.jpg", doc.CoverID), true
	}
	if len(doc.ISBN) > 0 {
		return fmt.Sprintf("https://covers.openlibrary.org/b/isbn/%s-M.jpg", doc.ISBN[0]), true
	}

	return "", false
}

// enrichConcurrency bounds parallel Open Library lookups per batch.
const enrichConcurrency = 4

// Enrich fills in cover URLs for books that do not have one. Lookups for a
// batch run concurrently but the result preserves input order. Books that
// already carry a cover are passed through untouched.
func (c *Client) Enrich(ctx context.Context, books []models.Book) []models.Book {
	enriched := make([]models.Book, len(books))
	copy(enriched, books)

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, enrichConcurrency)

	for i := range enriched {
		if enriched[i].HasCover() {
			continue
		}

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if coverURL, ok := c.Lookup(ctx, enriched[i].Title, enriched[i].Author); ok {
				enriched[i].CoverURL = &coverURL
			}
		}(i)
	}

	wg.Wait()
	return enriched
}
