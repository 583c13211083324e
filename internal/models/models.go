package models

import (
	"time"

	"github.com/household-twins/bookshelf/internal/bookkey"
)

// Book is a single book on the shelf or in an audit session.
type Book struct {
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	CoverURL *string `json:"cover_url,omitempty"`
	// Order is the book's display position among its siblings.
	Order int `json:"order"`
}

// Key returns the book's normalized identity.
func (b Book) Key() bookkey.Key {
	return bookkey.For(b.Title, b.Author)
}

// HasCover reports whether the book carries a non-empty cover URL.
func (b Book) HasCover() bool {
	return b.CoverURL != nil && *b.CoverURL != ""
}

// Bookshelf is the durable digital twin of the physical shelf.
// Books are unique by key and sorted ascending by Order after every mutation.
type Bookshelf struct {
	Books       []Book     `json:"books"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
}

// AuditSession is the transient scratch buffer for one reconciliation pass.
type AuditSession struct {
	ScannedBooks []Book     `json:"scanned_books"`
	PhotosTaken  int        `json:"photos_taken"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	LastScanAt   *time.Time `json:"last_scan_at,omitempty"`
}

// AuditDiff is the three-way partition between an audit session and the
// bookshelf. It is derived on demand and never persisted.
type AuditDiff struct {
	BooksToAdd    []Book `json:"books_to_add"`
	BooksToRemove []Book `json:"books_to_remove"`
	BooksMatching []Book `json:"books_matching"`
}

// Empty reports whether all three diff buckets are empty.
func (d AuditDiff) Empty() bool {
	return len(d.BooksToAdd) == 0 && len(d.BooksToRemove) == 0 && len(d.BooksMatching) == 0
}
