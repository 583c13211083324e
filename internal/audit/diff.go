package audit

import (
	"github.com/household-twins/bookshelf/internal/bookkey"
	"github.com/household-twins/bookshelf/internal/models"
)

// Diff partitions the session's scanned books against the bookshelf:
//
//   - BooksToAdd: scanned but not on the shelf, in scanned order.
//   - BooksToRemove: on the shelf but not scanned, in shelf order.
//   - BooksMatching: in both; the session's copy is kept because it may
//     carry a fresher cover image.
//
// Neither input is mutated, and every key present in either collection
// lands in exactly one bucket.
func Diff(session models.AuditSession, shelf models.Bookshelf) models.AuditDiff {
	shelfKeys := make(map[bookkey.Key]struct{}, len(shelf.Books))
	for _, b := range shelf.Books {
		shelfKeys[b.Key()] = struct{}{}
	}

	sessionKeys := make(map[bookkey.Key]struct{}, len(session.ScannedBooks))
	for _, b := range session.ScannedBooks {
		sessionKeys[b.Key()] = struct{}{}
	}

	diff := models.AuditDiff{
		BooksToAdd:    []models.Book{},
		BooksToRemove: []models.Book{},
		BooksMatching: []models.Book{},
	}

	for _, b := range session.ScannedBooks {
		if _, onShelf := shelfKeys[b.Key()]; onShelf {
			diff.BooksMatching = append(diff.BooksMatching, b)
		} else {
			diff.BooksToAdd = append(diff.BooksToAdd, b)
		}
	}

	for _, b := range shelf.Books {
		if _, scanned := sessionKeys[b.Key()]; !scanned {
			diff.BooksToRemove = append(diff.BooksToRemove, b)
		}
	}

	return diff
}
