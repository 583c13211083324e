package audit

import (
	"github.com/household-twins/bookshelf/internal/bookshelf"
	"github.com/household-twins/bookshelf/internal/models"
)

// Applier merges an audit diff into the bookshelf.
type Applier struct {
	Shelf *bookshelf.Store
	Audit *Store
}

// Apply selectively reconciles the bookshelf against the diff. When addNew is
// set, missing books are added as one batch and take fresh trailing order
// values. When removeMissing is set, each absent book is removed in turn.
// The audit session is cleared afterward regardless of the flags.
func (a *Applier) Apply(diff models.AuditDiff, addNew, removeMissing bool) (added, removed int, err error) {
	if addNew && len(diff.BooksToAdd) > 0 {
		if _, err = a.Shelf.Add(diff.BooksToAdd); err != nil {
			return added, removed, err
		}
		added = len(diff.BooksToAdd)
	}

	if removeMissing {
		for _, book := range diff.BooksToRemove {
			if _, err = a.Shelf.Remove(book.Title, book.Author); err != nil {
				return added, removed, err
			}
			removed++
		}
	}

	if _, err = a.Audit.Clear(); err != nil {
		return added, removed, err
	}

	return added, removed, nil
}
