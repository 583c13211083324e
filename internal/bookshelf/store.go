// Package bookshelf owns the canonical, persisted, ordered book collection.
package bookshelf

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/household-twins/bookshelf/internal/bookkey"
	"github.com/household-twins/bookshelf/internal/models"
	"github.com/household-twins/bookshelf/internal/storage"
)

// FileName is the bookshelf document inside the data directory.
const FileName = "bookshelf.json"

// Store persists the bookshelf and serializes every load/mutate/save cycle.
// The bookshelf is canonical data, so the underlying document is strict: a
// corrupt file surfaces as an error instead of silently reading as empty.
type Store struct {
	mu  sync.Mutex
	doc *storage.Document[models.Bookshelf]
	now func() time.Time
}

// NewStore returns a Store backed by <dataDir>/bookshelf.json.
func NewStore(dataDir string) *Store {
	return &Store{
		doc: storage.NewDocument[models.Bookshelf](filepath.Join(dataDir, FileName), storage.Strict),
		now: time.Now,
	}
}

// Get returns the current persisted bookshelf.
func (s *Store) Get() (models.Bookshelf, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() (models.Bookshelf, error) {
	shelf, err := s.doc.Load()
	if err != nil {
		return models.Bookshelf{}, err
	}
	if shelf.Books == nil {
		shelf.Books = []models.Book{}
	}
	return shelf, nil
}

// Add upserts the given books. An incoming book whose key already exists
// overwrites that entry's fields but keeps its display order; a new key is
// appended with the next unused order. Multiple new books in one batch get
// strictly increasing orders.
func (s *Store) Add(books []models.Book) (models.Bookshelf, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	shelf, err := s.load()
	if err != nil {
		return models.Bookshelf{}, err
	}

	index := make(map[bookkey.Key]int, len(shelf.Books))
	maxOrder := -1
	for i, b := range shelf.Books {
		index[b.Key()] = i
		if b.Order > maxOrder {
			maxOrder = b.Order
		}
	}

	for _, book := range books {
		key := book.Key()
		if i, ok := index[key]; ok {
			// New data wins, position does not move.
			book.Order = shelf.Books[i].Order
			shelf.Books[i] = book
			continue
		}
		maxOrder++
		book.Order = maxOrder
		index[key] = len(shelf.Books)
		shelf.Books = append(shelf.Books, book)
	}

	sortByOrder(shelf.Books)
	return s.save(shelf)
}

// Remove drops any book matching the given title/author key and renumbers
// the remaining books to a contiguous 0..n-1 sequence, preserving their
// relative order.
func (s *Store) Remove(title, author string) (models.Bookshelf, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	shelf, err := s.load()
	if err != nil {
		return models.Bookshelf{}, err
	}

	key := bookkey.For(title, author)
	kept := shelf.Books[:0]
	for _, b := range shelf.Books {
		if b.Key() != key {
			kept = append(kept, b)
		}
	}
	shelf.Books = kept

	sortByOrder(shelf.Books)
	for i := range shelf.Books {
		shelf.Books[i].Order = i
	}

	return s.save(shelf)
}

// ReorderEntry names a book and its new display order.
type ReorderEntry struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Order  int    `json:"order"`
}

// Reorder overwrites the order of every book named in entries; books not
// named keep their current order. Ties are tolerated and broken by the
// books' prior relative position.
func (s *Store) Reorder(entries []ReorderEntry) (models.Bookshelf, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	shelf, err := s.load()
	if err != nil {
		return models.Bookshelf{}, err
	}

	orders := make(map[bookkey.Key]int, len(entries))
	for _, e := range entries {
		orders[bookkey.For(e.Title, e.Author)] = e.Order
	}

	for i := range shelf.Books {
		if order, ok := orders[shelf.Books[i].Key()]; ok {
			shelf.Books[i].Order = order
		}
	}

	sortByOrder(shelf.Books)
	return s.save(shelf)
}

// Clear replaces the bookshelf with an empty book list.
func (s *Store) Clear() (models.Bookshelf, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(models.Bookshelf{Books: []models.Book{}})
}

func (s *Store) save(shelf models.Bookshelf) (models.Bookshelf, error) {
	now := s.now()
	shelf.LastUpdated = &now
	if err := s.doc.Save(shelf); err != nil {
		return models.Bookshelf{}, fmt.Errorf("failed to persist bookshelf: %w", err)
	}
	return shelf, nil
}

func sortByOrder(books []models.Book) {
	sort.SliceStable(books, func(i, j int) bool {
		return books[i].Order < books[j].Order
	})
}
