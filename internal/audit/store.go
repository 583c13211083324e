// Package audit owns the transient reconciliation session: books observed
// while re-scanning the physical shelf, the diff against the bookshelf, and
// the selective merge of that diff back into the bookshelf.
package audit

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/household-twins/bookshelf/internal/bookkey"
	"github.com/household-twins/bookshelf/internal/models"
	"github.com/household-twins/bookshelf/internal/storage"
)

// FileName is the audit session document inside the data directory.
const FileName = "audit_session.json"

// Store persists the audit session. The session is a scratch buffer, so the
// underlying document is lenient: a corrupt file reads as an empty session.
type Store struct {
	mu  sync.Mutex
	doc *storage.Document[models.AuditSession]
	now func() time.Time
}

// NewStore returns a Store backed by <dataDir>/audit_session.json.
func NewStore(dataDir string) *Store {
	return &Store{
		doc: storage.NewDocument[models.AuditSession](filepath.Join(dataDir, FileName), storage.Lenient),
		now: time.Now,
	}
}

// Get returns the current session. If no session was ever started this is
// the empty session value; starting is implicit on first write.
func (s *Store) Get() (models.AuditSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() (models.AuditSession, error) {
	session, err := s.doc.Load()
	if err != nil {
		return models.AuditSession{}, err
	}
	if session.ScannedBooks == nil {
		session.ScannedBooks = []models.Book{}
	}
	return session, nil
}

// Start unconditionally resets to a fresh session, discarding any prior
// unsaved scans.
func (s *Store) Start() (models.AuditSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	session := models.AuditSession{
		ScannedBooks: []models.Book{},
		StartedAt:    &now,
	}
	return session, s.save(session)
}

// AddScanned merges one photo's worth of detected books into the session.
// Incoming books are deduplicated by key against what was already scanned;
// an existing entry is only replaced when the incoming copy has a cover and
// the stored one does not. One call counts as one photo.
func (s *Store) AddScanned(books []models.Book) (models.AuditSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.load()
	if err != nil {
		return models.AuditSession{}, err
	}

	now := s.now()
	if session.StartedAt == nil {
		session.StartedAt = &now
	}

	index := make(map[bookkey.Key]int, len(session.ScannedBooks))
	for i, b := range session.ScannedBooks {
		index[b.Key()] = i
	}

	for _, book := range books {
		key := book.Key()
		i, seen := index[key]
		if !seen {
			index[key] = len(session.ScannedBooks)
			session.ScannedBooks = append(session.ScannedBooks, book)
			continue
		}
		// Never regress from "has cover" to "no cover", and never touch an
		// entry that is already populated.
		if book.HasCover() && !session.ScannedBooks[i].HasCover() {
			session.ScannedBooks[i] = book
		}
	}

	session.PhotosTaken++
	session.LastScanAt = &now

	return session, s.save(session)
}

// AddManual upserts a manually entered book. Manual entry always overwrites
// an existing entry and does not count as a photo.
func (s *Store) AddManual(book models.Book) (models.AuditSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.load()
	if err != nil {
		return models.AuditSession{}, err
	}

	now := s.now()
	if session.StartedAt == nil {
		session.StartedAt = &now
	}

	key := book.Key()
	replaced := false
	for i, b := range session.ScannedBooks {
		if b.Key() == key {
			session.ScannedBooks[i] = book
			replaced = true
			break
		}
	}
	if !replaced {
		session.ScannedBooks = append(session.ScannedBooks, book)
	}

	session.LastScanAt = &now

	return session, s.save(session)
}

// Remove drops any scanned book matching the given title/author key. The
// photo counter and timestamps are untouched.
func (s *Store) Remove(title, author string) (models.AuditSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.load()
	if err != nil {
		return models.AuditSession{}, err
	}

	key := bookkey.For(title, author)
	kept := session.ScannedBooks[:0]
	for _, b := range session.ScannedBooks {
		if b.Key() != key {
			kept = append(kept, b)
		}
	}
	session.ScannedBooks = kept

	return session, s.save(session)
}

// Clear resets to the all-default empty session. Unlike Start, the session
// stays unstarted until the next write.
func (s *Store) Clear() (models.AuditSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := models.AuditSession{ScannedBooks: []models.Book{}}
	return session, s.save(session)
}

// ComputeDiff re-reads the session and partitions it against the given
// bookshelf snapshot.
func (s *Store) ComputeDiff(shelf models.Bookshelf) (models.AuditDiff, error) {
	session, err := s.Get()
	if err != nil {
		return models.AuditDiff{}, err
	}
	return Diff(session, shelf), nil
}

func (s *Store) save(session models.AuditSession) error {
	if err := s.doc.Save(session); err != nil {
		return fmt.Errorf("failed to persist audit session: %w", err)
	}
	return nil
}
