package audit

import (
	"reflect"
	"testing"

	"github.com/household-twins/bookshelf/internal/bookkey"
	"github.com/household-twins/bookshelf/internal/models"
)

func TestDiffMixedSession(t *testing.T) {
	shelf := models.Bookshelf{Books: []models.Book{
		{Title: "Dune", Author: "Herbert", Order: 0},
	}}
	session := models.AuditSession{ScannedBooks: []models.Book{
		{Title: "Dune", Author: "Herbert", CoverURL: cover("http://x/dune.jpg")},
		{Title: "Foundation", Author: "Asimov", CoverURL: cover("http://x/foundation.jpg")},
	}}

	diff := Diff(session, shelf)

	if got, want := titles(diff.BooksToAdd), []string{"Foundation"}; !reflect.DeepEqual(got, want) {
		t.Errorf("BooksToAdd = %v, want %v", got, want)
	}
	if len(diff.BooksToRemove) != 0 {
		t.Errorf("BooksToRemove = %v, want empty", titles(diff.BooksToRemove))
	}
	if got, want := titles(diff.BooksMatching), []string{"Dune"}; !reflect.DeepEqual(got, want) {
		t.Errorf("BooksMatching = %v, want %v", got, want)
	}
	// The session's copy is preferred because it carries the fresher cover.
	if !diff.BooksMatching[0].HasCover() {
		t.Error("matching book lost the session's cover")
	}
}

func TestDiffEmptySessionRemovesEverything(t *testing.T) {
	shelf := models.Bookshelf{Books: []models.Book{
		{Title: "A", Author: "x", Order: 0},
		{Title: "B", Author: "y", Order: 1},
	}}

	diff := Diff(models.AuditSession{}, shelf)

	if len(diff.BooksToAdd) != 0 || len(diff.BooksMatching) != 0 {
		t.Errorf("expected only removals, got %+v", diff)
	}
	if got, want := titles(diff.BooksToRemove), []string{"A", "B"}; !reflect.DeepEqual(got, want) {
		t.Errorf("BooksToRemove = %v, want %v", got, want)
	}
}

func TestDiffIsPartition(t *testing.T) {
	shelf := models.Bookshelf{Books: []models.Book{
		{Title: "A", Author: "x"},
		{Title: "B", Author: "y"},
		{Title: "C", Author: "z"},
	}}
	session := models.AuditSession{ScannedBooks: []models.Book{
		{Title: "B", Author: "y"},
		{Title: "D", Author: "w"},
	}}

	diff := Diff(session, shelf)

	seen := map[bookkey.Key]int{}
	for _, b := range diff.BooksToAdd {
		seen[b.Key()]++
	}
	for _, b := range diff.BooksToRemove {
		seen[b.Key()]++
	}
	for _, b := range diff.BooksMatching {
		seen[b.Key()]++
	}

	union := map[bookkey.Key]struct{}{}
	for _, b := range shelf.Books {
		union[b.Key()] = struct{}{}
	}
	for _, b := range session.ScannedBooks {
		union[b.Key()] = struct{}{}
	}

	if len(seen) != len(union) {
		t.Errorf("diff covers %d keys, union has %d", len(seen), len(union))
	}
	for key, count := range seen {
		if count != 1 {
			t.Errorf("key %v appears in %d buckets, want exactly 1", key, count)
		}
	}
}

func TestDiffPreservesInsertionOrder(t *testing.T) {
	shelf := models.Bookshelf{Books: []models.Book{
		{Title: "S1", Author: "a"},
		{Title: "S2", Author: "b"},
		{Title: "S3", Author: "c"},
	}}
	session := models.AuditSession{ScannedBooks: []models.Book{
		{Title: "N2", Author: "q"},
		{Title: "S2", Author: "b"},
		{Title: "N1", Author: "p"},
	}}

	diff := Diff(session, shelf)

	if got, want := titles(diff.BooksToAdd), []string{"N2", "N1"}; !reflect.DeepEqual(got, want) {
		t.Errorf("BooksToAdd order = %v, want session order %v", got, want)
	}
	if got, want := titles(diff.BooksToRemove), []string{"S1", "S3"}; !reflect.DeepEqual(got, want) {
		t.Errorf("BooksToRemove order = %v, want shelf order %v", got, want)
	}
}

func TestDiffDoesNotMutateInputs(t *testing.T) {
	shelf := models.Bookshelf{Books: []models.Book{{Title: "A", Author: "x", Order: 7}}}
	session := models.AuditSession{ScannedBooks: []models.Book{{Title: "B", Author: "y"}}}

	_ = Diff(session, shelf)

	if shelf.Books[0].Order != 7 || shelf.Books[0].Title != "A" {
		t.Error("diff mutated the bookshelf input")
	}
	if session.ScannedBooks[0].Title != "B" {
		t.Error("diff mutated the session input")
	}
}
