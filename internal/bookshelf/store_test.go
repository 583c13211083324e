package bookshelf

import (
	"reflect"
	"testing"

	"github.com/household-twins/bookshelf/internal/models"
)

func cover(url string) *string {
	return &url
}

func titles(books []models.Book) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.Title)
	}
	return out
}

func orders(books []models.Book) []int {
	out := make([]int, 0, len(books))
	for _, b := range books {
		out = append(out, b.Order)
	}
	return out
}

func TestAddAssignsIncreasingOrders(t *testing.T) {
	store := NewStore(t.TempDir())

	shelf, err := store.Add([]models.Book{
		{Title: "Dune", Author: "Frank Herbert"},
		{Title: "Foundation", Author: "Isaac Asimov"},
		{Title: "Hyperion", Author: "Dan Simmons"},
	})
	if err != nil {
		t.Fatalf("Add() returned error: %v", err)
	}

	if got, want := orders(shelf.Books), []int{0, 1, 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("orders = %v, want %v", got, want)
	}
	if shelf.LastUpdated == nil {
		t.Error("LastUpdated not stamped")
	}
}

func TestAddOverwritesFieldsButKeepsOrder(t *testing.T) {
	store := NewStore(t.TempDir())

	if _, err := store.Add([]models.Book{
		{Title: "Dune", Author: "Frank Herbert"},
		{Title: "Foundation", Author: "Isaac Asimov"},
	}); err != nil {
		t.Fatal(err)
	}

	// Same key (case/whitespace-insensitive), new cover.
	shelf, err := store.Add([]models.Book{
		{Title: "  dune ", Author: "FRANK HERBERT", CoverURL: cover("http://x/dune.jpg")},
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(shelf.Books) != 2 {
		t.Fatalf("expected 2 books after re-add, got %d", len(shelf.Books))
	}
	dune := shelf.Books[0]
	if dune.Order != 0 {
		t.Errorf("overwritten book moved: order = %d, want 0", dune.Order)
	}
	if dune.Title != "  dune " || !dune.HasCover() {
		t.Errorf("new field values did not win: %+v", dune)
	}
}

func TestAddBatchAfterExisting(t *testing.T) {
	store := NewStore(t.TempDir())

	if _, err := store.Add([]models.Book{{Title: "A", Author: "x"}}); err != nil {
		t.Fatal(err)
	}

	// One duplicate, two new: new books continue from the current max order.
	shelf, err := store.Add([]models.Book{
		{Title: "A", Author: "x", CoverURL: cover("http://x/a.jpg")},
		{Title: "B", Author: "y"},
		{Title: "C", Author: "z"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if got, want := titles(shelf.Books), []string{"A", "B", "C"}; !reflect.DeepEqual(got, want) {
		t.Errorf("titles = %v, want %v", got, want)
	}
	if got, want := orders(shelf.Books), []int{0, 1, 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("orders = %v, want %v", got, want)
	}
}

func TestRemoveRenumbersOrders(t *testing.T) {
	store := NewStore(t.TempDir())

	if _, err := store.Add([]models.Book{
		{Title: "A", Author: "x"},
		{Title: "B", Author: "y"},
		{Title: "C", Author: "z"},
	}); err != nil {
		t.Fatal(err)
	}

	shelf, err := store.Remove("b", " Y ")
	if err != nil {
		t.Fatalf("Remove() returned error: %v", err)
	}

	if got, want := titles(shelf.Books), []string{"A", "C"}; !reflect.DeepEqual(got, want) {
		t.Errorf("titles = %v, want %v", got, want)
	}
	if got, want := orders(shelf.Books), []int{0, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("orders not renumbered contiguously: %v, want %v", got, want)
	}
}

func TestRemoveUnknownKeyIsNoop(t *testing.T) {
	store := NewStore(t.TempDir())

	if _, err := store.Add([]models.Book{{Title: "A", Author: "x"}}); err != nil {
		t.Fatal(err)
	}

	shelf, err := store.Remove("Nope", "Nobody")
	if err != nil {
		t.Fatal(err)
	}
	if len(shelf.Books) != 1 {
		t.Errorf("expected 1 book, got %d", len(shelf.Books))
	}
}

func TestReorder(t *testing.T) {
	store := NewStore(t.TempDir())

	if _, err := store.Add([]models.Book{
		{Title: "A", Author: "x"},
		{Title: "B", Author: "y"},
		{Title: "C", Author: "z"},
	}); err != nil {
		t.Fatal(err)
	}

	entries := []ReorderEntry{
		{Title: "C", Author: "z", Order: 0},
		{Title: "A", Author: "x", Order: 2},
	}

	shelf, err := store.Reorder(entries)
	if err != nil {
		t.Fatalf("Reorder() returned error: %v", err)
	}
	if got, want := titles(shelf.Books), []string{"C", "B", "A"}; !reflect.DeepEqual(got, want) {
		t.Errorf("titles after reorder = %v, want %v", got, want)
	}

	// Idempotent: applying the same mapping again yields the same sequence.
	again, err := store.Reorder(entries)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := titles(again.Books), titles(shelf.Books); !reflect.DeepEqual(got, want) {
		t.Errorf("reorder not idempotent: %v, want %v", got, want)
	}
}

func TestReorderDuplicateOrdersAreStable(t *testing.T) {
	store := NewStore(t.TempDir())

	if _, err := store.Add([]models.Book{
		{Title: "A", Author: "x"},
		{Title: "B", Author: "y"},
		{Title: "C", Author: "z"},
	}); err != nil {
		t.Fatal(err)
	}

	// B and C collide on order 0; the prior relative position breaks the tie.
	shelf, err := store.Reorder([]ReorderEntry{
		{Title: "B", Author: "y", Order: 0},
		{Title: "C", Author: "z", Order: 0},
		{Title: "A", Author: "x", Order: 5},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := titles(shelf.Books), []string{"B", "C", "A"}; !reflect.DeepEqual(got, want) {
		t.Errorf("titles = %v, want %v", got, want)
	}
}

func TestClear(t *testing.T) {
	store := NewStore(t.TempDir())

	if _, err := store.Add([]models.Book{{Title: "A", Author: "x"}}); err != nil {
		t.Fatal(err)
	}

	shelf, err := store.Clear()
	if err != nil {
		t.Fatalf("Clear() returned error: %v", err)
	}
	if len(shelf.Books) != 0 {
		t.Errorf("expected empty bookshelf, got %d books", len(shelf.Books))
	}
	if shelf.LastUpdated == nil {
		t.Error("LastUpdated not stamped on clear")
	}
}

func TestStatePersistsAcrossStores(t *testing.T) {
	dir := t.TempDir()

	if _, err := NewStore(dir).Add([]models.Book{{Title: "A", Author: "x"}}); err != nil {
		t.Fatal(err)
	}

	shelf, err := NewStore(dir).Get()
	if err != nil {
		t.Fatal(err)
	}
	if got, want := titles(shelf.Books), []string{"A"}; !reflect.DeepEqual(got, want) {
		t.Errorf("titles after reopen = %v, want %v", got, want)
	}
}
