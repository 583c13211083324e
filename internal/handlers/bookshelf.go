package handlers

import (
	"fmt"
	"net/http"

	"github.com/household-twins/bookshelf/internal/bookshelf"
	"github.com/household-twins/bookshelf/internal/models"
)

// HandleBookshelf serves the bookshelf collection: GET reads it, DELETE
// clears it.
func (h *Handler) HandleBookshelf(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		shelf, err := h.shelf.Get()
		if err != nil {
			h.writeError(w, "Failed to load bookshelf: "+err.Error(), http.StatusInternalServerError)
			return
		}
		h.writeJSON(w, map[string]interface{}{
			"bookshelf":   shelf,
			"total_books": len(shelf.Books),
		})
	case "DELETE":
		shelf, err := h.shelf.Clear()
		if err != nil {
			h.writeError(w, "Failed to clear bookshelf: "+err.Error(), http.StatusInternalServerError)
			return
		}
		h.writeJSON(w, map[string]interface{}{
			"message":   "Bookshelf cleared",
			"bookshelf": shelf,
		})
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type addBookRequest struct {
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	CoverURL *string `json:"cover_url,omitempty"`
}

// HandleBookshelfBook adds (POST) or removes (DELETE) a single book.
func (h *Handler) HandleBookshelfBook(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "POST":
		var req addBookRequest
		if !h.decodeJSON(w, r, &req) {
			return
		}
		if req.Title == "" || req.Author == "" {
			h.writeError(w, "title and author are required", http.StatusBadRequest)
			return
		}

		book := models.Book{Title: req.Title, Author: req.Author, CoverURL: req.CoverURL}
		if !book.HasCover() {
			if coverURL, ok := h.covers.Lookup(r.Context(), book.Title, book.Author); ok {
				book.CoverURL = &coverURL
			}
		}

		shelf, err := h.shelf.Add([]models.Book{book})
		if err != nil {
			h.writeError(w, "Failed to add book: "+err.Error(), http.StatusInternalServerError)
			return
		}
		h.writeJSON(w, map[string]interface{}{
			"message":   fmt.Sprintf("Added '%s' by %s", book.Title, book.Author),
			"book":      book,
			"bookshelf": shelf,
		})
	case "DELETE":
		var req bookIdentity
		if !h.decodeJSON(w, r, &req) {
			return
		}

		shelf, err := h.shelf.Remove(req.Title, req.Author)
		if err != nil {
			h.writeError(w, "Failed to remove book: "+err.Error(), http.StatusInternalServerError)
			return
		}
		h.writeJSON(w, map[string]interface{}{
			"message":   fmt.Sprintf("Removed '%s' by %s", req.Title, req.Author),
			"bookshelf": shelf,
		})
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleReorder overwrites display orders for the named books.
func (h *Handler) HandleReorder(w http.ResponseWriter, r *http.Request) {
	if r.Method != "PUT" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Books []bookshelf.ReorderEntry `json:"books"`
	}
	if !h.decodeJSON(w, r, &req) {
		return
	}

	shelf, err := h.shelf.Reorder(req.Books)
	if err != nil {
		h.writeError(w, "Failed to reorder bookshelf: "+err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, map[string]interface{}{
		"message":   "Bookshelf reordered",
		"bookshelf": shelf,
	})
}
