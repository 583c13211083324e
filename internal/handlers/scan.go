package handlers

import (
	"fmt"
	"net/http"

	"github.com/household-twins/bookshelf/internal/models"
	"github.com/household-twins/bookshelf/internal/vision"
)

// HandleScan accepts a shelf photo, detects the books on it, enriches them
// with covers and adds them to the bookshelf.
func (h *Handler) HandleScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	imageData, mimeType, ok := h.readImageUpload(w, r)
	if !ok {
		return
	}
	if !h.requireVision(w) {
		return
	}

	result, err := h.vision.DetectBooks(r.Context(), imageData, mimeType)
	if err != nil {
		h.writeError(w, "Error analyzing image: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if len(result.Books) == 0 {
		shelf, err := h.shelf.Get()
		if err != nil {
			h.writeError(w, "Failed to load bookshelf: "+err.Error(), http.StatusInternalServerError)
			return
		}
		h.writeJSON(w, map[string]interface{}{
			"message":        "No books detected in the image",
			"books_detected": 0,
			"books_added":    0,
			"bookshelf":      shelf,
		})
		return
	}

	books := h.covers.Enrich(r.Context(), detectedToBooks(result.Books))

	shelf, err := h.shelf.Add(books)
	if err != nil {
		h.writeError(w, "Failed to add books: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]interface{}{
		"message":        fmt.Sprintf("Successfully detected %d books", len(result.Books)),
		"books_detected": len(result.Books),
		"books_added":    len(books),
		"bookshelf":      shelf,
	})
}

func detectedToBooks(detected []vision.DetectedBook) []models.Book {
	books := make([]models.Book, 0, len(detected))
	for _, d := range detected {
		books = append(books, models.Book{Title: d.Title, Author: d.Author})
	}
	return books
}
