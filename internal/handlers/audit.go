package handlers

import (
	"fmt"
	"net/http"

	"github.com/household-twins/bookshelf/internal/models"
)

// HandleAudit serves the audit session: GET reads it, DELETE discards it.
func (h *Handler) HandleAudit(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		session, err := h.audit.Get()
		if err != nil {
			h.writeError(w, "Failed to load audit session: "+err.Error(), http.StatusInternalServerError)
			return
		}
		h.writeJSON(w, map[string]interface{}{
			"audit_session": session,
			"total_scanned": len(session.ScannedBooks),
		})
	case "DELETE":
		session, err := h.audit.Clear()
		if err != nil {
			h.writeError(w, "Failed to clear audit session: "+err.Error(), http.StatusInternalServerError)
			return
		}
		h.writeJSON(w, map[string]interface{}{
			"message":       "Audit session cleared",
			"audit_session": session,
		})
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleAuditStart begins a fresh audit session, discarding any prior one.
func (h *Handler) HandleAuditStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := h.audit.Start()
	if err != nil {
		h.writeError(w, "Failed to start audit session: "+err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, map[string]interface{}{
		"message":       "Audit session started",
		"audit_session": session,
	})
}

// HandleAuditScan accepts a shelf photo during an audit and accumulates the
// detected books into the session. The photo counts even when nothing could
// be read off it.
func (h *Handler) HandleAuditScan(w http.ResponseWriter, r *http.Request) {
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

	books := detectedToBooks(result.Books)
	if len(books) > 0 {
		books = h.covers.Enrich(r.Context(), books)
	}

	session, err := h.audit.AddScanned(books)
	if err != nil {
		h.writeError(w, "Failed to record scan: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]interface{}{
		"message":        fmt.Sprintf("Detected %d books", len(result.Books)),
		"books_detected": len(result.Books),
		"audit_session":  session,
	})
}

// HandleAuditBook adds (POST) or removes (DELETE) a single session entry.
func (h *Handler) HandleAuditBook(w http.ResponseWriter, r *http.Request) {
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

		session, err := h.audit.AddManual(book)
		if err != nil {
			h.writeError(w, "Failed to add book to audit session: "+err.Error(), http.StatusInternalServerError)
			return
		}
		h.writeJSON(w, map[string]interface{}{
			"message":       fmt.Sprintf("Added '%s' by %s to audit session", book.Title, book.Author),
			"book":          book,
			"audit_session": session,
		})
	case "DELETE":
		var req bookIdentity
		if !h.decodeJSON(w, r, &req) {
			return
		}

		session, err := h.audit.Remove(req.Title, req.Author)
		if err != nil {
			h.writeError(w, "Failed to remove book from audit session: "+err.Error(), http.StatusInternalServerError)
			return
		}
		h.writeJSON(w, map[string]interface{}{
			"message":       fmt.Sprintf("Removed '%s' by %s from audit session", req.Title, req.Author),
			"audit_session": session,
		})
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleAuditDiff computes the three-way diff between the session and the
// current bookshelf.
func (h *Handler) HandleAuditDiff(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	shelf, err := h.shelf.Get()
	if err != nil {
		h.writeError(w, "Failed to load bookshelf: "+err.Error(), http.StatusInternalServerError)
		return
	}

	diff, err := h.audit.ComputeDiff(shelf)
	if err != nil {
		h.writeError(w, "Failed to compute diff: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]interface{}{
		"diff": diff,
	})
}

// HandleAuditApply merges the current diff into the bookshelf and clears the
// session.
func (h *Handler) HandleAuditApply(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		AddNew        bool `json:"add_new"`
		RemoveMissing bool `json:"remove_missing"`
	}
	if !h.decodeJSON(w, r, &req) {
		return
	}

	shelf, err := h.shelf.Get()
	if err != nil {
		h.writeError(w, "Failed to load bookshelf: "+err.Error(), http.StatusInternalServerError)
		return
	}

	diff, err := h.audit.ComputeDiff(shelf)
	if err != nil {
		h.writeError(w, "Failed to compute diff: "+err.Error(), http.StatusInternalServerError)
		return
	}

	added, removed, err := h.applier.Apply(diff, req.AddNew, req.RemoveMissing)
	if err != nil {
		h.writeError(w, "Failed to apply audit: "+err.Error(), http.StatusInternalServerError)
		return
	}

	shelf, err = h.shelf.Get()
	if err != nil {
		h.writeError(w, "Failed to load bookshelf: "+err.Error(), http.StatusInternalServerError)
		return
	}
	session, err := h.audit.Get()
	if err != nil {
		h.writeError(w, "Failed to load audit session: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]interface{}{
		"message":       fmt.Sprintf("Audit applied: %d added, %d removed", added, removed),
		"books_added":   added,
		"books_removed": removed,
		"bookshelf":     shelf,
		"audit_session": session,
	})
}
