package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/household-twins/bookshelf/internal/audit"
	"github.com/household-twins/bookshelf/internal/bookshelf"
	"github.com/household-twins/bookshelf/internal/covers"
	"github.com/household-twins/bookshelf/internal/vision"
)

// maxImageBytes caps uploaded shelf photos at 10MB.
const maxImageBytes = 10 * 1024 * 1024

type Handler struct {
	shelf   *bookshelf.Store
	audit   *audit.Store
	applier *audit.Applier
	vision  *vision.Service
	covers  *covers.Client
}

// New wires a Handler from its collaborators. Stores are injected rather
// than package-level so their lifetime is scoped to the server process.
func New(shelf *bookshelf.Store, auditStore *audit.Store, visionSvc *vision.Service, coverClient *covers.Client) *Handler {
	return &Handler{
		shelf:   shelf,
		audit:   auditStore,
		applier: &audit.Applier{Shelf: shelf, Audit: auditStore},
		vision:  visionSvc,
		covers:  coverClient,
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

// bookIdentity is the request body naming one book by its identity fields.
type bookIdentity struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// readImageUpload pulls the uploaded image out of a multipart form, enforces
// the size cap and the MIME whitelist, and rejects the request before any
// processing when either check fails.
func (h *Handler) readImageUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, bool) {
	file, header, err := r.FormFile("image")
	if err != nil {
		file, header, err = r.FormFile("file")
		if err != nil {
			h.writeError(w, "Failed to read file: "+err.Error(), http.StatusBadRequest)
			return nil, "", false
		}
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if !vision.AllowedMIMETypes[mimeType] {
		h.writeError(w,
			fmt.Sprintf("Invalid file type %q. Allowed types: image/jpeg, image/png, image/gif, image/webp", mimeType),
			http.StatusBadRequest)
		return nil, "", false
	}

	imageData, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		h.writeError(w, "Failed to read file contents: "+err.Error(), http.StatusInternalServerError)
		return nil, "", false
	}
	if len(imageData) >= maxImageBytes {
		h.writeError(w, "File too large (max 10MB)", http.StatusBadRequest)
		return nil, "", false
	}

	return imageData, mimeType, true
}

// requireVision gates image endpoints on provider configuration so a missing
// credential is rejected before detection is attempted.
func (h *Handler) requireVision(w http.ResponseWriter) bool {
	if !h.vision.Configured() {
		h.writeError(w, "Vision provider not configured. Cannot process images.", http.StatusServiceUnavailable)
		return false
	}
	return true
}

// HandleHealth reports API health and configuration status.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]interface{}{
		"status":            "healthy",
		"provider":          h.vision.ProviderName(),
		"vision_configured": h.vision.Configured(),
	})
}
