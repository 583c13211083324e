// Package vision turns a photo of a shelf into a list of detected books.
package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/household-twins/bookshelf/internal/gemini"
	"github.com/household-twins/bookshelf/internal/ollama"
	"github.com/household-twins/bookshelf/internal/openai"
	"github.com/household-twins/bookshelf/internal/providers"
)

// DetectedBook is one (title, author) guess read off a spine.
type DetectedBook struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

// DetectionResult is the parsed outcome of one image analysis. RawResponse
// retains the model output for diagnostics when parsing yields nothing.
type DetectionResult struct {
	Books       []DetectedBook
	RawResponse string
}

// AllowedMIMETypes are the image types detection accepts.
var AllowedMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Service runs spine detection through a configured vision provider.
type Service struct {
	provider providers.Provider
	model    string
}

// NewService picks the provider by name (falling back to the
// VISION_PROVIDER environment variable, default gemini) and the model
// (falling back to the provider's default).
func NewService(providerName, model string) (*Service, error) {
	if providerName == "" {
		providerName = os.Getenv("VISION_PROVIDER")
	}
	if providerName == "" {
		providerName = "gemini"
	}

	var p providers.Provider
	switch providerName {
	case "gemini":
		p = gemini.New()
	case "openai":
		p = openai.New()
	case "ollama":
		p = ollama.New()
	default:
		return nil, fmt.Errorf("unsupported vision provider: %s", providerName)
	}

	if model == "" {
		model = p.DefaultModel()
	}

	return &Service{provider: p, model: model}, nil
}

// ProviderName returns the name of the active provider.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}

// Configured reports whether the active provider can be called.
func (s *Service) Configured() bool {
	return s.provider.Configured()
}

// DetectBooks analyzes an image of a bookshelf. A provider or transport
// failure propagates as an error; a response that cannot be parsed as the
// expected JSON degrades to an empty book list with the raw text retained.
func (s *Service) DetectBooks(ctx context.Context, imageData []byte, mimeType string) (DetectionResult, error) {
	raw, err := s.provider.DetectText(ctx, providers.Request{
		Model:       s.model,
		Temperature: 0.1,
		Prompt:      detectionPrompt,
		ImageData:   imageData,
		MIMEType:    mimeType,
	})
	if err != nil {
		return DetectionResult{}, fmt.Errorf("vision detection failed: %w", err)
	}

	result := DetectionResult{
		Books:       parseDetectionResponse(raw),
		RawResponse: raw,
	}

	slog.Info("Detected books in image", "provider", s.provider.Name(), "model", s.model, "books", len(result.Books))
	return result, nil
}

const detectionPrompt = `Analyze this image of a bookshelf or books.

Identify all visible books and extract their titles and authors.

Return your response as a JSON object with the following structure:
{
  "books": [
    {"title": "Book Title", "author": "Author Name"},
    ...
  ]
}

Important guidelines:
- Only include books where you can clearly read or confidently identify the title
- If you can see a title but not the author, make your best guess based on the book or use "Unknown"
- If a book spine is partially visible or unclear, skip it
- Return ONLY the JSON object, no additional text or markdown formatting
- If no books are visible, return {"books": []}`

// parseDetectionResponse extracts the detected books from the model output.
// Markdown code fences are tolerated; anything unparseable yields an empty
// list rather than an error.
func parseDetectionResponse(response string) []DetectedBook {
	cleaned := strings.TrimSpace(response)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var parsed struct {
		Books []DetectedBook `json:"books"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		slog.Warn("Failed to parse detection response, treating as no books", "err", err)
		return []DetectedBook{}
	}

	if parsed.Books == nil {
		return []DetectedBook{}
	}
	return parsed.Books
}
