package providers

import (
	"context"
)

// Request carries one vision prompt and the image it applies to.
type Request struct {
	Model       string
	Temperature float64
	Prompt      string
	ImageData   []byte
	MIMEType    string
}

// Provider defines the interface for a vision-capable LLM provider.
type Provider interface {
	// Name identifies the provider (for logging and the health endpoint).
	Name() string
	// Configured reports whether the provider's credential or endpoint is set.
	Configured() bool
	// DefaultModel is the model used when the caller does not pick one.
	DefaultModel() string
	// DetectText sends the image and prompt and returns the raw model output.
	DetectText(ctx context.Context, req Request) (string, error)
}
