package provider

import "context"

// ImageGenerator turns a prompt into image bytes
type ImageGenerator interface {
	// Generate returns PNG bytes for the prompt
	//
	// Possible errors:
	// - ErrProviderError: If the upstream call fails or times out
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// BackgroundRemover cuts the background out of an image, best-effort
type BackgroundRemover interface {
	// RemoveBackground returns PNG bytes with a transparent background
	//
	// Possible errors:
	// - ErrProviderError: If the upstream call fails
	RemoveBackground(ctx context.Context, image []byte) ([]byte, error)
}
