package entity

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"

	errs "github.com/ownaimerch/merch-credits/internal/domain/error"
)

// MinPromptLength is the shortest prompt accepted for generation
const MinPromptLength = 3

// GenerationRequest is a billable image generation
type GenerationRequest struct {
	Identity         Identity
	Prompt           string
	RemoveBackground bool
	RequestID        string // idempotency key for the charge; generated when empty
}

// Validate rejects requests before any ledger or provider interaction
func (r GenerationRequest) Validate() error {
	if r.Identity.IsZero() {
		return errs.ErrNotAuthenticated
	}
	if utf8.RuneCountInString(strings.TrimSpace(r.Prompt)) < MinPromptLength {
		return errs.ErrPromptTooShort
	}
	return nil
}

// GenerationResult is the delivered artwork plus billing outcome
type GenerationResult struct {
	Image             []byte
	ContentType       string
	ImageURL          string // public artwork URL when object storage is configured
	ImageKey          string
	BillingMode       BillingMode
	Charged           int64
	CreditsLeft       int64
	BackgroundRemoved bool
	Degraded          bool // background removal was requested but fell back to the original image
	CorrelationID     string
}

// DataURL renders the artwork as an inline data URL
func (r *GenerationResult) DataURL() string {
	contentType := r.ContentType
	if contentType == "" {
		contentType = "image/png"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(r.Image)
}

// DecodeImageData accepts raw base64 or a data URL and returns the bytes
func DecodeImageData(data string) ([]byte, error) {
	payload := strings.TrimSpace(data)
	if payload == "" {
		return nil, errs.ErrInvalidRequest
	}
	if strings.HasPrefix(payload, "data:") {
		_, encoded, found := strings.Cut(payload, ",")
		if !found {
			return nil, errs.ErrInvalidRequest
		}
		payload = encoded
	}
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, errs.ErrInvalidRequest
	}
	return decoded, nil
}
