package dto

import "github.com/ownaimerch/merch-credits/internal/domain/entity"

// GenerateImageRequest is a billable generation
type GenerateImageRequest struct {
	Prompt           string    `json:"prompt" binding:"required"`
	RemoveBackground bool      `json:"removeBackground"`
	RequestID        string    `json:"requestId" binding:"omitempty,max=64"`
	Customer         *Customer `json:"customer"`
}

// GenerateImageResponse carries the artwork and the billing outcome
type GenerateImageResponse struct {
	OK                bool   `json:"ok"`
	Base64            string `json:"base64"`
	ImageURL          string `json:"imageUrl,omitempty"`
	ImageID           string `json:"imageId,omitempty"`
	BillingMode       string `json:"billingMode"`
	Charged           int64  `json:"charged"`
	CreditsLeft       int64  `json:"creditsLeft"`
	BackgroundRemoved bool   `json:"backgroundRemoved"`
	Degraded          bool   `json:"degraded,omitempty"`
	CorrelationID     string `json:"correlationId"`
}

// NewGenerateImageResponse maps a generation result
func NewGenerateImageResponse(result *entity.GenerationResult) GenerateImageResponse {
	return GenerateImageResponse{
		OK:                true,
		Base64:            result.DataURL(),
		ImageURL:          result.ImageURL,
		ImageID:           result.ImageKey,
		BillingMode:       string(result.BillingMode),
		Charged:           result.Charged,
		CreditsLeft:       result.CreditsLeft,
		BackgroundRemoved: result.BackgroundRemoved,
		Degraded:          result.Degraded,
		CorrelationID:     result.CorrelationID,
	}
}

// MockupRequest renders a garment preview
type MockupRequest struct {
	Base64       string `json:"base64" binding:"required"`
	GarmentColor string `json:"garmentColor"`
}

// MockupResponse is the rendered preview as a data URL
type MockupResponse struct {
	OK     bool   `json:"ok"`
	Base64 string `json:"base64"`
}
