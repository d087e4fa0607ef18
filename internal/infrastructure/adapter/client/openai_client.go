package client

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	errs "github.com/ownaimerch/merch-credits/internal/domain/error"
	"github.com/ownaimerch/merch-credits/internal/infrastructure/config"
)

// OpenAIClient generates artwork through the images API
type OpenAIClient struct {
	http   httpClient
	apiKey string
	model  string
	size   string
}

type imageGenerationRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Size   string `json:"size"`
	N      int    `json:"n"`
}

type imageGenerationResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

// NewOpenAIClient creates an image generation client
func NewOpenAIClient(conf config.OpenAIConfig) *OpenAIClient {
	return &OpenAIClient{
		http:   newHTTPClient("openai", conf.BaseURL, conf.Timeout),
		apiKey: conf.APIKey,
		model:  conf.Model,
		size:   conf.Size,
	}
}

// Generate returns the decoded PNG for the prompt
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) ([]byte, error) {
	if c.apiKey == "" {
		return nil, errs.NewProviderError("openai", "generate", 0, errors.New("api key is not configured"))
	}

	var out imageGenerationResponse
	err := c.http.postJSON(ctx, "generate", "/images/generations",
		map[string]string{"Authorization": "Bearer " + c.apiKey},
		imageGenerationRequest{Model: c.model, Prompt: prompt, Size: c.size, N: 1},
		&out,
	)
	if err != nil {
		return nil, err
	}

	if len(out.Data) == 0 || out.Data[0].B64JSON == "" {
		return nil, errs.NewProviderError("openai", "generate", 0, errors.New("no image returned"))
	}

	image, err := base64.StdEncoding.DecodeString(out.Data[0].B64JSON)
	if err != nil {
		return nil, errs.NewProviderError("openai", "generate", 0, fmt.Errorf("invalid image payload: %w", err))
	}
	return image, nil
}
