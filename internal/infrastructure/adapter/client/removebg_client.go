package client

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"

	errs "github.com/ownaimerch/merch-credits/internal/domain/error"
	"github.com/ownaimerch/merch-credits/internal/infrastructure/config"
)

// RemoveBgClient cuts backgrounds out through remove.bg
type RemoveBgClient struct {
	http   httpClient
	apiKey string
}

// NewRemoveBgClient creates a background removal client
func NewRemoveBgClient(conf config.RemoveBgConfig) *RemoveBgClient {
	return &RemoveBgClient{
		http:   newHTTPClient("removebg", conf.BaseURL, conf.Timeout),
		apiKey: conf.APIKey,
	}
}

// Configured reports whether an API key is present
func (c *RemoveBgClient) Configured() bool {
	return c.apiKey != ""
}

// RemoveBackground uploads the image and returns the transparent PNG
func (c *RemoveBgClient) RemoveBackground(ctx context.Context, image []byte) ([]byte, error) {
	if !c.Configured() {
		return nil, errs.NewProviderError("removebg", "remove_background", 0, errors.New("api key is not configured"))
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image_file", "artwork.png")
	if err != nil {
		return nil, errs.NewProviderError("removebg", "remove_background", 0, err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, errs.NewProviderError("removebg", "remove_background", 0, err)
	}
	_ = writer.WriteField("size", "auto")
	_ = writer.WriteField("format", "png")
	if err := writer.Close(); err != nil {
		return nil, errs.NewProviderError("removebg", "remove_background", 0, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.http.baseURL+"/removebg", &body)
	if err != nil {
		return nil, errs.NewProviderError("removebg", "remove_background", 0, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "image/png")
	req.Header.Set("X-Api-Key", c.apiKey)

	result, err := c.http.do(req, "remove_background")
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, errs.NewProviderError("removebg", "remove_background", 0, errors.New("empty image returned"))
	}
	return result, nil
}
