package imagehost

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"quickcart-be/internal/logger"

	"go.uber.org/zap"
)

// MaxSize is the largest upload accepted, 5 MiB.
const MaxSize = 5 << 20

var (
	ErrTooLarge      = errors.New("image must be 5 MiB or smaller")
	ErrNotAnImage    = errors.New("file must be an image")
	ErrEmpty         = errors.New("image is empty")
	ErrNotConfigured = errors.New("image hosting is not configured")
	ErrUpstream      = errors.New("image host rejected the upload")
)

// Client uploads images to an imgbb-compatible host.
type Client struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func New(endpoint, apiKey string, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{endpoint: endpoint, apiKey: apiKey, client: client}
}

type uploadResponse struct {
	Success bool `json:"success"`
	Status  int  `json:"status"`
	Data    struct {
		URL        string `json:"url"`
		DisplayURL string `json:"display_url"`
	} `json:"data"`
}

// Check validates an upload before it leaves the server and returns its sniffed content type.
func Check(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmpty
	}
	if len(data) > MaxSize {
		return "", ErrTooLarge
	}
	ct := http.DetectContentType(data)
	if !strings.HasPrefix(ct, "image/") {
		return "", ErrNotAnImage
	}
	return ct, nil
}

// Upload sends data as the multipart field "image" and returns the hosted URL.
func (c *Client) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "imagehost"),
		zap.String("method", "Upload"),
	)

	if c.apiKey == "" {
		return "", ErrNotConfigured
	}
	if _, err := Check(data); err != nil {
		return "", err
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("image", filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	if err := form.Close(); err != nil {
		return "", err
	}

	target := c.endpoint + "?" + url.Values{"key": {c.apiKey}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		log.Error("image host unreachable", zap.Error(err))
		return "", fmt.Errorf("upload image: %w", err)
	}
	defer resp.Body.Close()

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || resp.StatusCode >= 300 || !out.Success {
		log.Warn("image upload failed", zap.Int("status", resp.StatusCode), zap.Error(err))
		return "", ErrUpstream
	}

	u := out.Data.DisplayURL
	if u == "" {
		u = out.Data.URL
	}
	log.Info("image uploaded", zap.Int("bytes", len(data)))
	return u, nil
}
