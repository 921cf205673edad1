// Package upload implements the image upload collaborator: an unsigned
// Cloudinary-style endpoint that takes multipart form data and returns a
// public URL for the stored blob.
package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.cloudinary.com/v1_1"

// Client uploads images using an unsigned upload preset.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	cloudName    string
	uploadPreset string
}

// NewClient creates an upload client for the given cloud and preset.
func NewClient(cloudName, uploadPreset string) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		baseURL:      defaultBaseURL,
		cloudName:    cloudName,
		uploadPreset: uploadPreset,
	}
}

// NewClientWithBaseURL is NewClient with an explicit base URL, for tests.
func NewClientWithBaseURL(cloudName, uploadPreset, baseURL string) *Client {
	c := NewClient(cloudName, uploadPreset)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload transfers the image and returns its public URL. Any upstream failure
// comes back as an error carrying the upstream message; the caller decides
// what to do with the aborted submission.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	var body strings.Builder
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("failed to read image data: %w", err)
	}
	if err := writer.WriteField("upload_preset", c.uploadPreset); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload form: %w", err)
	}

	url := fmt.Sprintf("%s/%s/image/upload", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body.String()))
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read upload response: %w", err)
	}

	var parsed uploadResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode upload response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error.Message != "" {
			return "", fmt.Errorf("upload rejected: %s", parsed.Error.Message)
		}
		return "", fmt.Errorf("upload failed with status %d", resp.StatusCode)
	}
	if parsed.SecureURL == "" {
		return "", fmt.Errorf("upload response missing secure_url")
	}
	return parsed.SecureURL, nil
}
