// Package vision wraps the external video-analysis endpoint. The service
// treats it as an opaque black box: one multipart upload, one JSON answer.
package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/KeyzarRasya/lativa/internal/config"
)

type Client struct {
	http *http.Client
	url  string
}

type CheckResult struct {
	Detection string `json:"detection"`
	ResultURL string `json:"result_url"`
}

func NewClient(cfg config.VisionConfig) *Client {
	return &Client{
		http: &http.Client{Timeout: cfg.Timeout},
		url:  cfg.CheckVideoURL,
	}
}

// CheckVideo uploads the video stream and returns the detection verdict.
func (c *Client) CheckVideo(ctx context.Context, filename string, video io.Reader) (*CheckResult, error) {
	if c.url == "" {
		return nil, fmt.Errorf("vision: check-video endpoint not configured")
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("video", filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, video); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, pr)
	if err != nil {
		return nil, fmt.Errorf("vision: build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vision: upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vision: status %d", resp.StatusCode)
	}

	var result CheckResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("vision: decode response: %w", err)
	}
	return &result, nil
}
