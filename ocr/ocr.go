// Package ocr provides a remote OCR backend: images are posted to an HTTP OCR
// service and the recognized text comes back. It satisfies the registry's
// OCRBackend contract, so hosts register it like any other plugin:
//
//	backend := ocr.NewRemote(ocr.Config{Name: "tesseract-svc", Endpoint: url, Languages: []string{"eng"}})
//	err := reg.RegisterOCRBackend(backend)
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Config configures a remote OCR backend.
type Config struct {
	// Name is the registry name of this backend.
	Name string `json:"name" yaml:"name"`

	// Endpoint is the base URL of the OCR service.
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// Languages lists the language codes the service supports.
	Languages []string `json:"languages" yaml:"languages"`

	// Timeout per request. Default 60s; OCR on large pages is slow.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// Logger defaults to slog.Default().
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.Name == "" {
		c.Name = "remote-ocr"
	}
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Remote is an HTTP-backed OCR backend.
type Remote struct {
	name     string
	endpoint string
	langs    []string
	client   *http.Client
	logger   *slog.Logger
}

// NewRemote creates a Remote backend from config.
func NewRemote(cfg Config) *Remote {
	cfg.defaults()
	return &Remote{
		name:     cfg.Name,
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		langs:    cfg.Languages,
		client:   &http.Client{Timeout: cfg.Timeout},
		logger:   cfg.Logger,
	}
}

// Name returns the registry name.
func (r *Remote) Name() string { return r.name }

// SupportedLanguages returns the configured language codes.
func (r *Remote) SupportedLanguages() []string { return r.langs }

type ocrRequest struct {
	Image    string `json:"image"` // base64
	Language string `json:"language,omitempty"`
}

type ocrResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// ProcessImage posts a base64-encoded image to the service and returns the
// recognized text. Cancellation of ctx aborts the in-flight request.
func (r *Remote) ProcessImage(ctx context.Context, image, language string) (string, error) {
	body, err := json.Marshal(ocrRequest{Image: image, Language: language})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := r.endpoint + "/v1/ocr"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP POST %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("HTTP %d from %s: %s", resp.StatusCode, url, string(respBody))
	}

	var result ocrResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if result.Error != "" {
		return "", fmt.Errorf("ocr service: %s", result.Error)
	}
	return result.Text, nil
}
