package pipeline

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/docintel/chunk"
	"github.com/hazyhaar/docintel/embedding"
	"github.com/hazyhaar/docintel/keywords"
)

// OutputFormat selects the shape of extraction results.
type OutputFormat string

const (
	// OutputUnified produces one content string per document.
	OutputUnified OutputFormat = "unified"
	// OutputElementBased additionally classifies content into typed elements.
	OutputElementBased OutputFormat = "element_based"
)

// OCRConfig controls the OCR fallback for image-only documents.
type OCRConfig struct {
	// Enabled turns the fallback on. A backend must also be registered.
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`

	// Language selects the backend by supported language. Empty matches any
	// registered backend.
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
}

// Config configures the extraction pipeline.
type Config struct {
	// OutputFormat defaults to unified.
	OutputFormat OutputFormat `json:"output_format,omitempty" yaml:"output_format,omitempty"`

	// Chunking enables text chunking when non-nil.
	Chunking *chunk.Options `json:"chunking,omitempty" yaml:"chunking,omitempty"`

	// Keywords enables keyword extraction when non-nil.
	Keywords *keywords.Config `json:"keywords,omitempty" yaml:"keywords,omitempty"`

	// Embedding configures the embedding client used when Chunking.Embed is
	// set. An empty endpoint selects the no-op embedder.
	Embedding embedding.Config `json:"embedding,omitempty" yaml:"embedding,omitempty"`

	// OCR controls the fallback for documents with no extractable text.
	OCR OCRConfig `json:"ocr,omitempty" yaml:"ocr,omitempty"`

	// DetectLanguages enables language detection on the extracted text.
	DetectLanguages bool `json:"detect_languages,omitempty" yaml:"detect_languages,omitempty"`

	// MaxLanguages caps detected languages per document. Default 3.
	MaxLanguages int `json:"max_languages,omitempty" yaml:"max_languages,omitempty"`

	// CachePath enables the extraction cache when non-empty. Results are
	// keyed by document bytes plus the effective config.
	CachePath string `json:"cache_path,omitempty" yaml:"cache_path,omitempty"`

	// DisabledPostProcessors skips registered post-processors by name.
	DisabledPostProcessors []string `json:"disabled_post_processors,omitempty" yaml:"disabled_post_processors,omitempty"`

	// ValidationFailFast makes the first validator failure abort the
	// document. Off by default: failures collect into metadata.
	ValidationFailFast bool `json:"validation_fail_fast,omitempty" yaml:"validation_fail_fast,omitempty"`

	// MaxConcurrent caps parallel documents in batch extraction.
	// Default 2x GOMAXPROCS.
	MaxConcurrent int `json:"max_concurrent,omitempty" yaml:"max_concurrent,omitempty"`

	// MaxFileSize rejects oversized inputs (default 100 MB).
	MaxFileSize int64 `json:"max_file_size,omitempty" yaml:"max_file_size,omitempty"`

	// Logger for debug/error messages.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.OutputFormat == "" {
		c.OutputFormat = OutputUnified
	}
	if c.MaxLanguages <= 0 {
		c.MaxLanguages = 3
	}
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = runtime.GOMAXPROCS(0) * 2
	}
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = 100 * 1024 * 1024
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Validate checks config consistency. Called by New; exported so hosts can
// fail fast on loaded files.
func (c *Config) Validate() error {
	switch c.OutputFormat {
	case "", OutputUnified, OutputElementBased:
	default:
		return &ConfigError{Field: "output_format", Reason: fmt.Sprintf("unknown value %q", c.OutputFormat)}
	}
	if c.Chunking != nil && c.Chunking.MaxChars < 0 {
		return &ConfigError{Field: "chunking.max_chars", Reason: "must not be negative"}
	}
	if c.Chunking != nil && c.Chunking.MaxOverlap < 0 {
		return &ConfigError{Field: "chunking.max_overlap", Reason: "must not be negative"}
	}
	if c.Keywords != nil {
		switch c.Keywords.Algorithm {
		case "", keywords.AlgorithmYAKE, keywords.AlgorithmRAKE:
		default:
			return &ConfigError{Field: "keywords.algorithm", Reason: fmt.Sprintf("unknown value %q", c.Keywords.Algorithm)}
		}
		lo, hi := c.Keywords.NgramRange[0], c.Keywords.NgramRange[1]
		if lo != 0 && hi != 0 && lo > hi {
			return &ConfigError{Field: "keywords.ngram_range", Reason: "lower bound exceeds upper bound"}
		}
	}
	if c.MaxConcurrent < 0 {
		return &ConfigError{Field: "max_concurrent", Reason: "must not be negative"}
	}
	return nil
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
