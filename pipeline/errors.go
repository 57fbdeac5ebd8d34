package pipeline

import (
	"fmt"

	"github.com/hazyhaar/docintel/registry"
)

// ConfigError reports an invalid configuration value.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// UnsupportedFormatError is returned when no decoder handles the detected
// MIME type.
type UnsupportedFormatError struct {
	MimeType string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format %q", e.MimeType)
}

// DecodeError wraps a failure inside a format decoder.
type DecodeError struct {
	MimeType string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.MimeType, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// OCRError wraps a failure in the OCR fallback. It is recoverable: the
// pipeline keeps the degraded native text and records the failure in
// metadata.
type OCRError struct {
	Backend string
	Err     error
}

func (e *OCRError) Error() string {
	return fmt.Sprintf("ocr backend %q: %v", e.Backend, e.Err)
}

func (e *OCRError) Unwrap() error { return e.Err }

// PluginError wraps a failure inside a post-processor or validator. A failing
// post-processor aborts the document; a validator that cannot run does too.
type PluginError struct {
	Kind   string // "post-processor" or "validator"
	Plugin string
	Stage  registry.Stage
	Err    error
}

func (e *PluginError) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("%s %q (stage %s): %v", e.Kind, e.Plugin, e.Stage, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Kind, e.Plugin, e.Err)
}

func (e *PluginError) Unwrap() error { return e.Err }

// ValidationError reports validator failure messages for one document. Only
// produced in fail-fast mode; otherwise messages land in result metadata.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed (%s): %s", e.Validator, e.Message)
}
