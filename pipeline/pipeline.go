// Package pipeline orchestrates document extraction: format detection,
// decoding, OCR fallback, quality normalization, chunking, keyword and
// language extraction, output assembly and the plugin stages.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hazyhaar/docintel/cache"
	"github.com/hazyhaar/docintel/chunk"
	"github.com/hazyhaar/docintel/document"
	"github.com/hazyhaar/docintel/embedding"
	"github.com/hazyhaar/docintel/extract"
	"github.com/hazyhaar/docintel/keywords"
	"github.com/hazyhaar/docintel/langdetect"
	"github.com/hazyhaar/docintel/mimetype"
	"github.com/hazyhaar/docintel/quality"
	"github.com/hazyhaar/docintel/registry"
)

// Pipeline runs document extraction with a fixed config and a plugin registry.
// It is safe for concurrent use.
type Pipeline struct {
	cfg      Config
	registry *registry.Registry
	decoders *extract.Set
	splitter *chunk.Splitter
	store    *cache.Store
	cacheCfg []byte
	logger   *slog.Logger
}

// New builds a Pipeline. The registry may be shared across pipelines; pass
// registry.New() when no plugins are needed.
func New(cfg Config, reg *registry.Registry) (*Pipeline, error) {
	cfg.defaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if reg == nil {
		reg = registry.New()
	}

	p := &Pipeline{
		cfg:      cfg,
		registry: reg,
		decoders: extract.NewSet(cfg.Logger),
		logger:   cfg.Logger,
	}

	if cfg.Chunking != nil && cfg.Chunking.Embed {
		embCfg := cfg.Embedding
		embCfg.Logger = cfg.Logger
		p.splitter = chunk.NewSplitter(embedding.New(embCfg), cfg.Logger)
	}

	if cfg.CachePath != "" {
		store, err := cache.Open(cfg.CachePath, cfg.Logger)
		if err != nil {
			return nil, err
		}
		p.store = store
		// The config digest makes cache entries config-sensitive: a changed
		// chunk size must not serve stale chunks.
		digest, err := json.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("marshal config for cache key: %w", err)
		}
		p.cacheCfg = digest
	}

	return p, nil
}

// Registry returns the plugin registry this pipeline consults.
func (p *Pipeline) Registry() *registry.Registry { return p.registry }

// SupportedMimeTypes lists the MIME types the pipeline can decode.
func (p *Pipeline) SupportedMimeTypes() []string { return p.decoders.SupportedMimeTypes() }

// Close releases the extraction cache, if any.
func (p *Pipeline) Close() error {
	if p.store != nil {
		return p.store.Close()
	}
	return nil
}

// ExtractFile extracts the document at path.
func (p *Pipeline) ExtractFile(ctx context.Context, path string) (*ExtractionResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > p.cfg.MaxFileSize {
		return nil, fmt.Errorf("file %s exceeds size limit (%d > %d bytes)", path, info.Size(), p.cfg.MaxFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return p.ExtractBytes(ctx, data, filepath.Base(path))
}

// ExtractBytes extracts a document from raw bytes. filename is an optional
// hint for format detection.
func (p *Pipeline) ExtractBytes(ctx context.Context, data []byte, filename string) (*ExtractionResult, error) {
	if int64(len(data)) > p.cfg.MaxFileSize {
		return nil, fmt.Errorf("input exceeds size limit (%d > %d bytes)", len(data), p.cfg.MaxFileSize)
	}

	mime := mimetype.Detect(data, filename)
	log := p.logger.With("mime_type", mime, "filename", filename)

	if p.store != nil {
		key := cache.Key(data, p.cacheCfg)
		if blob, ok, err := p.store.Get(ctx, key); err != nil {
			log.Warn("cache lookup failed", "error", err)
		} else if ok {
			result, err := decodeResult(string(blob))
			if err == nil {
				log.Debug("cache hit")
				return result, nil
			}
			log.Warn("cache entry corrupt, re-extracting", "error", err)
		}
	}

	result, err := p.extract(ctx, data, filename, mime, log)
	if err != nil {
		return nil, err
	}

	if p.store != nil {
		encoded, err := encodeResult(result)
		if err == nil {
			if err := p.store.Put(ctx, cache.Key(data, p.cacheCfg), []byte(encoded)); err != nil {
				log.Warn("cache store failed", "error", err)
			}
		}
	}
	return result, nil
}

func (p *Pipeline) extract(ctx context.Context, data []byte, filename, mime string, log *slog.Logger) (*ExtractionResult, error) {
	dec, ok := p.decoders.For(mime)
	if !ok {
		return nil, &UnsupportedFormatError{MimeType: mime}
	}

	raw, err := dec.Decode(ctx, data, filename)
	if err != nil {
		return nil, &DecodeError{MimeType: mime, Err: err}
	}

	result := &ExtractionResult{
		MimeType: mime,
		Title:    raw.Title,
		Metadata: raw.Metadata,
		Tables:   raw.Tables,
		Images:   raw.Images,
	}

	report := quality.Assess(raw)
	if report.NeedsOCR() {
		p.runOCR(ctx, raw, result, log)
	}

	// Normalization shifts byte offsets, so page boundaries are rebuilt
	// against the normalized content. All downstream offsets (pages, chunks,
	// elements) index into result.Content.
	content, pages := normalizeWithPages(raw)
	result.Content = content
	result.setMeta("quality", report)

	if len(pages) > 0 {
		result.Pages = buildPages(content, pages)
	}

	if p.cfg.Chunking != nil {
		if err := p.runChunking(ctx, pages, result, log); err != nil {
			return nil, err
		}
	}

	if p.cfg.Keywords != nil {
		kws, err := keywords.Extract(result.Content, *p.cfg.Keywords)
		if err != nil {
			return nil, fmt.Errorf("keyword extraction: %w", err)
		}
		result.Keywords = kws
	}

	if p.cfg.DetectLanguages {
		dets := langdetect.Detect(result.Content, p.cfg.MaxLanguages)
		result.DetectedLanguages = langdetect.Codes(dets)
	}

	if p.cfg.OutputFormat == OutputElementBased {
		result.Elements = buildElements(result.Content, pages)
	}

	result, err = p.runPostProcessors(ctx, result, log)
	if err != nil {
		return nil, err
	}
	if err := p.runValidators(ctx, result, log); err != nil {
		return nil, err
	}

	return result, nil
}

// runOCR recovers text for image-heavy documents via the registered backend.
// Failures are recoverable: the native text is kept and the failure recorded
// in metadata.
func (p *Pipeline) runOCR(ctx context.Context, raw *document.Raw, result *ExtractionResult, log *slog.Logger) {
	if !p.cfg.OCR.Enabled {
		result.setMeta("needs_ocr", true)
		return
	}
	backend, ok := p.registry.FindOCRBackend(p.cfg.OCR.Language)
	if !ok {
		result.setMeta("needs_ocr", true)
		log.Debug("ocr wanted but no backend registered", "language", p.cfg.OCR.Language)
		return
	}
	if len(raw.Images) == 0 {
		result.setMeta("needs_ocr", true)
		log.Debug("ocr wanted but decoder produced no images")
		return
	}

	var sb strings.Builder
	sb.WriteString(raw.Content)
	recovered := 0
	for _, img := range raw.Images {
		text, err := backend.ProcessImage(ctx, img.Data, p.cfg.OCR.Language)
		if err != nil {
			ocrErr := &OCRError{Backend: backend.Name(), Err: err}
			result.setMeta("ocr_error", ocrErr.Error())
			log.Warn("ocr failed, keeping native text", "backend", backend.Name(), "error", err)
			return
		}
		if text = strings.TrimSpace(text); text != "" {
			if sb.Len() > 0 {
				sb.WriteString("\n\n")
			}
			sb.WriteString(text)
			recovered++
		}
	}
	if recovered > 0 {
		raw.Content = sb.String()
		result.setMeta("ocr_applied", true)
		result.setMeta("ocr_backend", backend.Name())
	}
}

// normalizeWithPages normalizes the decoded text. Page-aware documents are
// normalized page by page so the returned boundaries stay valid offsets into
// the returned content.
func normalizeWithPages(raw *document.Raw) (string, []document.PageBoundary) {
	if len(raw.Pages) == 0 {
		return quality.Normalize(raw.Content), nil
	}
	var sb strings.Builder
	var pages []document.PageBoundary
	covered := 0
	for _, p := range raw.Pages {
		if p.ByteStart < 0 || p.ByteEnd > len(raw.Content) || p.ByteStart >= p.ByteEnd {
			continue
		}
		text := quality.Normalize(raw.Content[p.ByteStart:p.ByteEnd])
		if p.ByteEnd > covered {
			covered = p.ByteEnd
		}
		if text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		start := sb.Len()
		sb.WriteString(text)
		pages = append(pages, document.PageBoundary{
			PageNumber: p.PageNumber,
			ByteStart:  start,
			ByteEnd:    sb.Len(),
		})
	}
	// Text past the last boundary (OCR-recovered, typically) keeps no page
	// association but must not be lost.
	if covered < len(raw.Content) {
		if tail := quality.Normalize(raw.Content[covered:]); tail != "" {
			if sb.Len() > 0 {
				sb.WriteString("\n\n")
			}
			sb.WriteString(tail)
		}
	}
	return sb.String(), pages
}

func (p *Pipeline) runChunking(ctx context.Context, pages []document.PageBoundary, result *ExtractionResult, log *slog.Logger) error {
	opts := *p.cfg.Chunking
	opts.Pages = pages

	if opts.Embed && p.splitter != nil {
		chunks, err := p.splitter.Chunk(ctx, result.Content, opts)
		if err != nil {
			// Chunks without vectors are still useful; record and continue.
			result.setMeta("embedding_error", err.Error())
			log.Warn("embedding failed, keeping unembedded chunks", "error", err)
		}
		result.Chunks = chunks
		return nil
	}

	result.Chunks = chunk.Split(result.Content, opts)
	return nil
}

// runPostProcessors pipes the serialized result through every enabled
// post-processor in stage order. A processor error aborts the document.
func (p *Pipeline) runPostProcessors(ctx context.Context, result *ExtractionResult, log *slog.Logger) (*ExtractionResult, error) {
	procs := p.registry.PostProcessors()
	if len(procs) == 0 {
		return result, nil
	}

	disabled := make(map[string]bool, len(p.cfg.DisabledPostProcessors))
	for _, name := range p.cfg.DisabledPostProcessors {
		disabled[name] = true
	}

	serialized, err := encodeResult(result)
	if err != nil {
		return nil, err
	}

	ran := 0
	for _, proc := range procs {
		if disabled[proc.Name()] {
			continue
		}
		out, err := proc.Process(ctx, serialized)
		if err != nil {
			return nil, &PluginError{Kind: "post-processor", Plugin: proc.Name(), Stage: proc.ProcessingStage(), Err: err}
		}
		serialized = out
		ran++
	}
	if ran == 0 {
		return result, nil
	}

	out, err := decodeResult(serialized)
	if err != nil {
		return nil, fmt.Errorf("post-processor output: %w", err)
	}
	return out, nil
}

// runValidators runs registered validators in priority order. Failure
// messages collect into metadata unless fail-fast is configured; a validator
// that cannot run always aborts.
func (p *Pipeline) runValidators(ctx context.Context, result *ExtractionResult, log *slog.Logger) error {
	vals := p.registry.Validators()
	if len(vals) == 0 {
		return nil
	}

	serialized, err := encodeResult(result)
	if err != nil {
		return err
	}

	var failures []string
	for _, v := range vals {
		msg, err := v.Validate(ctx, serialized)
		if err != nil {
			return &PluginError{Kind: "validator", Plugin: v.Name(), Err: err}
		}
		if msg == "" {
			continue
		}
		if p.cfg.ValidationFailFast {
			return &ValidationError{Validator: v.Name(), Message: msg}
		}
		failures = append(failures, fmt.Sprintf("%s: %s", v.Name(), msg))
		log.Debug("validation failure recorded", "validator", v.Name(), "message", msg)
	}
	if len(failures) > 0 {
		result.setMeta("validation_failures", failures)
	}
	return nil
}
