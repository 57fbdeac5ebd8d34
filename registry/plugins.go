package registry

import "context"

// Stage orders post-processors. Early runs before Middle, Middle before Late.
type Stage string

const (
	StageEarly  Stage = "early"
	StageMiddle Stage = "middle"
	StageLate   Stage = "late"
)

// DefaultPriority is the validator priority used when a host does not set one.
const DefaultPriority = 50

// OCRBackend converts images to text. Implementations are typically host-language
// adapters around an OCR engine; the pipeline consults them when native text
// extraction is unavailable or produced degraded output.
type OCRBackend interface {
	Name() string
	// SupportedLanguages returns the language codes this backend can process.
	SupportedLanguages() []string
	// ProcessImage runs OCR on a base64-encoded image and returns the
	// recognized text. Implementations must honor ctx cancellation.
	ProcessImage(ctx context.Context, image, language string) (string, error)
}

// PostProcessor transforms a completed extraction result. The result crosses
// the plugin boundary serialized as JSON; Process receives and returns the
// serialized form, never a live structure.
type PostProcessor interface {
	Name() string
	ProcessingStage() Stage
	Process(ctx context.Context, result string) (string, error)
}

// Validator inspects a completed result without mutating it. Validate returns
// an empty string for success or a failure message; a non-nil error means the
// validator itself could not run.
type Validator interface {
	Name() string
	Priority() int
	Validate(ctx context.Context, result string) (string, error)
}

type ocrBackendFunc struct {
	name  string
	langs []string
	fn    func(ctx context.Context, image, language string) (string, error)
}

func (b *ocrBackendFunc) Name() string                  { return b.name }
func (b *ocrBackendFunc) SupportedLanguages() []string  { return b.langs }
func (b *ocrBackendFunc) ProcessImage(ctx context.Context, image, language string) (string, error) {
	return b.fn(ctx, image, language)
}

// OCRBackendFunc adapts a plain function to the OCRBackend interface.
func OCRBackendFunc(name string, languages []string, fn func(ctx context.Context, image, language string) (string, error)) OCRBackend {
	return &ocrBackendFunc{name: name, langs: languages, fn: fn}
}

type postProcessorFunc struct {
	name  string
	stage Stage
	fn    func(ctx context.Context, result string) (string, error)
}

func (p *postProcessorFunc) Name() string           { return p.name }
func (p *postProcessorFunc) ProcessingStage() Stage { return p.stage }
func (p *postProcessorFunc) Process(ctx context.Context, result string) (string, error) {
	return p.fn(ctx, result)
}

// PostProcessorFunc adapts a plain function to the PostProcessor interface.
// An empty stage defaults to StageMiddle.
func PostProcessorFunc(name string, stage Stage, fn func(ctx context.Context, result string) (string, error)) PostProcessor {
	if stage == "" {
		stage = StageMiddle
	}
	return &postProcessorFunc{name: name, stage: stage, fn: fn}
}

type validatorFunc struct {
	name     string
	priority int
	fn       func(ctx context.Context, result string) (string, error)
}

func (v *validatorFunc) Name() string  { return v.name }
func (v *validatorFunc) Priority() int { return v.priority }
func (v *validatorFunc) Validate(ctx context.Context, result string) (string, error) {
	return v.fn(ctx, result)
}

// ValidatorFunc adapts a plain function to the Validator interface.
func ValidatorFunc(name string, priority int, fn func(ctx context.Context, result string) (string, error)) Validator {
	return &validatorFunc{name: name, priority: priority, fn: fn}
}

// stageRank maps stages to execution order; unknown stages sort with middle.
func stageRank(s Stage) int {
	switch s {
	case StageEarly:
		return 0
	case StageLate:
		return 2
	default:
		return 1
	}
}
