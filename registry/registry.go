// Package registry holds the process-wide plugin catalogs: OCR backends,
// post-processors, and validators. A Registry is an explicit object handed to
// the pipeline, never an implicit global, so tests construct and tear down
// their own instances.
//
// All operations are safe for concurrent use. Each plugin kind has its own
// guard; execution snapshots taken for one extraction never observe a
// half-applied registration.
//
// Usage:
//
//	reg := registry.New()
//	err := reg.RegisterValidator(registry.ValidatorFunc("min-length", 80, check))
//	for _, v := range reg.Validators() { ... }
package registry

import (
	"fmt"
	"sort"
	"sync"
)

// DuplicateNameError is returned when registering a name that already exists
// within its plugin kind. Registration is never a silent overwrite.
type DuplicateNameError struct {
	Kind string
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s %q is already registered", e.Kind, e.Name)
}

// NotFoundError is returned when unregistering a name that does not exist.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q is not registered", e.Kind, e.Name)
}

type ocrEntry struct {
	backend OCRBackend
	seq     uint64
}

type procEntry struct {
	proc PostProcessor
	seq  uint64
}

type valEntry struct {
	val Validator
	seq uint64
}

// Registry is the plugin catalog shared across concurrent extractions.
type Registry struct {
	ocrMu  sync.RWMutex
	ocr    map[string]ocrEntry
	procMu sync.RWMutex
	procs  map[string]procEntry
	valMu  sync.RWMutex
	vals   map[string]valEntry

	seqMu sync.Mutex
	seq   uint64
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		ocr:   make(map[string]ocrEntry),
		procs: make(map[string]procEntry),
		vals:  make(map[string]valEntry),
	}
}

func (r *Registry) nextSeq() uint64 {
	r.seqMu.Lock()
	defer r.seqMu.Unlock()
	r.seq++
	return r.seq
}

// --- OCR backends ---

// RegisterOCRBackend adds an OCR backend under its name.
func (r *Registry) RegisterOCRBackend(b OCRBackend) error {
	seq := r.nextSeq()
	r.ocrMu.Lock()
	defer r.ocrMu.Unlock()
	if _, ok := r.ocr[b.Name()]; ok {
		return &DuplicateNameError{Kind: "ocr backend", Name: b.Name()}
	}
	r.ocr[b.Name()] = ocrEntry{backend: b, seq: seq}
	return nil
}

// UnregisterOCRBackend removes the named OCR backend.
func (r *Registry) UnregisterOCRBackend(name string) error {
	r.ocrMu.Lock()
	defer r.ocrMu.Unlock()
	if _, ok := r.ocr[name]; !ok {
		return &NotFoundError{Kind: "ocr backend", Name: name}
	}
	delete(r.ocr, name)
	return nil
}

// ListOCRBackends returns registered backend names in registration order.
func (r *Registry) ListOCRBackends() []string {
	r.ocrMu.RLock()
	entries := make([]ocrEntry, 0, len(r.ocr))
	for _, e := range r.ocr {
		entries = append(entries, e)
	}
	r.ocrMu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.backend.Name()
	}
	return names
}

// ClearOCRBackends removes all OCR backends.
func (r *Registry) ClearOCRBackends() {
	r.ocrMu.Lock()
	defer r.ocrMu.Unlock()
	r.ocr = make(map[string]ocrEntry)
}

// FindOCRBackend returns the earliest-registered backend whose supported
// languages include language. An empty language matches any backend. The
// second return is false when no backend qualifies.
func (r *Registry) FindOCRBackend(language string) (OCRBackend, bool) {
	r.ocrMu.RLock()
	entries := make([]ocrEntry, 0, len(r.ocr))
	for _, e := range r.ocr {
		entries = append(entries, e)
	}
	r.ocrMu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
	for _, e := range entries {
		if language == "" {
			return e.backend, true
		}
		for _, lang := range e.backend.SupportedLanguages() {
			if lang == language {
				return e.backend, true
			}
		}
	}
	return nil, false
}

// --- Post-processors ---

// RegisterPostProcessor adds a post-processor under its name.
func (r *Registry) RegisterPostProcessor(p PostProcessor) error {
	seq := r.nextSeq()
	r.procMu.Lock()
	defer r.procMu.Unlock()
	if _, ok := r.procs[p.Name()]; ok {
		return &DuplicateNameError{Kind: "post-processor", Name: p.Name()}
	}
	r.procs[p.Name()] = procEntry{proc: p, seq: seq}
	return nil
}

// UnregisterPostProcessor removes the named post-processor.
func (r *Registry) UnregisterPostProcessor(name string) error {
	r.procMu.Lock()
	defer r.procMu.Unlock()
	if _, ok := r.procs[name]; !ok {
		return &NotFoundError{Kind: "post-processor", Name: name}
	}
	delete(r.procs, name)
	return nil
}

// ListPostProcessors returns registered post-processor names in registration order.
func (r *Registry) ListPostProcessors() []string {
	procs := r.procSnapshot(false)
	names := make([]string, len(procs))
	for i, p := range procs {
		names[i] = p.Name()
	}
	return names
}

// ClearPostProcessors removes all post-processors.
func (r *Registry) ClearPostProcessors() {
	r.procMu.Lock()
	defer r.procMu.Unlock()
	r.procs = make(map[string]procEntry)
}

// PostProcessors returns an execution snapshot ordered early, middle, late,
// and by registration order within a stage.
func (r *Registry) PostProcessors() []PostProcessor {
	return r.procSnapshot(true)
}

func (r *Registry) procSnapshot(byStage bool) []PostProcessor {
	r.procMu.RLock()
	entries := make([]procEntry, 0, len(r.procs))
	for _, e := range r.procs {
		entries = append(entries, e)
	}
	r.procMu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if byStage {
			ri, rj := stageRank(entries[i].proc.ProcessingStage()), stageRank(entries[j].proc.ProcessingStage())
			if ri != rj {
				return ri < rj
			}
		}
		return entries[i].seq < entries[j].seq
	})
	procs := make([]PostProcessor, len(entries))
	for i, e := range entries {
		procs[i] = e.proc
	}
	return procs
}

// --- Validators ---

// RegisterValidator adds a validator under its name.
func (r *Registry) RegisterValidator(v Validator) error {
	seq := r.nextSeq()
	r.valMu.Lock()
	defer r.valMu.Unlock()
	if _, ok := r.vals[v.Name()]; ok {
		return &DuplicateNameError{Kind: "validator", Name: v.Name()}
	}
	r.vals[v.Name()] = valEntry{val: v, seq: seq}
	return nil
}

// UnregisterValidator removes the named validator.
func (r *Registry) UnregisterValidator(name string) error {
	r.valMu.Lock()
	defer r.valMu.Unlock()
	if _, ok := r.vals[name]; !ok {
		return &NotFoundError{Kind: "validator", Name: name}
	}
	delete(r.vals, name)
	return nil
}

// ListValidators returns registered validator names in registration order.
func (r *Registry) ListValidators() []string {
	r.valMu.RLock()
	entries := make([]valEntry, 0, len(r.vals))
	for _, e := range r.vals {
		entries = append(entries, e)
	}
	r.valMu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.val.Name()
	}
	return names
}

// ClearValidators removes all validators.
func (r *Registry) ClearValidators() {
	r.valMu.Lock()
	defer r.valMu.Unlock()
	r.vals = make(map[string]valEntry)
}

// Validators returns an execution snapshot ordered by descending priority,
// ties broken by registration order.
func (r *Registry) Validators() []Validator {
	r.valMu.RLock()
	entries := make([]valEntry, 0, len(r.vals))
	for _, e := range r.vals {
		entries = append(entries, e)
	}
	r.valMu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		pi, pj := entries[i].val.Priority(), entries[j].val.Priority()
		if pi != pj {
			return pi > pj
		}
		return entries[i].seq < entries[j].seq
	})
	vals := make([]Validator, len(entries))
	for i, e := range entries {
		vals[i] = e.val
	}
	return vals
}

// Clear empties all three catalogs. Intended for test teardown.
func (r *Registry) Clear() {
	r.ClearOCRBackends()
	r.ClearPostProcessors()
	r.ClearValidators()
}
