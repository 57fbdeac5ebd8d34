package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// BatchInput is one document in a batch request.
type BatchInput struct {
	// Path points at a file on disk. Ignored when Data is set.
	Path string

	// Data holds the document bytes inline.
	Data []byte

	// Filename is the detection hint for inline Data.
	Filename string
}

// BatchItem is the outcome for one batch input. Exactly one of Result and Err
// is set.
type BatchItem struct {
	Result *ExtractionResult
	Err    error
}

// ExtractBatch processes inputs concurrently, bounded by MaxConcurrent.
// Output order matches input order; a failing document records its error in
// its slot without affecting the others. Context cancellation stops
// unstarted documents.
func (p *Pipeline) ExtractBatch(ctx context.Context, inputs []BatchInput) []BatchItem {
	items := make([]BatchItem, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.MaxConcurrent)

	for i, in := range inputs {
		g.Go(func() error {
			defer func() {
				// A panicking decoder must not take down sibling documents.
				if r := recover(); r != nil {
					items[i].Err = fmt.Errorf("panic during extraction: %v", r)
					p.logger.Error("extraction panic", "index", i, "panic", r)
				}
			}()

			if err := gctx.Err(); err != nil {
				items[i].Err = err
				return nil
			}

			var result *ExtractionResult
			var err error
			if in.Path != "" && in.Data == nil {
				result, err = p.ExtractFile(gctx, in.Path)
			} else {
				result, err = p.ExtractBytes(gctx, in.Data, in.Filename)
			}
			items[i] = BatchItem{Result: result, Err: err}
			return nil
		})
	}

	// Workers never return errors; they report through their slot.
	_ = g.Wait()
	return items
}
