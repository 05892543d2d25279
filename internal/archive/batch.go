package archive

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/pkordes/pdf-archiver/internal/domain"
	"github.com/pkordes/pdf-archiver/internal/naming"
)

// Result is the outcome of archiving one document in a batch.
// Document holds the updated document on success and the untouched input
// on failure.
type Result struct {
	Document  domain.Document
	Placement naming.Placement
	Err       error
}

// ArchiveAll archives docs with at most jobs moves in flight and returns one
// Result per input, in input order. A failure does not stop the rest of the
// batch. Documents not yet started when ctx is cancelled report ctx.Err().
func (a *Archiver) ArchiveAll(ctx context.Context, docs []domain.Document, archiveRoot string, jobs int) []Result {
	results := make([]Result, len(docs))

	var g errgroup.Group
	g.SetLimit(max(jobs, 1))
	for i := range docs {
		g.Go(func() error {
			doc := docs[i]
			if err := ctx.Err(); err != nil {
				results[i] = Result{Document: doc, Err: err}
				return nil
			}
			p, err := a.Archive(ctx, &doc, archiveRoot)
			results[i] = Result{Document: doc, Placement: p, Err: err}
			return nil
		})
	}
	// Failures are recorded per document; no goroutine returns an error.
	_ = g.Wait()
	return results
}
