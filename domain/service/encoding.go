// Package service provides domain services that combine the catalog and
// search domains without touching infrastructure.
package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/catalogmesh/tablequery/domain/search"
)

// Default bulk encoding parameters.
const (
	DefaultBatchSize   = 32
	DefaultParallelism = 1
)

// BulkEncoder runs a full-catalog encode as ordered batches, optionally in
// parallel. Single queries go straight to the underlying encoder; the bulk
// path exists so a rebuild over thousands of entries can saturate the model
// without the caller ever seeing partial output. Any batch failure fails
// the whole encode.
type BulkEncoder struct {
	encoder     search.Encoder
	batchSize   int
	parallelism int
}

// NewBulkEncoder creates a BulkEncoder. Non-positive parameters fall back
// to the defaults.
func NewBulkEncoder(encoder search.Encoder, batchSize, parallelism int) *BulkEncoder {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if parallelism <= 0 {
		parallelism = DefaultParallelism
	}
	return &BulkEncoder{
		encoder:     encoder,
		batchSize:   batchSize,
		parallelism: parallelism,
	}
}

// Encode returns one vector per input text, in input order. The texts are
// split into batches of the configured size and encoded with at most the
// configured parallelism; cancellation of ctx aborts between batches.
func (b *BulkEncoder) Encode(ctx context.Context, texts []string) ([]search.Vector, error) {
	if len(texts) == 0 {
		return []search.Vector{}, nil
	}

	vectors := make([]search.Vector, len(texts))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(b.parallelism)

	for start := 0; start < len(texts); start += b.batchSize {
		end := start + b.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			batch, err := b.encoder.Encode(ctx, texts[start:end])
			if err != nil {
				return fmt.Errorf("encode batch [%d:%d]: %w", start, end, err)
			}
			if len(batch) != end-start {
				return fmt.Errorf("%w: batch [%d:%d] returned %d vectors", search.ErrEncoding, start, end, len(batch))
			}

			copy(vectors[start:end], batch)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}
