package search

import "context"

// Encoder converts text into embedding vectors. The output dimension is
// fixed for the lifetime of the encoder; the same text always yields the
// same vector for the same model version. A single query and a bulk
// catalog build go through the same contract.
type Encoder interface {
	Encode(ctx context.Context, texts []string) ([]Vector, error)
}

// EncodeOne encodes a single text through an Encoder.
func EncodeOne(ctx context.Context, encoder Encoder, text string) (Vector, error) {
	vectors, err := encoder.Encode(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, ErrEncoding
	}
	return vectors[0], nil
}
