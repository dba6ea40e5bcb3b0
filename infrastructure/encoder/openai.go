package encoder

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/catalogmesh/tablequery/domain/search"
)

// errEmbeddingCountMismatch indicates the API returned fewer embedding
// vectors than requested. This is retryable because transient upstream
// issues (e.g. rate-limiting behind a 200 status) can produce partial
// responses.
var errEmbeddingCountMismatch = errors.New("embedding response count mismatch")

// OpenAI encodes text through an OpenAI-compatible embeddings API with
// exponential backoff on retryable failures.
type OpenAI struct {
	client        *openai.Client
	model         string
	maxRetries    int
	initialDelay  time.Duration
	backoffFactor float64
}

// OpenAIOption is a functional option for the OpenAI encoder.
type OpenAIOption func(*OpenAI)

// WithModel sets the embedding model.
func WithModel(model string) OpenAIOption {
	return func(e *OpenAI) { e.model = model }
}

// WithMaxRetries sets the maximum retry count.
func WithMaxRetries(n int) OpenAIOption {
	return func(e *OpenAI) { e.maxRetries = n }
}

// WithInitialDelay sets the initial retry delay.
func WithInitialDelay(d time.Duration) OpenAIOption {
	return func(e *OpenAI) { e.initialDelay = d }
}

// WithBackoffFactor sets the backoff multiplier.
func WithBackoffFactor(f float64) OpenAIOption {
	return func(e *OpenAI) { e.backoffFactor = f }
}

// NewOpenAI creates an OpenAI encoder.
func NewOpenAI(apiKey string, opts ...OpenAIOption) *OpenAI {
	e := &OpenAI{
		client:        openai.NewClient(apiKey),
		model:         "text-embedding-3-small",
		maxRetries:    5,
		initialDelay:  2 * time.Second,
		backoffFactor: 2.0,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewOpenAIWithBaseURL creates an OpenAI encoder against a compatible API
// at a custom base URL.
func NewOpenAIWithBaseURL(apiKey, baseURL string, opts ...OpenAIOption) *OpenAI {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	e := &OpenAI{
		client:        openai.NewClientWithConfig(config),
		model:         "text-embedding-3-small",
		maxRetries:    5,
		initialDelay:  2 * time.Second,
		backoffFactor: 2.0,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encode generates embeddings for the given texts in a single API call.
func (e *OpenAI) Encode(ctx context.Context, texts []string) ([]search.Vector, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: no texts to encode", search.ErrEncoding)
	}
	for i, text := range texts {
		if text == "" {
			return nil, fmt.Errorf("%w: empty text at position %d", search.ErrEncoding, i)
		}
	}

	req := openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: texts,
	}

	var resp openai.EmbeddingResponse
	err := e.withRetry(ctx, func() error {
		var callErr error
		resp, callErr = e.client.CreateEmbeddings(ctx, req)
		if callErr != nil {
			return callErr
		}
		if len(resp.Data) != len(texts) {
			return fmt.Errorf("%w: got %d vectors for %d texts", errEmbeddingCountMismatch, len(resp.Data), len(texts))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", search.ErrEncoding, err.Error())
	}

	vectors := make([]search.Vector, len(resp.Data))
	for i, data := range resp.Data {
		vec := make(search.Vector, len(data.Embedding))
		for j, v := range data.Embedding {
			vec[j] = float64(v)
		}
		vectors[i] = vec
	}
	return vectors, nil
}

// withRetry executes the function with exponential backoff retry.
func (e *OpenAI) withRetry(ctx context.Context, fn func() error) error {
	delay := e.initialDelay
	var lastErr error

	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if !isRetryable(lastErr) {
			return lastErr
		}

		if attempt < e.maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay = time.Duration(float64(delay) * e.backoffFactor)
			}
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// isRetryable determines if an error should be retried.
func isRetryable(err error) bool {
	// Partial embedding responses are retryable; upstream providers can
	// return 200 with missing data under transient load conditions.
	if errors.Is(err, errEmbeddingCountMismatch) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		// Network errors are retryable
		return true
	}

	return false
}

var _ search.Encoder = (*OpenAI)(nil)
