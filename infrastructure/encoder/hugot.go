// Package encoder provides embedding encoder implementations: a local ONNX
// model via hugot and a remote OpenAI-compatible API.
package encoder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"

	"github.com/catalogmesh/tablequery/domain/search"
)

const hugotBatchMax = 10

// ortSingleton holds the process-wide ONNX Runtime session and pipeline.
// ORT only allows one active session per process, so all Hugot instances
// must share it. The mutex serializes both initialization and inference
// (ORT is not thread-safe).
var ortSingleton struct {
	session  *hugot.Session
	pipeline *pipelines.FeatureExtractionPipeline
	mu       sync.Mutex
	ready    bool
}

// Hugot encodes text with a local sentence-embedding model loaded from a
// model directory under cacheDir. The pipeline normalizes its output, so
// the vectors come back unit-length and deterministic for a given model
// version.
type Hugot struct {
	cacheDir string
}

// NewHugot creates a Hugot encoder that looks for model files in cacheDir.
func NewHugot(cacheDir string) *Hugot {
	return &Hugot{cacheDir: cacheDir}
}

// Available reports whether a usable model directory exists under cacheDir.
func (h *Hugot) Available() bool {
	_, err := h.modelPath()
	return err == nil
}

func (h *Hugot) initialize() error {
	ortSingleton.mu.Lock()
	defer ortSingleton.mu.Unlock()

	if ortSingleton.ready {
		return nil
	}

	session, err := newHugotSession()
	if err != nil {
		return fmt.Errorf("create hugot session: %w", err)
	}

	modelPath, err := h.modelPath()
	if err != nil {
		_ = session.Destroy()
		return err
	}

	config := hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "catalog-embeddings",
		Options: []hugot.FeatureExtractionOption{
			pipelines.WithNormalization(),
		},
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		_ = session.Destroy()
		return fmt.Errorf("create feature extraction pipeline: %w", err)
	}

	ortSingleton.session = session
	ortSingleton.pipeline = pipeline
	ortSingleton.ready = true
	return nil
}

// modelPath looks for a model subdirectory containing tokenizer.json inside
// cacheDir.
func (h *Hugot) modelPath() (string, error) {
	entries, err := os.ReadDir(h.cacheDir)
	if err != nil {
		return "", fmt.Errorf("read model directory %s: %w", h.cacheDir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		candidate := filepath.Join(h.cacheDir, entry.Name())
		if _, statErr := os.Stat(filepath.Join(candidate, "tokenizer.json")); statErr == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no model subdirectory with tokenizer.json found in %s", h.cacheDir)
}

// Encode generates embeddings for the given texts using the local model.
// Texts are run through the pipeline in chunks, so one call can carry a
// whole catalog or a single query. Empty input is an encoding error.
func (h *Hugot) Encode(ctx context.Context, texts []string) ([]search.Vector, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: no texts to encode", search.ErrEncoding)
	}
	for i, text := range texts {
		if text == "" {
			return nil, fmt.Errorf("%w: empty text at position %d", search.ErrEncoding, i)
		}
	}

	if err := h.initialize(); err != nil {
		return nil, fmt.Errorf("%w: initialize hugot: %s", search.ErrEncoding, err.Error())
	}

	vectors := make([]search.Vector, 0, len(texts))
	for start := 0; start < len(texts); start += hugotBatchMax {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := start + hugotBatchMax
		if end > len(texts) {
			end = len(texts)
		}

		chunk, err := h.encodeChunk(texts[start:end])
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, chunk...)
	}

	return vectors, nil
}

func (h *Hugot) encodeChunk(texts []string) ([]search.Vector, error) {
	// Hold the singleton mutex for inference; ORT is not thread-safe.
	ortSingleton.mu.Lock()
	defer ortSingleton.mu.Unlock()

	result, err := ortSingleton.pipeline.RunPipeline(texts)
	if err != nil {
		return nil, fmt.Errorf("%w: run embedding pipeline: %s", search.ErrEncoding, err.Error())
	}
	if len(result.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts", search.ErrEncoding, len(result.Embeddings), len(texts))
	}

	vectors := make([]search.Vector, len(result.Embeddings))
	for i, vec32 := range result.Embeddings {
		vec := make(search.Vector, len(vec32))
		for j, v := range vec32 {
			vec[j] = float64(v)
		}
		vectors[i] = vec
	}
	return vectors, nil
}

// Close is a no-op. The ONNX Runtime session is process-global and shared
// across all Hugot instances; it is cleaned up when the process exits.
func (h *Hugot) Close() error {
	return nil
}

var _ search.Encoder = (*Hugot)(nil)
