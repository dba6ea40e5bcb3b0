package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/catalogmesh/tablequery/domain/search"
)

// axisEncoder is a deterministic test encoder: dimension i of the output
// counts occurrences of axes[i] in the lowercased text. Texts that mention
// the same axis words get similar vectors, which makes ranking assertions
// exact without a real model.
type axisEncoder struct {
	axes []string
}

func (e axisEncoder) Encode(ctx context.Context, texts []string) ([]search.Vector, error) {
	vectors := make([]search.Vector, len(texts))
	for i, text := range texts {
		lower := strings.ToLower(text)
		v := make(search.Vector, len(e.axes)+1)
		for d, axis := range e.axes {
			v[d] = float64(strings.Count(lower, axis))
		}
		// Constant component keeps vectors non-zero for unrelated text.
		v[len(e.axes)] = 0.1
		vectors[i] = v
	}
	return vectors, nil
}

const testCatalog = `[
  {
    "name": "users",
    "description": "Registered user accounts",
    "columns": [
      {"name": "id", "description": "Surrogate key", "dataTypeDisplay": "bigint", "isPrimaryKey": true},
      {"name": "email", "description": "Login email address", "dataTypeDisplay": "varchar"}
    ]
  },
  {
    "name": "orders",
    "description": "Customer purchase orders",
    "columns": [
      {"name": "id", "description": "Surrogate key", "isPrimaryKey": true},
      {"name": "total", "description": "Order total amount", "dataTypeDisplay": "numeric"}
    ]
  },
  {
    "name": "inventory",
    "description": "Warehouse stock levels",
    "columns": [
      {"name": "sku", "description": "Stock keeping unit", "isPrimaryKey": true}
    ]
  }
]`

// testAxes covers the vocabulary of testCatalog so each table projects onto
// its own dimension.
var testAxes = []string{"users", "orders", "inventory", "purchase", "stock"}

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
