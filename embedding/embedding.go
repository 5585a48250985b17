// Package embedding defines the text-to-vector interface used by the vector
// retrieval and ingestion boundaries, plus provider implementations.
package embedding

import "context"

// Embedder converts texts into dense vectors. Implementations own timeout and
// batching policy; callers only propagate the context.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
