package qdrant

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"

	"github.com/hupe1980/shopflow/core"
	"github.com/hupe1980/shopflow/embedding"
)

// Retriever implements core.Retriever over one Qdrant collection. The query
// text is embedded and matched against stored vectors; payloads convert back
// into candidates.
type Retriever struct {
	store      *Store
	embedder   embedding.Embedder
	collection string
}

// NewRetriever creates a retriever over the given collection.
func NewRetriever(store *Store, embedder embedding.Embedder, collection string) *Retriever {
	return &Retriever{store: store, embedder: embedder, collection: collection}
}

// Retrieve implements core.Retriever. Results keep Qdrant's score ordering.
func (r *Retriever) Retrieve(ctx context.Context, query string, limit int) ([]core.Candidate, error) {
	if limit <= 0 {
		return []core.Candidate{}, nil
	}

	vectors, err := r.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedder returned %d vectors for one query", len(vectors))
	}

	ctx, cancel := context.WithTimeout(ctx, r.store.config.RequestTimeout)
	defer cancel()

	points, err := r.store.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: r.collection,
		Query:          qdrant.NewQuery(vectors[0]...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", r.collection, err)
	}

	candidates := make([]core.Candidate, 0, len(points))
	for _, p := range points {
		candidate := fromPayload(p.GetPayload())
		candidate.Score = float64(p.GetScore())
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

var _ core.Retriever = (*Retriever)(nil)
