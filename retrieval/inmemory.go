// Package retrieval provides core.Retriever implementations. The in-memory
// retriever here serves tests, examples and local development; the qdrant
// subpackage provides the production vector-search backend.
package retrieval

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/hupe1980/shopflow/core"
)

// InMemoryRetriever is a naive process-local Retriever over an append-only
// document set. Matching is keyword overlap: the score of a document is the
// fraction of query terms found in its content or metadata (case
// insensitive). Suitable only for tests and demos; swap for the Qdrant
// retriever for production retrieval.
//
// Concurrency: protected by RWMutex.
type InMemoryRetriever struct {
	mu   sync.RWMutex
	docs []core.Candidate
}

// NewInMemoryRetriever creates an empty in-memory retriever.
func NewInMemoryRetriever() *InMemoryRetriever {
	return &InMemoryRetriever{}
}

// Add appends documents to the retriever's corpus.
func (r *InMemoryRetriever) Add(docs ...core.Candidate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs = append(r.docs, docs...)
}

// Len returns the number of stored documents.
func (r *InMemoryRetriever) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.docs)
}

// Retrieve implements core.Retriever. Results are ordered by descending
// score; documents sharing no terms with the query are omitted. An empty
// query matches nothing.
func (r *InMemoryRetriever) Retrieve(_ context.Context, query string, limit int) ([]core.Candidate, error) {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 || limit <= 0 {
		return []core.Candidate{}, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	scored := make([]core.Candidate, 0, len(r.docs))
	for _, doc := range r.docs {
		haystack := strings.ToLower(doc.Content)
		for _, v := range doc.Metadata {
			if s, ok := v.(string); ok {
				haystack += " " + strings.ToLower(s)
			}
		}

		hits := 0
		for _, term := range terms {
			if strings.Contains(haystack, term) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}

		match := doc
		match.Score = float64(hits) / float64(len(terms))
		scored = append(scored, match)
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

var _ core.Retriever = (*InMemoryRetriever)(nil)
