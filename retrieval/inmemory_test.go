package retrieval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/shopflow/core"
)

func TestInMemoryRetriever(t *testing.T) {
	r := NewInMemoryRetriever()
	r.Add(
		core.Candidate{Content: "Red cotton t-shirt, regular fit", Metadata: map[string]any{"title": "Red Tee"}},
		core.Candidate{Content: "Blue denim jeans, slim fit", Metadata: map[string]any{"title": "Blue Jeans"}},
		core.Candidate{Content: "Red running shoes, lightweight", Metadata: map[string]any{"title": "Red Runner"}},
	)

	t.Run("ranks by term overlap", func(t *testing.T) {
		results, err := r.Retrieve(context.Background(), "red t-shirt", 10)
		require.NoError(t, err)
		require.NotEmpty(t, results)
		assert.Equal(t, "Red Tee", results[0].Title())
		for _, c := range results {
			assert.Greater(t, c.Score, 0.0)
		}
	})

	t.Run("matches metadata strings", func(t *testing.T) {
		results, err := r.Retrieve(context.Background(), "jeans", 10)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Blue Jeans", results[0].Title())
	})

	t.Run("respects the limit", func(t *testing.T) {
		results, err := r.Retrieve(context.Background(), "red", 1)
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("no overlap yields empty set", func(t *testing.T) {
		results, err := r.Retrieve(context.Background(), "winter coat", 10)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("empty query matches nothing", func(t *testing.T) {
		results, err := r.Retrieve(context.Background(), "", 10)
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}
