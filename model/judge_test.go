package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/shopflow/core"
)

func TestJudge(t *testing.T) {
	candidates := []core.Candidate{
		{Content: "Trail running shoes, waterproof", Metadata: map[string]any{"title": "Trail Runner X"}, Score: 0.91},
	}

	t.Run("accepts matching results", func(t *testing.T) {
		m := NewMockModel("test")
		m.SetFallback(`{"is_valid": true, "reasoning": "waterproof trail shoes match"}`)

		j := NewJudge(m)
		verdict, err := j.Judge(context.Background(), "waterproof running shoes", "", candidates)
		require.NoError(t, err)
		assert.True(t, verdict.Accepted)
		assert.Equal(t, "waterproof trail shoes match", verdict.Rationale)
	})

	t.Run("rejects mismatched results", func(t *testing.T) {
		m := NewMockModel("test")
		m.SetFallback(`{"is_valid": false, "reasoning": "no winter coats in results"}`)

		j := NewJudge(m)
		verdict, err := j.Judge(context.Background(), "winter coat", "", candidates)
		require.NoError(t, err)
		assert.False(t, verdict.Accepted)
	})

	t.Run("model failure returned raw", func(t *testing.T) {
		m := NewMockModel("test")
		m.FailWith(errors.New("provider down"))

		j := NewJudge(m)
		_, err := j.Judge(context.Background(), "winter coat", "", candidates)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, core.ErrClassification)
	})

	t.Run("prompt carries query, context and results", func(t *testing.T) {
		m := NewMockModel("test")
		m.SetFallback(`{"is_valid": true, "reasoning": "ok"}`)

		j := NewJudge(m)
		_, err := j.Judge(context.Background(), "trail shoes", "USER: I hike a lot", candidates)
		require.NoError(t, err)

		calls := m.Calls()
		require.Len(t, calls, 1)
		prompt := calls[0].Contents[0].Text
		assert.Contains(t, prompt, "trail shoes")
		assert.Contains(t, prompt, "USER: I hike a lot")
		assert.Contains(t, prompt, "Trail Runner X")
	})
}
