package step

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/shopflow/core"
)

func TestEvaluation(t *testing.T) {
	t.Run("empty candidates short-circuit without calling the judge", func(t *testing.T) {
		judge := &mockJudge{verdicts: []core.Judgment{{Accepted: true}}}
		s := NewEvaluation(judge)

		state := core.NewState(nil, "red t-shirt")
		state = state.Apply(core.Delta{Candidates: core.CandidatesPtr([]core.Candidate{})})

		delta, err := s.Run(context.Background(), state)
		require.NoError(t, err)
		assert.Zero(t, judge.calls)
		require.NotNil(t, delta.Judgment)
		assert.False(t, delta.Judgment.Accepted)
		require.NotNil(t, delta.Accepted)
		assert.Empty(t, *delta.Accepted)
		assert.Equal(t, 1, delta.AttemptsAdd)
	})

	t.Run("accept yields the full candidate set", func(t *testing.T) {
		judge := &mockJudge{verdicts: []core.Judgment{{Accepted: true, Rationale: "good match"}}}
		s := NewEvaluation(judge)

		state := core.NewState(nil, "red t-shirt")
		state = state.Apply(core.Delta{Candidates: core.CandidatesPtr(products(5))})

		delta, err := s.Run(context.Background(), state)
		require.NoError(t, err)
		require.NotNil(t, delta.Accepted)
		assert.Len(t, *delta.Accepted, 5)
		assert.Equal(t, 1, delta.AttemptsAdd)
	})

	t.Run("reject yields an empty accepted set", func(t *testing.T) {
		judge := &mockJudge{verdicts: []core.Judgment{{Accepted: false, Rationale: "wrong category"}}}
		s := NewEvaluation(judge)

		state := core.NewState(nil, "winter coat")
		state = state.Apply(core.Delta{Candidates: core.CandidatesPtr(products(5))})

		delta, err := s.Run(context.Background(), state)
		require.NoError(t, err)
		require.NotNil(t, delta.Accepted)
		assert.Empty(t, *delta.Accepted)
		assert.Equal(t, "wrong category", delta.Judgment.Rationale)
	})

	t.Run("judge sees at most the candidate cap", func(t *testing.T) {
		judge := &mockJudge{verdicts: []core.Judgment{{Accepted: true}}}
		s := NewEvaluation(judge)

		state := core.NewState(nil, "red t-shirt")
		state = state.Apply(core.Delta{Candidates: core.CandidatesPtr(products(15))})

		delta, err := s.Run(context.Background(), state)
		require.NoError(t, err)
		require.Len(t, judge.seen, 1)
		assert.Len(t, judge.seen[0], JudgeCandidateCap)
		// The full set is still accepted, only the judged view is capped.
		assert.Len(t, *delta.Accepted, 15)
	})

	t.Run("judge failure fails closed", func(t *testing.T) {
		judge := &mockJudge{err: errors.New("provider down")}
		s := NewEvaluation(judge)

		state := core.NewState(nil, "red t-shirt")
		state = state.Apply(core.Delta{Candidates: core.CandidatesPtr(products(3))})

		delta, err := s.Run(context.Background(), state)
		require.NoError(t, err)
		require.NotNil(t, delta.Judgment)
		assert.False(t, delta.Judgment.Accepted)
		assert.Contains(t, delta.Judgment.Rationale, "provider down")
		assert.Empty(t, *delta.Accepted)
		assert.Equal(t, 1, delta.AttemptsAdd)
	})
}

func TestFAQ(t *testing.T) {
	t.Run("retrieves and auto-accepts faq entries", func(t *testing.T) {
		entries := []core.Candidate{
			{Content: "Returns are accepted within 14 days."},
			{Content: "Shipping takes 2-4 business days."},
		}
		retriever := &mockRetriever{results: entries}
		s := NewFAQ(retriever)

		delta, err := s.Run(context.Background(), core.NewState(nil, "what is your return policy?"))
		require.NoError(t, err)
		assert.Equal(t, []int{FAQLimit}, retriever.limits)
		require.NotNil(t, delta.Candidates)
		require.NotNil(t, delta.Accepted)
		assert.Equal(t, entries, *delta.Accepted)
	})

	t.Run("backend failure degrades to an empty set", func(t *testing.T) {
		retriever := &mockRetriever{err: errors.New("connection refused")}
		s := NewFAQ(retriever)

		delta, err := s.Run(context.Background(), core.NewState(nil, "do you ship abroad?"))
		require.NoError(t, err)
		require.NotNil(t, delta.Accepted)
		assert.Empty(t, *delta.Accepted)
	})
}
