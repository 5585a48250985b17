package shopflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/shopflow/core"
)

type stubClassifier struct {
	route core.Route
	err   error
}

func (s stubClassifier) Classify(context.Context, string) (core.Route, error) {
	return s.route, s.err
}

type stubRetriever struct {
	results []core.Candidate
}

func (s stubRetriever) Retrieve(context.Context, string, int) ([]core.Candidate, error) {
	return s.results, nil
}

type stubJudge struct {
	verdict core.Judgment
}

func (s stubJudge) Judge(context.Context, string, string, []core.Candidate) (core.Judgment, error) {
	return s.verdict, nil
}

type stubGenerator struct {
	reply string
	err   error
}

func (s stubGenerator) Generate(context.Context, string) (string, error) {
	return s.reply, s.err
}

func productSet() []core.Candidate {
	return []core.Candidate{
		{Content: "Red cotton t-shirt", Metadata: map[string]any{"title": "Red Tee", "sale_price": 250}},
		{Content: "Blue cotton t-shirt", Metadata: map[string]any{"title": "Blue Tee", "sale_price": 270}},
		{Content: "Green hoodie", Metadata: map[string]any{"title": "Green Hoodie", "sale_price": 500}},
	}
}

func newTestFlow(t *testing.T, classifier core.Classifier, retriever core.Retriever, judge core.Judge, generator core.Generator) *Shopflow {
	t.Helper()
	flow, err := New(classifier, retriever, stubRetriever{}, judge, generator)
	require.NoError(t, err)
	return flow
}

func TestChat(t *testing.T) {
	t.Run("product turn surfaces mentioned candidates", func(t *testing.T) {
		flow := newTestFlow(t,
			stubClassifier{route: core.RouteProductSearch},
			stubRetriever{results: productSet()},
			stubJudge{verdict: core.Judgment{Accepted: true}},
			stubGenerator{reply: "Try the Red Tee or the Blue Tee!"},
		)

		result, err := flow.Chat(context.Background(), "", "red t-shirt under 300")
		require.NoError(t, err)
		assert.NotEmpty(t, result.SessionID)
		assert.Equal(t, core.RouteProductSearch, result.Route)
		require.Len(t, result.Products, 2)
		assert.Equal(t, "Red Tee", result.Products[0].Title())
		assert.Equal(t, "Blue Tee", result.Products[1].Title())
	})

	t.Run("session history accumulates across turns", func(t *testing.T) {
		flow := newTestFlow(t,
			stubClassifier{route: core.RouteProductSearch},
			stubRetriever{results: productSet()},
			stubJudge{verdict: core.Judgment{Accepted: true}},
			stubGenerator{reply: "How about the Green Hoodie?"},
		)

		first, err := flow.Chat(context.Background(), "", "show me hoodies")
		require.NoError(t, err)

		second, err := flow.Chat(context.Background(), first.SessionID, "anything warmer?")
		require.NoError(t, err)
		assert.Equal(t, first.SessionID, second.SessionID)

		sess, err := flow.Sessions().Get(first.SessionID)
		require.NoError(t, err)
		assert.Len(t, sess.Messages, 4)
	})

	t.Run("fatal turn error leaves history untouched", func(t *testing.T) {
		flow := newTestFlow(t,
			stubClassifier{route: core.RouteProductSearch},
			stubRetriever{results: productSet()},
			stubJudge{verdict: core.Judgment{Accepted: true}},
			stubGenerator{err: errors.New("provider down")},
		)

		_, err := flow.Chat(context.Background(), "s1", "red t-shirt")
		require.Error(t, err)

		_, err = flow.Sessions().Get("s1")
		assert.Error(t, err, "failed first turn must not create the session")
	})

	t.Run("no-op route returns the default reply", func(t *testing.T) {
		flow := newTestFlow(t,
			stubClassifier{route: core.RouteNone},
			stubRetriever{},
			stubJudge{},
			stubGenerator{reply: "unused"},
		)

		result, err := flow.Chat(context.Background(), "", "tell me a joke")
		require.NoError(t, err)
		assert.Equal(t, DefaultReply, result.Reply)
		assert.Empty(t, result.Products)

		sess, err := flow.Sessions().Get(result.SessionID)
		require.NoError(t, err)
		assert.Equal(t, DefaultReply, sess.Messages[len(sess.Messages)-1].Text)
	})

	t.Run("faq turn surfaces no products", func(t *testing.T) {
		faqRetriever := stubRetriever{results: []core.Candidate{{Content: "Returns within 14 days."}}}
		flow, err := New(
			stubClassifier{route: core.RouteFAQ},
			stubRetriever{},
			faqRetriever,
			stubJudge{},
			stubGenerator{reply: "You can return items within 14 days."},
		)
		require.NoError(t, err)

		result, err := flow.Chat(context.Background(), "", "what is your return policy?")
		require.NoError(t, err)
		assert.Equal(t, core.RouteFAQ, result.Route)
		assert.Empty(t, result.Products)
	})
}

func TestCorrelate(t *testing.T) {
	candidates := productSet()

	t.Run("matches titles case-insensitively", func(t *testing.T) {
		surfaced := Correlate(core.RouteProductSearch, "I recommend the RED TEE.", candidates)
		require.Len(t, surfaced, 1)
		assert.Equal(t, "Red Tee", surfaced[0].Title())
	})

	t.Run("falls back to all candidates when none match", func(t *testing.T) {
		surfaced := Correlate(core.RouteProductSearch, "Here are some great options for you.", candidates)
		assert.Equal(t, candidates, surfaced)
	})

	t.Run("faq route surfaces nothing", func(t *testing.T) {
		surfaced := Correlate(core.RouteFAQ, "The Red Tee is great.", candidates)
		assert.Empty(t, surfaced)
	})

	t.Run("empty candidate set stays empty", func(t *testing.T) {
		surfaced := Correlate(core.RouteProductSearch, "No products found.", nil)
		assert.Empty(t, surfaced)
	})
}
