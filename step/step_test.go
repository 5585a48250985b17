package step

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/shopflow/core"
)

// Deterministic collaborator doubles shared by the step tests.

type mockClassifier struct {
	route core.Route
	err   error
	calls []string
}

func (m *mockClassifier) Classify(_ context.Context, text string) (core.Route, error) {
	m.calls = append(m.calls, text)
	if m.err != nil {
		return core.RouteNone, m.err
	}
	return m.route, nil
}

type mockRetriever struct {
	results []core.Candidate
	err     error
	queries []string
	limits  []int
}

func (m *mockRetriever) Retrieve(_ context.Context, query string, limit int) ([]core.Candidate, error) {
	m.queries = append(m.queries, query)
	m.limits = append(m.limits, limit)
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

type mockJudge struct {
	verdicts []core.Judgment
	err      error
	calls    int
	seen     [][]core.Candidate
}

func (m *mockJudge) Judge(_ context.Context, _, _ string, candidates []core.Candidate) (core.Judgment, error) {
	m.seen = append(m.seen, candidates)
	idx := m.calls
	m.calls++
	if m.err != nil {
		return core.Judgment{}, m.err
	}
	if idx >= len(m.verdicts) {
		idx = len(m.verdicts) - 1
	}
	return m.verdicts[idx], nil
}

type mockGenerator struct {
	reply   string
	replyFn func(prompt string) string
	err     error
	prompts []string
}

func (m *mockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	if m.replyFn != nil {
		return m.replyFn(prompt), nil
	}
	return m.reply, nil
}

// echoGenerator replies differently depending on whether it is asked to
// rewrite a query or to render a response, so workflow tests can use a single
// generator for both concerns.
func echoGenerator(rewrite, reply string) *mockGenerator {
	return &mockGenerator{replyFn: func(prompt string) string {
		if strings.Contains(prompt, "refined search query") {
			return rewrite
		}
		return reply
	}}
}

func products(n int) []core.Candidate {
	out := make([]core.Candidate, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, core.Candidate{
			Content: fmt.Sprintf("product %d", i+1),
			Metadata: map[string]any{
				"title":      fmt.Sprintf("Product %d", i+1),
				"sale_price": 100 + i,
				"currency":   "EGP",
			},
		})
	}
	return out
}
