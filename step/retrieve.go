package step

import (
	"context"

	"github.com/hupe1980/shopflow/core"
	"github.com/hupe1980/shopflow/internal/util"
)

// RetrievalName is the retrieval step's name in the workflow graph.
const RetrievalName = "search"

// RetrievalLimit is the fixed result-count ceiling passed to the retriever.
const RetrievalLimit = 10

// FallbackQuery is issued when a vague query cannot be rewritten. It keeps
// the turn alive with a generic search instead of failing it.
const FallbackQuery = "popular products"

const rewritePromptTemplate = `You are an e-commerce search assistant. The user has made a request that
needs clarification using conversation context.

Conversation History:
{{.conversation_history}}

Current Request: "{{.query}}"

Instructions:
1. Analyze the conversation history to understand what products were previously discussed
2. If the current request is vague (like "something else" or "cheaper"), understand what the user means in context
3. Create a specific search query that addresses the user's intent

Respond ONLY with the refined search query, nothing else.`

// RetrievalOptions configure the retrieval step.
type RetrievalOptions struct {
	// Matcher decides when a query needs context-grounded rewriting.
	// Defaults to the built-in bilingual pattern set.
	Matcher *VagueMatcher

	// Limit is the result-count ceiling per retrieval. Defaults to
	// RetrievalLimit.
	Limit int
}

// Retrieval obtains ranked candidates for the user's query, rewriting vague
// queries against the recent context first. Backend failures degrade to an
// empty candidate set so the normal "no results" path handles them; only the
// first attempt rewrites — retries re-issue the original query verbatim.
type Retrieval struct {
	retriever core.Retriever
	generator core.Generator
	opts      RetrievalOptions
}

// NewRetrieval creates the retrieval step. The generator is used solely for
// query rewriting and may be nil, which disables rewriting.
func NewRetrieval(retriever core.Retriever, generator core.Generator, optFns ...func(o *RetrievalOptions)) *Retrieval {
	opts := RetrievalOptions{
		Matcher: DefaultVagueMatcher(),
		Limit:   RetrievalLimit,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Retrieval{retriever: retriever, generator: generator, opts: opts}
}

// Name implements graph.Step.
func (s *Retrieval) Name() string { return RetrievalName }

// Run implements graph.Step. Candidates are replaced wholesale each attempt.
func (s *Retrieval) Run(ctx context.Context, state core.State) (core.Delta, error) {
	query := state.LastUserText()

	if state.Attempts == 0 {
		query = s.resolveQuery(ctx, query, state.RecentContext)
	}

	candidates, err := s.retriever.Retrieve(ctx, query, s.opts.Limit)
	if err != nil {
		candidates = []core.Candidate{}
	}
	if candidates == nil {
		candidates = []core.Candidate{}
	}

	return core.Delta{Candidates: core.CandidatesPtr(candidates)}, nil
}

// resolveQuery rewrites a vague query into a concrete, context-grounded one.
// Non-vague queries and turns without context pass through verbatim; a rewrite
// failure substitutes the fixed fallback query.
func (s *Retrieval) resolveQuery(ctx context.Context, query, recentContext string) string {
	if s.generator == nil || recentContext == "" || !s.opts.Matcher.Match(query) {
		return query
	}

	prompt, err := util.RenderTemplate(rewritePromptTemplate, map[string]any{
		"conversation_history": recentContext,
		"query":                query,
	})
	if err != nil {
		return FallbackQuery
	}

	rewritten, err := s.generator.Generate(ctx, prompt)
	if err != nil || rewritten == "" {
		return FallbackQuery
	}
	return rewritten
}
