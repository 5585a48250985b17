package step

import (
	"context"

	"github.com/hupe1980/shopflow/core"
)

// FAQName is the FAQ step's name in the workflow graph.
const FAQName = "faq"

// FAQLimit is the number of FAQ entries retrieved per question.
const FAQLimit = 3

// FAQ answers store/policy questions by retrieving the closest FAQ entries
// and marking them accepted without evaluation; the response step renders
// them directly. A dedicated retriever keeps FAQ entries in their own
// collection, separate from products.
type FAQ struct {
	retriever core.Retriever
}

// NewFAQ creates the FAQ step backed by the given retriever.
func NewFAQ(retriever core.Retriever) *FAQ {
	return &FAQ{retriever: retriever}
}

// Name implements graph.Step.
func (s *FAQ) Name() string { return FAQName }

// Run implements graph.Step. Backend failures degrade to an empty set, which
// the response step renders as the fixed "no relevant information" reply.
func (s *FAQ) Run(ctx context.Context, state core.State) (core.Delta, error) {
	results, err := s.retriever.Retrieve(ctx, state.LastUserText(), FAQLimit)
	if err != nil || results == nil {
		results = []core.Candidate{}
	}

	return core.Delta{
		Candidates: core.CandidatesPtr(results),
		Accepted:   core.CandidatesPtr(results),
	}, nil
}
