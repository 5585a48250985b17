package step

import (
	"github.com/hupe1980/shopflow/core"
	"github.com/hupe1980/shopflow/graph"
)

// MaxAttempts bounds the retrieval+evaluation retry loop per turn.
const MaxAttempts = 2

// Outcome labels used on the conditional edges of the canonical workflow.
const (
	outcomeSearch   = "search"
	outcomeFAQ      = "faq"
	outcomeEnd      = "end"
	outcomeGenerate = "generate"
	outcomeRetry    = "retry"
)

// WorkflowOptions configure the canonical workflow graph.
type WorkflowOptions struct {
	// MaxAttempts overrides the retry bound. Defaults to MaxAttempts.
	MaxAttempts int

	// Retrieval overrides applied to the retrieval step.
	Retrieval []func(o *RetrievalOptions)
}

// NewWorkflow wires the canonical shopping-assistant graph:
//
//	load_memory -> router -> { search -> evaluator (-> search on retry)
//	                         | faq } -> generator -> update_memory -> end
//
// The router's none route terminates the turn without a branch. The
// post-evaluation edge proceeds to generation on accept or once the attempt
// bound is reached, otherwise loops back to search with the original query.
func NewWorkflow(
	classifier core.Classifier,
	products core.Retriever,
	faq core.Retriever,
	judge core.Judge,
	generator core.Generator,
	optFns ...func(o *WorkflowOptions),
) (*graph.Graph, error) {
	opts := WorkflowOptions{
		MaxAttempts: MaxAttempts,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	routeCondition := graph.Condition{
		Outcomes: []string{outcomeSearch, outcomeFAQ, outcomeEnd},
		Decide: func(state core.State) string {
			switch state.Route {
			case core.RouteProductSearch:
				return outcomeSearch
			case core.RouteFAQ:
				return outcomeFAQ
			default:
				return outcomeEnd
			}
		},
	}

	retryCondition := graph.Condition{
		Outcomes: []string{outcomeGenerate, outcomeRetry},
		Decide: func(state core.State) string {
			if state.Judgment != nil && state.Judgment.Accepted {
				return outcomeGenerate
			}
			if state.Attempts >= opts.MaxAttempts {
				return outcomeGenerate
			}
			return outcomeRetry
		},
	}

	return graph.NewBuilder().
		AddStep(NewLoadMemory()).
		AddStep(NewRouter(classifier)).
		AddStep(NewRetrieval(products, generator, opts.Retrieval...)).
		AddStep(NewEvaluation(judge)).
		AddStep(NewFAQ(faq)).
		AddStep(NewResponse(generator)).
		AddStep(NewUpdateMemory()).
		SetEntry(LoadMemoryName).
		AddEdge(LoadMemoryName, RouterName).
		AddConditionalEdges(RouterName, routeCondition, map[string]string{
			outcomeSearch: RetrievalName,
			outcomeFAQ:    FAQName,
			outcomeEnd:    graph.End,
		}).
		AddEdge(RetrievalName, EvaluationName).
		AddConditionalEdges(EvaluationName, retryCondition, map[string]string{
			outcomeGenerate: ResponseName,
			outcomeRetry:    RetrievalName,
		}).
		AddEdge(FAQName, ResponseName).
		AddEdge(ResponseName, UpdateMemoryName).
		AddEdge(UpdateMemoryName, graph.End).
		Compile()
}
