package step

import (
	"context"

	"github.com/hupe1980/shopflow/core"
)

// EvaluationName is the evaluation step's name in the workflow graph.
const EvaluationName = "evaluator"

// JudgeCandidateCap bounds how many candidates are handed to the judge, to
// keep the prompt size bounded.
const JudgeCandidateCap = 10

// Evaluation decides whether the current candidate set satisfies the user's
// request. Empty candidate sets short-circuit to a rejection without calling
// the judge; judge failures fail closed with the error text as rationale.
// Every invocation increments the attempt counter exactly once.
type Evaluation struct {
	judge core.Judge
}

// NewEvaluation creates the evaluation step backed by the given judge.
func NewEvaluation(judge core.Judge) *Evaluation {
	return &Evaluation{judge: judge}
}

// Name implements graph.Step.
func (s *Evaluation) Name() string { return EvaluationName }

// Run implements graph.Step. Accepted is set to the full candidate list on
// accept and to an empty list otherwise; partial filtering happens later at
// the boundary.
func (s *Evaluation) Run(ctx context.Context, state core.State) (core.Delta, error) {
	if len(state.Candidates) == 0 {
		return core.Delta{
			Judgment:    &core.Judgment{Accepted: false},
			Accepted:    core.CandidatesPtr([]core.Candidate{}),
			AttemptsAdd: 1,
		}, nil
	}

	capped := state.Candidates
	if len(capped) > JudgeCandidateCap {
		capped = capped[:JudgeCandidateCap]
	}

	verdict, err := s.judge.Judge(ctx, state.LastUserText(), state.RecentContext, capped)
	if err != nil {
		verdict = core.Judgment{Accepted: false, Rationale: "error during evaluation: " + err.Error()}
	}

	accepted := []core.Candidate{}
	if verdict.Accepted {
		accepted = state.Candidates
	}

	return core.Delta{
		Judgment:    &verdict,
		Accepted:    core.CandidatesPtr(accepted),
		AttemptsAdd: 1,
	}, nil
}
