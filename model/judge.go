package model

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hupe1980/shopflow/core"
	"github.com/hupe1980/shopflow/internal/util"
)

// resultReview is the structured verdict shape requested from the model.
type resultReview struct {
	IsValid   bool   `json:"is_valid" description:"Whether the search results meet the customer's requirements"`
	Reasoning string `json:"reasoning" description:"A brief explanation for the is_valid decision"`
}

const judgePromptTemplate = `You are a strict relevance reviewer for an e-commerce shopping assistant.
Decide whether the retrieved results actually satisfy the customer's request,
taking the recent conversation into account.

Customer request: "{{.user_query}}"

Recent conversation:
{{.prior_conversation}}

Retrieved results (JSON):
{{.search_results}}

Mark is_valid true only if at least one result genuinely matches what the
customer asked for (category, attributes and any price constraints).`

// Judge adapts a Model to the core.Judge collaborator, producing a
// boolean-plus-rationale verdict over a candidate set.
type Judge struct {
	model Model
}

// NewJudge creates a Judge backed by the given model.
func NewJudge(m Model) *Judge {
	return &Judge{model: m}
}

// Judge implements core.Judge. Errors are returned raw; the evaluation step
// owns the fail-closed policy.
func (j *Judge) Judge(ctx context.Context, query, recentContext string, candidates []core.Candidate) (core.Judgment, error) {
	resultsJSON, err := json.Marshal(candidates)
	if err != nil {
		return core.Judgment{}, fmt.Errorf("marshal candidates: %w", err)
	}

	prompt, err := util.RenderTemplate(judgePromptTemplate, map[string]any{
		"user_query":         query,
		"prior_conversation": recentContext,
		"search_results":     string(resultsJSON),
	})
	if err != nil {
		return core.Judgment{}, fmt.Errorf("render prompt: %w", err)
	}

	review, err := Structured[resultReview](ctx, j.model, prompt)
	if err != nil {
		return core.Judgment{}, err
	}

	return core.Judgment{Accepted: review.IsValid, Rationale: review.Reasoning}, nil
}
