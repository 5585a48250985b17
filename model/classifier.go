package model

import (
	"context"
	"fmt"

	"github.com/hupe1980/shopflow/core"
	"github.com/hupe1980/shopflow/internal/util"
)

// routeQuery is the structured output shape requested from the model when
// classifying intent.
type routeQuery struct {
	Route string `json:"route" description:"The intent keyword to route to: product_search, faq or none"`
}

const classifierPromptTemplate = `You are the intent router of an e-commerce shopping assistant.
Classify the customer's latest message into exactly one intent:

- "product_search": the customer is looking for products, prices, alternatives or recommendations.
- "faq": the customer asks about policies, shipping, returns, payment or the store itself.
- "none": anything else (greetings, small talk, unrelated requests).

Customer message: "{{.user_question}}"`

// Classifier adapts a Model to the core.Classifier collaborator using a
// one-shot structured classification. It has no internal state and performs
// no retries; an error here is turn-fatal by contract.
type Classifier struct {
	model Model
}

// NewClassifier creates a Classifier backed by the given model.
func NewClassifier(m Model) *Classifier {
	return &Classifier{model: m}
}

// Classify implements core.Classifier.
func (c *Classifier) Classify(ctx context.Context, text string) (core.Route, error) {
	prompt, err := util.RenderTemplate(classifierPromptTemplate, map[string]any{
		"user_question": text,
	})
	if err != nil {
		return core.RouteNone, fmt.Errorf("%w: render prompt: %v", core.ErrClassification, err)
	}

	result, err := Structured[routeQuery](ctx, c.model, prompt)
	if err != nil {
		return core.RouteNone, fmt.Errorf("%w: %v", core.ErrClassification, err)
	}

	return core.ParseRoute(result.Route), nil
}
