package step

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/shopflow/core"
	"github.com/hupe1980/shopflow/internal/util"
)

// ResponseName is the response step's name in the workflow graph.
const ResponseName = "generator"

// Fixed placeholders rendered into the prompt when nothing survived
// retrieval and evaluation.
const (
	NoFAQPlaceholder     = "No relevant FAQ information found."
	NoProductPlaceholder = "No products found."
)

const productPromptTemplate = `You are a friendly e-commerce shopping assistant.
Answer the customer's request using ONLY the products listed below. Mention a
product by its exact title when you recommend it, and include its price. If
the list says no products were found, apologize briefly and suggest the
customer rephrase.

Recent conversation:
{{.prior_conversation}}

Customer request: "{{.user_query}}"

Products:
{{.product_list}}`

const faqPromptTemplate = `You are a helpful customer-support assistant for an online store.
Answer the customer's question using ONLY the FAQ excerpts below. If the
excerpts say no relevant information was found, say you do not have that
information and suggest contacting support.

Recent conversation:
{{.prior_conversation}}

Customer question: "{{.user_query}}"

FAQ excerpts:
{{.faq_list}}`

// Response renders the final reply for the turn from the accepted candidates,
// in a mode selected by the route. It appends exactly one assistant message;
// a generation failure is turn-fatal because there is no safe fallback text.
type Response struct {
	generator core.Generator
}

// NewResponse creates the response step backed by the given generator.
func NewResponse(generator core.Generator) *Response {
	return &Response{generator: generator}
}

// Name implements graph.Step.
func (s *Response) Name() string { return ResponseName }

// Run implements graph.Step.
func (s *Response) Run(ctx context.Context, state core.State) (core.Delta, error) {
	var (
		prompt string
		err    error
	)

	switch state.Route {
	case core.RouteFAQ:
		prompt, err = util.RenderTemplate(faqPromptTemplate, map[string]any{
			"user_query":         state.LastUserText(),
			"prior_conversation": state.RecentContext,
			"faq_list":           formatFAQList(state.Accepted),
		})
	case core.RouteProductSearch:
		prompt, err = util.RenderTemplate(productPromptTemplate, map[string]any{
			"user_query":         state.LastUserText(),
			"prior_conversation": state.RecentContext,
			"product_list":       formatProductList(state.Accepted),
		})
	default:
		return core.Delta{}, fmt.Errorf("%w: no rendering mode for route %q", core.ErrGeneration, state.Route)
	}
	if err != nil {
		return core.Delta{}, fmt.Errorf("%w: render prompt: %v", core.ErrGeneration, err)
	}

	reply, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return core.Delta{}, fmt.Errorf("%w: %v", core.ErrGeneration, err)
	}

	return core.Delta{AppendMessages: []core.Message{core.NewAssistantMessage(reply)}}, nil
}

// formatProductList renders accepted candidates as enumerated "title, price"
// lines for the prompt.
func formatProductList(accepted []core.Candidate) string {
	if len(accepted) == 0 {
		return NoProductPlaceholder
	}

	var b strings.Builder
	for i, c := range accepted {
		title := c.Title()
		if title == "" {
			title = "N/A"
		}
		price := c.MetaString("sale_price")
		if price == "" {
			price = "N/A"
		}
		currency := c.MetaString("currency")
		fmt.Fprintf(&b, "%d. Title: %s, Price: %s %s\n", i+1, title, strings.TrimSpace(currency), price)
	}
	return b.String()
}

// formatFAQList concatenates accepted FAQ entry contents into one block.
func formatFAQList(accepted []core.Candidate) string {
	if len(accepted) == 0 {
		return NoFAQPlaceholder
	}

	var b strings.Builder
	for _, c := range accepted {
		b.WriteString(c.Content)
		b.WriteString("\n\n")
	}
	return b.String()
}
