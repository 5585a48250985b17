package model

import (
	"context"

	"github.com/hupe1980/shopflow/core"
)

// Generator adapts a Model to the core.Generator collaborator: a plain
// prompt-to-text completion used for query rewriting and response rendering.
type Generator struct {
	model Model
}

// NewGenerator creates a Generator backed by the given model.
func NewGenerator(m Model) *Generator {
	return &Generator{model: m}
}

// Generate implements core.Generator.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	return GenerateText(ctx, g.model, prompt)
}

// compile-time interface checks
var (
	_ core.Classifier = (*Classifier)(nil)
	_ core.Judge      = (*Judge)(nil)
	_ core.Generator  = (*Generator)(nil)
)
