package step

import (
	"context"

	"github.com/hupe1980/shopflow/core"
	"github.com/hupe1980/shopflow/memory"
)

// Step names used when wiring the canonical workflow graph.
const (
	LoadMemoryName   = "load_memory"
	UpdateMemoryName = "update_memory"
)

// LoadMemory renders the sliding conversation window into the state's recent
// context. It runs first so every downstream collaborator call is grounded in
// the same context block.
type LoadMemory struct{}

// NewLoadMemory creates the memory load step.
func NewLoadMemory() *LoadMemory { return &LoadMemory{} }

// Name implements graph.Step.
func (s *LoadMemory) Name() string { return LoadMemoryName }

// Run implements graph.Step.
func (s *LoadMemory) Run(_ context.Context, state core.State) (core.Delta, error) {
	return core.Delta{RecentContext: core.StringPtr(memory.Load(state.Messages))}, nil
}

// UpdateMemory folds the just-completed exchange back into the recent context.
// The graph wires it after response rendering, so it executes exactly once per
// turn.
type UpdateMemory struct{}

// NewUpdateMemory creates the memory update step.
func NewUpdateMemory() *UpdateMemory { return &UpdateMemory{} }

// Name implements graph.Step.
func (s *UpdateMemory) Name() string { return UpdateMemoryName }

// Run implements graph.Step.
func (s *UpdateMemory) Run(_ context.Context, state core.State) (core.Delta, error) {
	assistantText := state.LastAssistantText()
	if assistantText == "" {
		// No reply was rendered this turn; leave the window untouched.
		return core.Delta{}, nil
	}

	updated := memory.Update(state.RecentContext, state.LastUserText(), assistantText)
	return core.Delta{RecentContext: core.StringPtr(updated)}, nil
}
