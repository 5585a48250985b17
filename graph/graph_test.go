package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/shopflow/core"
)

func appendStep(name, text string) Step {
	return NewStepFunc(name, func(_ context.Context, _ core.State) (core.Delta, error) {
		return core.Delta{AppendMessages: []core.Message{core.NewAssistantMessage(text)}}, nil
	})
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		build   func() *Builder
		wantErr string
	}{
		{
			name:    "no entry",
			build:   func() *Builder { return NewBuilder().AddStep(appendStep("a", "x")) },
			wantErr: "no entry step",
		},
		{
			name:    "unknown entry",
			build:   func() *Builder { return NewBuilder().AddStep(appendStep("a", "x")).SetEntry("missing") },
			wantErr: "not registered",
		},
		{
			name: "edge to unknown step",
			build: func() *Builder {
				return NewBuilder().AddStep(appendStep("a", "x")).AddEdge("a", "nowhere").SetEntry("a")
			},
			wantErr: "unknown step",
		},
		{
			name: "duplicate step",
			build: func() *Builder {
				return NewBuilder().AddStep(appendStep("a", "x")).AddStep(appendStep("a", "y")).SetEntry("a")
			},
			wantErr: "duplicate step",
		},
		{
			name: "two outgoing edges",
			build: func() *Builder {
				return NewBuilder().
					AddStep(appendStep("a", "x")).
					AddStep(appendStep("b", "y")).
					AddEdge("a", "b").
					AddEdge("a", End).
					SetEntry("a")
			},
			wantErr: "already has an outgoing edge",
		},
		{
			name: "unmapped conditional outcome",
			build: func() *Builder {
				cond := Condition{
					Outcomes: []string{"yes", "no"},
					Decide:   func(core.State) string { return "yes" },
				}
				return NewBuilder().
					AddStep(appendStep("a", "x")).
					AddConditionalEdges("a", cond, map[string]string{"yes": End}).
					SetEntry("a")
			},
			wantErr: `outcome "no" has no target`,
		},
		{
			name: "target for undeclared outcome",
			build: func() *Builder {
				cond := Condition{
					Outcomes: []string{"yes"},
					Decide:   func(core.State) string { return "yes" },
				}
				return NewBuilder().
					AddStep(appendStep("a", "x")).
					AddConditionalEdges("a", cond, map[string]string{"yes": End, "maybe": End}).
					SetEntry("a")
			},
			wantErr: `undeclared outcome "maybe"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build().Compile()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRun_LinearSequence(t *testing.T) {
	g, err := NewBuilder().
		AddStep(appendStep("first", "one")).
		AddStep(appendStep("second", "two")).
		AddEdge("first", "second").
		AddEdge("second", End).
		SetEntry("first").
		Compile()
	require.NoError(t, err)

	final, err := g.Run(context.Background(), core.State{})
	require.NoError(t, err)
	require.Len(t, final.Messages, 2)
	assert.Equal(t, "one", final.Messages[0].Text)
	assert.Equal(t, "two", final.Messages[1].Text)
}

func TestRun_ConditionalBranch(t *testing.T) {
	cond := Condition{
		Outcomes: []string{"left", "right"},
		Decide: func(s core.State) string {
			if s.Route == core.RouteFAQ {
				return "left"
			}
			return "right"
		},
	}

	routeStep := NewStepFunc("route", func(_ context.Context, _ core.State) (core.Delta, error) {
		return core.Delta{Route: core.RoutePtr(core.RouteFAQ)}, nil
	})

	g, err := NewBuilder().
		AddStep(routeStep).
		AddStep(appendStep("left", "went left")).
		AddStep(appendStep("right", "went right")).
		AddConditionalEdges("route", cond, map[string]string{"left": "left", "right": "right"}).
		SetEntry("route").
		Compile()
	require.NoError(t, err)

	final, err := g.Run(context.Background(), core.State{})
	require.NoError(t, err)
	require.Len(t, final.Messages, 1)
	assert.Equal(t, "went left", final.Messages[0].Text)
}

func TestRun_LoopBoundedByCondition(t *testing.T) {
	const maxAttempts = 2

	work := NewStepFunc("work", func(_ context.Context, _ core.State) (core.Delta, error) {
		return core.Delta{AttemptsAdd: 1}, nil
	})
	cond := Condition{
		Outcomes: []string{"again", "done"},
		Decide: func(s core.State) string {
			if s.Attempts >= maxAttempts {
				return "done"
			}
			return "again"
		},
	}

	g, err := NewBuilder().
		AddStep(work).
		AddConditionalEdges("work", cond, map[string]string{"again": "work", "done": End}).
		SetEntry("work").
		Compile()
	require.NoError(t, err)

	final, err := g.Run(context.Background(), core.State{})
	require.NoError(t, err)
	assert.Equal(t, maxAttempts, final.Attempts)
}

func TestRun_StepErrorStopsRun(t *testing.T) {
	boom := errors.New("boom")
	failing := NewStepFunc("fail", func(_ context.Context, _ core.State) (core.Delta, error) {
		return core.Delta{}, boom
	})

	g, err := NewBuilder().AddStep(failing).SetEntry("fail").Compile()
	require.NoError(t, err)

	_, err = g.Run(context.Background(), core.State{})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "step fail")
}

func TestRun_TransitionLimitGuardsLiveness(t *testing.T) {
	// A deliberately miswired condition that never terminates.
	spin := NewStepFunc("spin", func(_ context.Context, _ core.State) (core.Delta, error) {
		return core.Delta{}, nil
	})
	cond := Condition{
		Outcomes: []string{"again"},
		Decide:   func(core.State) string { return "again" },
	}

	g, err := NewBuilder().
		AddStep(spin).
		AddConditionalEdges("spin", cond, map[string]string{"again": "spin"}).
		SetEntry("spin").
		Compile()
	require.NoError(t, err)

	_, err = g.Run(context.Background(), core.State{}, func(o *RunOptions) { o.MaxTransitions = 5 })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not terminate")
}

func TestRun_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g, err := NewBuilder().AddStep(appendStep("a", "x")).SetEntry("a").Compile()
	require.NoError(t, err)

	_, err = g.Run(ctx, core.State{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_ImplicitEndWithoutEdge(t *testing.T) {
	g, err := NewBuilder().AddStep(appendStep("only", "done")).SetEntry("only").Compile()
	require.NoError(t, err)

	final, err := g.Run(context.Background(), core.State{})
	require.NoError(t, err)
	require.Len(t, final.Messages, 1)
}
