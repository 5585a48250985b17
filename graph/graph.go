package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/shopflow/core"
	"github.com/hupe1980/shopflow/logging"
)

// End is the name of the terminal sink. Routing an edge to End finishes the
// run; a step with no outgoing edge is implicitly connected to End.
const End = "__end__"

// Step is a single named unit of work in the workflow. Run receives the
// current state by value and returns a partial update; it must not retain or
// mutate the state it was given.
type Step interface {
	Name() string
	Run(ctx context.Context, state core.State) (core.Delta, error)
}

// StepFunc adapts a plain function to the Step interface.
type StepFunc struct {
	name string
	fn   func(ctx context.Context, state core.State) (core.Delta, error)
}

// NewStepFunc wraps fn as a Step with the given name.
func NewStepFunc(name string, fn func(ctx context.Context, state core.State) (core.Delta, error)) StepFunc {
	return StepFunc{name: name, fn: fn}
}

// Name returns the step name.
func (s StepFunc) Name() string { return s.name }

// Run invokes the wrapped function.
func (s StepFunc) Run(ctx context.Context, state core.State) (core.Delta, error) {
	return s.fn(ctx, state)
}

// Condition is a pure decision function over the merged state together with
// the exhaustive set of outcome labels it may return. Declaring Outcomes up
// front lets Compile verify every outcome has a mapped target.
type Condition struct {
	Outcomes []string
	Decide   func(state core.State) string
}

type conditionalEdge struct {
	condition Condition
	targets   map[string]string // outcome label -> step name or End
}

// Builder accumulates steps and edges and validates them into an immutable
// Graph. All Add* methods record configuration errors, surfaced by Compile,
// so call sites can chain without per-call error handling.
type Builder struct {
	steps       map[string]Step
	unconds     map[string]string
	conds       map[string]conditionalEdge
	entry       string
	buildErrors []error
}

// NewBuilder creates an empty workflow graph builder.
func NewBuilder() *Builder {
	return &Builder{
		steps:   map[string]Step{},
		unconds: map[string]string{},
		conds:   map[string]conditionalEdge{},
	}
}

// AddStep registers a named step. Duplicate names are a configuration error.
func (b *Builder) AddStep(s Step) *Builder {
	if _, exists := b.steps[s.Name()]; exists {
		b.buildErrors = append(b.buildErrors, fmt.Errorf("duplicate step %q", s.Name()))
		return b
	}
	b.steps[s.Name()] = s
	return b
}

// AddEdge declares an unconditional transition from one step to another (or
// to End).
func (b *Builder) AddEdge(from, to string) *Builder {
	if b.hasOutgoing(from) {
		b.buildErrors = append(b.buildErrors, fmt.Errorf("step %q already has an outgoing edge", from))
		return b
	}
	b.unconds[from] = to
	return b
}

// AddConditionalEdges declares a conditional transition: after the step
// completes, cond.Decide picks an outcome label and targets maps it to the
// next step. The targets map must cover cond.Outcomes exactly.
func (b *Builder) AddConditionalEdges(from string, cond Condition, targets map[string]string) *Builder {
	if b.hasOutgoing(from) {
		b.buildErrors = append(b.buildErrors, fmt.Errorf("step %q already has an outgoing edge", from))
		return b
	}
	b.conds[from] = conditionalEdge{condition: cond, targets: targets}
	return b
}

// SetEntry declares the entry step of the graph.
func (b *Builder) SetEntry(name string) *Builder {
	b.entry = name
	return b
}

func (b *Builder) hasOutgoing(from string) bool {
	if _, ok := b.unconds[from]; ok {
		return true
	}
	_, ok := b.conds[from]
	return ok
}

// Compile validates the accumulated configuration and returns an immutable,
// reentrant Graph. Validation covers: entry set and known, edge endpoints
// known, conditional outcome maps exhaustive with no stray labels, and no
// recorded Add* errors.
func (b *Builder) Compile() (*Graph, error) {
	if len(b.buildErrors) > 0 {
		return nil, b.buildErrors[0]
	}
	if b.entry == "" {
		return nil, fmt.Errorf("no entry step set")
	}
	if _, ok := b.steps[b.entry]; !ok {
		return nil, fmt.Errorf("entry step %q not registered", b.entry)
	}

	for from, to := range b.unconds {
		if _, ok := b.steps[from]; !ok {
			return nil, fmt.Errorf("edge source %q not registered", from)
		}
		if err := b.checkTarget(from, to); err != nil {
			return nil, err
		}
	}

	for from, ce := range b.conds {
		if _, ok := b.steps[from]; !ok {
			return nil, fmt.Errorf("conditional edge source %q not registered", from)
		}
		if ce.condition.Decide == nil {
			return nil, fmt.Errorf("conditional edge from %q has no decide function", from)
		}
		declared := map[string]bool{}
		for _, outcome := range ce.condition.Outcomes {
			declared[outcome] = true
			if _, ok := ce.targets[outcome]; !ok {
				return nil, fmt.Errorf("conditional edge from %q: outcome %q has no target", from, outcome)
			}
		}
		for outcome, to := range ce.targets {
			if !declared[outcome] {
				return nil, fmt.Errorf("conditional edge from %q: target for undeclared outcome %q", from, outcome)
			}
			if err := b.checkTarget(from, to); err != nil {
				return nil, err
			}
		}
	}

	return &Graph{
		steps:   b.steps,
		unconds: b.unconds,
		conds:   b.conds,
		entry:   b.entry,
	}, nil
}

func (b *Builder) checkTarget(from, to string) error {
	if to == End {
		return nil
	}
	if _, ok := b.steps[to]; !ok {
		return fmt.Errorf("edge from %q targets unknown step %q", from, to)
	}
	return nil
}

// Graph is a compiled, immutable workflow. It holds no per-run state and is
// safe for concurrent Run calls.
type Graph struct {
	steps   map[string]Step
	unconds map[string]string
	conds   map[string]conditionalEdge
	entry   string
}

// RunOptions tune a single Run invocation.
type RunOptions struct {
	// Logger receives per-step progress. Defaults to NoOpLogger.
	Logger logging.Logger

	// MaxTransitions bounds the number of step executions per run as a
	// last-resort liveness guard. Defaults to 64.
	MaxTransitions int
}

// Run executes the workflow from the entry step until it reaches End,
// threading the state through each step. On step failure the error is
// returned along with the state as merged so far; callers must treat the
// turn as failed and not persist it.
func (g *Graph) Run(ctx context.Context, initial core.State, optFns ...func(o *RunOptions)) (core.State, error) {
	opts := RunOptions{
		Logger:         logging.NoOpLogger{},
		MaxTransitions: 64,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	state := initial
	current := g.entry
	limiter := core.NewStepLimiter(opts.MaxTransitions)

	for current != End {
		select {
		case <-ctx.Done():
			return state, ctx.Err()
		default:
		}

		if err := limiter.Increment(); err != nil {
			return state, fmt.Errorf("workflow did not terminate: %w", err)
		}

		step := g.steps[current]
		start := time.Now()
		delta, err := step.Run(ctx, state)
		if err != nil {
			opts.Logger.Error("step failed", "step", current, "duration", time.Since(start), "error", err)
			return state, fmt.Errorf("step %s: %w", current, err)
		}
		opts.Logger.Debug("step completed", "step", current, "duration", time.Since(start))

		state = state.Apply(delta)

		next, err := g.next(current, state)
		if err != nil {
			return state, err
		}
		current = next
	}

	return state, nil
}

// next resolves the outgoing edge of the step that just completed against
// the merged state.
func (g *Graph) next(from string, state core.State) (string, error) {
	if to, ok := g.unconds[from]; ok {
		return to, nil
	}
	if ce, ok := g.conds[from]; ok {
		outcome := ce.condition.Decide(state)
		to, ok := ce.targets[outcome]
		if !ok {
			// Compile guarantees coverage of declared outcomes; reaching
			// this means Decide returned an undeclared label.
			return "", fmt.Errorf("conditional edge from %q: undeclared outcome %q", from, outcome)
		}
		return to, nil
	}
	return End, nil
}

// Entry returns the name of the entry step.
func (g *Graph) Entry() string { return g.entry }

// Steps returns the names of all registered steps in no particular order.
func (g *Graph) Steps() []string {
	names := make([]string, 0, len(g.steps))
	for name := range g.steps {
		names = append(names, name)
	}
	return names
}
