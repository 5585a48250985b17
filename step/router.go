package step

import (
	"context"

	"github.com/hupe1980/shopflow/core"
)

// RouterName is the router's step name in the workflow graph.
const RouterName = "router"

// Router performs the one-shot intent classification of the latest user
// message. It holds no state and is never retried; a classifier failure is
// turn-fatal and propagates to the engine.
type Router struct {
	classifier core.Classifier
}

// NewRouter creates the routing step backed by the given classifier.
func NewRouter(classifier core.Classifier) *Router {
	return &Router{classifier: classifier}
}

// Name implements graph.Step.
func (r *Router) Name() string { return RouterName }

// Run implements graph.Step. The route is written exactly once per turn and
// gates the conditional edge taken after this step.
func (r *Router) Run(ctx context.Context, state core.State) (core.Delta, error) {
	route, err := r.classifier.Classify(ctx, state.LastUserText())
	if err != nil {
		return core.Delta{}, err
	}
	return core.Delta{Route: core.RoutePtr(route)}, nil
}
