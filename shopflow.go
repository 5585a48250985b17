// Package shopflow provides a high-level façade over the workflow graph and
// the session boundary. Most applications interact with this package by:
//  1. Creating a Shopflow via New() with their collaborator implementations
//  2. Calling Chat() once per user message
//
// The façade constructs the per-turn state from session history, runs the
// canonical workflow, persists the final history on success and correlates
// the rendered reply against the accepted candidates to decide which products
// are surfaced to the caller. All defaults are safe for local development;
// production deployments typically supply a durable session store and a
// structured logger.
package shopflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/shopflow/core"
	"github.com/hupe1980/shopflow/graph"
	"github.com/hupe1980/shopflow/logging"
	"github.com/hupe1980/shopflow/session"
	"github.com/hupe1980/shopflow/step"
)

// DefaultReply is returned for turns the router sends down the terminal
// no-op route, where the workflow renders nothing.
const DefaultReply = "I can help you find products or answer questions about the store. What are you looking for?"

// Options configures the Shopflow instance.
type Options struct {
	// SessionStore persists conversation history across turns. Defaults to
	// an in-memory store.
	SessionStore core.SessionStore

	// Logger receives turn and step progress. Defaults to NoOpLogger.
	Logger logging.Logger

	// MaxConcurrentTurns limits how many turns execute simultaneously,
	// providing backpressure against collaborator rate limits. Set to 0 for
	// unlimited.
	MaxConcurrentTurns int

	// Workflow overrides applied to the canonical graph (attempt bound,
	// retrieval tuning).
	Workflow []func(o *step.WorkflowOptions)
}

// Shopflow aggregates the compiled workflow and the session boundary.
type Shopflow struct {
	opts     Options
	workflow *graph.Graph
	sem      chan struct{}
}

// New wires the collaborators into the canonical workflow and returns the
// façade. The products and faq retrievers address separate collections; the
// generator serves both query rewriting and response rendering.
func New(
	classifier core.Classifier,
	products core.Retriever,
	faq core.Retriever,
	judge core.Judge,
	generator core.Generator,
	optFns ...func(o *Options),
) (*Shopflow, error) {
	opts := Options{
		SessionStore: session.NewInMemoryStore(),
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	wf, err := step.NewWorkflow(classifier, products, faq, judge, generator, opts.Workflow...)
	if err != nil {
		return nil, fmt.Errorf("build workflow: %w", err)
	}

	var sem chan struct{}
	if opts.MaxConcurrentTurns > 0 {
		sem = make(chan struct{}, opts.MaxConcurrentTurns)
	}

	return &Shopflow{opts: opts, workflow: wf, sem: sem}, nil
}

// TurnResult is the outcome of one completed turn.
type TurnResult struct {
	// SessionID identifies the conversation; generated when the caller did
	// not supply one.
	SessionID string `json:"session_id"`

	// Reply is the assistant's rendered answer.
	Reply string `json:"reply"`

	// Route is the intent the turn was routed to.
	Route core.Route `json:"route"`

	// Products holds the candidates actually referenced by the reply (or all
	// accepted candidates when the reply names none of them). Empty for FAQ
	// and no-op turns.
	Products []core.Candidate `json:"products"`
}

// Sessions exposes the configured session store for boundary handlers.
func (s *Shopflow) Sessions() core.SessionStore { return s.opts.SessionStore }

// Chat runs one conversational turn. A fatal workflow error leaves the
// session's prior history untouched and is returned to the caller; callers
// should surface a generic failure message, never the internal error text.
func (s *Shopflow) Chat(ctx context.Context, sessionID, userText string) (*TurnResult, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	if s.sem != nil {
		select {
		case s.sem <- struct{}{}:
			defer func() { <-s.sem }()
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	logger := s.opts.Logger
	start := time.Now()

	var result *TurnResult
	err := s.opts.SessionStore.Update(sessionID, func(sess *core.Session) error {
		final, err := s.workflow.Run(ctx, core.NewState(sess.History(), userText), func(o *graph.RunOptions) {
			o.Logger = logger
		})
		if err != nil {
			return err
		}

		reply := final.LastAssistantText()
		if reply == "" {
			// Terminal no-op route: nothing was rendered.
			reply = DefaultReply
			final.Messages = append(final.Messages, core.NewAssistantMessage(reply))
		}
		sess.Replace(final.Messages)

		result = &TurnResult{
			SessionID: sessionID,
			Reply:     reply,
			Route:     final.Route,
			Products:  Correlate(final.Route, reply, final.Accepted),
		}
		return nil
	})
	if err != nil {
		logger.Error("turn failed", "session_id", sessionID, "duration", time.Since(start), "error", err)
		return nil, err
	}

	logger.Info("turn completed", "session_id", sessionID, "route", string(result.Route), "duration", time.Since(start))
	return result, nil
}

// Correlate determines which candidates the rendered reply actually mentions:
// a candidate is surfaced when its title appears case-insensitively as a
// substring of the reply. When the reply names none of them the full set is
// returned, on the assumption that under-matching is worse than over-showing.
// Non-product routes surface nothing.
func Correlate(route core.Route, reply string, candidates []core.Candidate) []core.Candidate {
	if route != core.RouteProductSearch || len(candidates) == 0 {
		return []core.Candidate{}
	}

	lowered := strings.ToLower(reply)
	matched := make([]core.Candidate, 0, len(candidates))
	for _, c := range candidates {
		title := strings.ToLower(c.Title())
		if title != "" && strings.Contains(lowered, title) {
			matched = append(matched, c)
		}
	}

	if len(matched) == 0 {
		return candidates
	}
	return matched
}
