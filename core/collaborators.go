package core

import (
	"context"
	"errors"
)

// The workflow engine treats every external dependency as a synchronous,
// potentially blocking collaborator behind one of these interfaces. Timeout
// and cancellation policy belongs to implementations; the orchestration
// logic only propagates the context.

// Classifier maps the latest user message to an intent route. A
// classification failure is turn-fatal: no safe default intent exists.
type Classifier interface {
	Classify(ctx context.Context, text string) (Route, error)
}

// Retriever returns ranked candidate items for a query. An empty result set
// is not an error; only transport or backend failures raise one. The caller
// decides whether such a failure degrades to an empty set or aborts.
type Retriever interface {
	Retrieve(ctx context.Context, query string, limit int) ([]Candidate, error)
}

// Judge produces a structured accept/reject verdict for a candidate set
// against the user's request and recent conversational context.
type Judge interface {
	Judge(ctx context.Context, query, recentContext string, candidates []Candidate) (Judgment, error)
}

// Generator produces free text from a prompt. It serves both query rewriting
// (non-fatal on failure) and final response rendering (fatal on failure).
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Sentinel errors classifying turn-fatal conditions. Non-fatal conditions
// (retrieval backend failure, rewrite failure, judgment failure) are absorbed
// inside the steps and never surface as errors.
var (
	// ErrClassification wraps router failures; the turn cannot proceed
	// without an intent.
	ErrClassification = errors.New("intent classification failed")

	// ErrGeneration wraps final response generation failures; there is no
	// safe fallback text to return to the user.
	ErrGeneration = errors.New("response generation failed")
)

// IsFatal reports whether err represents a turn-fatal condition that must
// bubble to the boundary as a single error outcome for the whole turn.
func IsFatal(err error) bool {
	return errors.Is(err, ErrClassification) || errors.Is(err, ErrGeneration)
}
