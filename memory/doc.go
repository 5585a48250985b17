// Package memory implements the sliding-window conversational memory
// contract: Load renders the most recent turns as a flat, speaker-labelled
// text block for LLM-facing context, and Update folds the just-completed
// exchange back in, trimming from the front to stay within the line budget.
//
// Both operations are pure and deterministic; the workflow engine is
// responsible for invoking Update exactly once per turn, after the response
// has been rendered.
package memory
