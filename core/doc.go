// Package core contains the shared domain types of shopflow: the typed
// conversation state threaded through workflow steps, the retrieved candidate
// and judgment records, the collaborator interfaces the engine depends on
// (classification, retrieval, judgment, generation) and the session
// abstractions used by the boundary layer.
//
// The package has no dependencies on concrete collaborators; everything here
// is either pure data or an interface, keeping the orchestration logic
// substitutable with deterministic test doubles.
package core
