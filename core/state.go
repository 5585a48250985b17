package core

// Speaker identifies who authored a conversation message.
type Speaker string

const (
	// SpeakerUser marks a message written by the end user.
	SpeakerUser Speaker = "user"
	// SpeakerAssistant marks a message produced by the assistant.
	SpeakerAssistant Speaker = "assistant"
)

// Message is a single conversational turn fragment.
type Message struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}

// NewUserMessage creates a user-authored message.
func NewUserMessage(text string) Message {
	return Message{Speaker: SpeakerUser, Text: text}
}

// NewAssistantMessage creates an assistant-authored message.
func NewAssistantMessage(text string) Message {
	return Message{Speaker: SpeakerAssistant, Text: text}
}

// Route is the closed set of intents a turn can be routed to. It is an
// explicit tagged variant rather than free-form strings so branch handling
// can be exhaustive.
type Route string

const (
	// RouteNone means no recognized intent; the turn terminates without a branch.
	RouteNone Route = ""
	// RouteProductSearch routes the turn through retrieval and evaluation.
	RouteProductSearch Route = "product_search"
	// RouteFAQ routes the turn through the FAQ answer path.
	RouteFAQ Route = "faq"
)

// Valid reports whether r is one of the known route variants.
func (r Route) Valid() bool {
	switch r {
	case RouteNone, RouteProductSearch, RouteFAQ:
		return true
	default:
		return false
	}
}

// ParseRoute maps a raw label to a Route. Unrecognized or empty labels map
// to RouteNone, the terminal no-op route.
func ParseRoute(label string) Route {
	switch Route(label) {
	case RouteProductSearch:
		return RouteProductSearch
	case RouteFAQ:
		return RouteFAQ
	default:
		return RouteNone
	}
}

// State is the conversation record threaded through every workflow step for
// one turn. It is immutable by convention: steps never mutate the instance
// they receive; they return a Delta which the engine applies, producing a new
// State value.
//
// Invariants maintained by the engine:
//   - Messages only grows, never reorders or deletes.
//   - Route is written once per turn by the router.
//   - Attempts increments exactly once per evaluation.
//   - Accepted is always a subset of the Candidates that produced Judgment.
type State struct {
	Messages []Message `json:"messages"`
	Route    Route     `json:"route"`

	// Candidates is the current retrieved set, replaced wholesale each
	// retrieval attempt. Nil means no retrieval has happened yet.
	Candidates []Candidate `json:"candidates,omitempty"`

	// Accepted holds the candidates that passed evaluation. Nil means "not
	// yet evaluated"; an empty non-nil slice means "nothing to show".
	Accepted []Candidate `json:"accepted_candidates,omitempty"`

	// Judgment is the most recent evaluation verdict, nil before the first
	// evaluation of the turn.
	Judgment *Judgment `json:"judgment,omitempty"`

	// Attempts counts completed retrieval+evaluation cycles.
	Attempts int `json:"attempt_count"`

	// RecentContext is the bounded textual summary of prior turns used to
	// ground collaborator calls.
	RecentContext string `json:"recent_context"`
}

// NewState constructs the initial per-turn state from prior session history
// plus the new user message.
func NewState(history []Message, userText string) State {
	msgs := make([]Message, 0, len(history)+1)
	msgs = append(msgs, history...)
	msgs = append(msgs, NewUserMessage(userText))
	return State{Messages: msgs}
}

// LastUserText returns the text of the most recent user message, or "" if
// none exists.
func (s State) LastUserText() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Speaker == SpeakerUser {
			return s.Messages[i].Text
		}
	}
	return ""
}

// LastAssistantText returns the text of the most recent assistant message,
// or "" if none exists.
func (s State) LastAssistantText() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Speaker == SpeakerAssistant {
			return s.Messages[i].Text
		}
	}
	return ""
}

// Delta is a partial state update returned by a step. Pointer fields
// distinguish "leave unchanged" (nil) from "set to this value" so a step can
// deliberately replace a field with an empty collection.
type Delta struct {
	AppendMessages []Message
	Route          *Route
	Candidates     *[]Candidate
	Accepted       *[]Candidate
	Judgment       *Judgment
	AttemptsAdd    int
	RecentContext  *string
}

// Apply merges the delta into a copy of the state and returns it. Slices are
// cloned defensively so the previous State value stays usable.
func (s State) Apply(d Delta) State {
	next := s
	next.Messages = make([]Message, 0, len(s.Messages)+len(d.AppendMessages))
	next.Messages = append(next.Messages, s.Messages...)
	next.Messages = append(next.Messages, d.AppendMessages...)
	if d.Route != nil {
		next.Route = *d.Route
	}
	if d.Candidates != nil {
		next.Candidates = cloneCandidates(*d.Candidates)
	}
	if d.Accepted != nil {
		next.Accepted = cloneCandidates(*d.Accepted)
	}
	if d.Judgment != nil {
		j := *d.Judgment
		next.Judgment = &j
	}
	next.Attempts += d.AttemptsAdd
	if d.RecentContext != nil {
		next.RecentContext = *d.RecentContext
	}
	return next
}

func cloneCandidates(in []Candidate) []Candidate {
	out := make([]Candidate, len(in))
	copy(out, in)
	return out
}

// RoutePtr is a convenience helper for building deltas.
func RoutePtr(r Route) *Route { return &r }

// CandidatesPtr is a convenience helper for building deltas.
func CandidatesPtr(c []Candidate) *[]Candidate { return &c }

// StringPtr is a convenience helper for building deltas.
func StringPtr(s string) *string { return &s }
