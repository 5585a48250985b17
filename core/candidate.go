package core

import "fmt"

// Candidate is a single retrieved item: opaque content text plus an arbitrary
// metadata map (e.g. title, sale_price, currency for products; question and
// source for FAQ entries).
type Candidate struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Score    float64        `json:"score,omitempty"`
}

// Title returns the metadata title as a string, or "" when absent.
func (c Candidate) Title() string {
	return c.MetaString("title")
}

// MetaString returns a metadata value rendered as a string, or "" when the
// key is absent. Non-string values are formatted with %v so numeric prices
// survive JSON round-trips.
func (c Candidate) MetaString(key string) string {
	v, ok := c.Metadata[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// Judgment is the structured accept/reject verdict produced by evaluating a
// candidate set against the user's request.
type Judgment struct {
	Accepted  bool   `json:"accepted"`
	Rationale string `json:"rationale"`
}
