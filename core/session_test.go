package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionAppendAndHistory(t *testing.T) {
	s := NewSession("s1")
	s.Append(NewUserMessage("hi"), NewAssistantMessage("hello"))

	hist := s.History()
	require.Len(t, hist, 2)

	// History must be a defensive copy.
	hist[0].Text = "mutated"
	assert.Equal(t, "hi", s.History()[0].Text)
}

func TestSessionReplace(t *testing.T) {
	s := NewSession("s1")
	s.Append(NewUserMessage("old"))

	s.Replace([]Message{NewUserMessage("a"), NewAssistantMessage("b"), NewUserMessage("c")})
	assert.Len(t, s.History(), 3)
}

func TestSessionClone(t *testing.T) {
	s := NewSession("s1")
	s.Append(NewUserMessage("hi"))
	s.Metadata["origin"] = "test"

	clone := s.Clone()
	clone.Append(NewAssistantMessage("hello"))
	clone.Metadata["origin"] = "clone"

	assert.Len(t, s.History(), 1)
	assert.Equal(t, "test", s.Metadata["origin"])
	assert.Len(t, clone.History(), 2)
}
