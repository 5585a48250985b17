package memory

import (
	"strings"

	"github.com/hupe1980/shopflow/core"
)

const (
	// LoadWindow is the number of trailing messages rendered by Load.
	LoadWindow = 4
	// MaxLines is the upper bound on lines kept by Update. Older lines are
	// trimmed from the front so chronology is preserved.
	MaxLines = 8
)

// Speaker labels used in the rendered context block. They are prompt-facing
// strings, kept stable so downstream prompts can reference them.
const (
	userLabel      = "USER"
	assistantLabel = "ASSISTANT"
)

// Load renders the most recent LoadWindow messages as a flat, chronologically
// ordered text block with speaker labels. It never alters the message
// sequence itself.
func Load(messages []core.Message) string {
	start := 0
	if len(messages) > LoadWindow {
		start = len(messages) - LoadWindow
	}

	lines := make([]string, 0, LoadWindow)
	for _, msg := range messages[start:] {
		switch msg.Speaker {
		case core.SpeakerUser:
			lines = append(lines, userLabel+": "+msg.Text)
		case core.SpeakerAssistant:
			lines = append(lines, assistantLabel+": "+msg.Text)
		}
	}
	return strings.Join(lines, "\n")
}

// Update appends the just-completed exchange to the context block and trims
// from the front to keep at most MaxLines lines. It is pure: calling it twice
// with identical arguments yields identical results, so the engine must
// invoke it exactly once per turn.
func Update(recentContext, userText, assistantText string) string {
	updated := strings.TrimSpace(
		recentContext + "\n" +
			userLabel + ": " + userText + "\n" +
			assistantLabel + ": " + assistantText,
	)

	lines := strings.Split(updated, "\n")
	if len(lines) > MaxLines {
		lines = lines[len(lines)-MaxLines:]
	}
	return strings.Join(lines, "\n")
}
