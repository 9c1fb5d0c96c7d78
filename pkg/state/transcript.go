package state

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/precalc-roulette/pkg/actor"
)

// TranscriptEntry is one narrated message.
type TranscriptEntry struct {
	Round int
	Turn  actor.Actor
	Event Event
	Text  string
}

// Speaker is who the entry is attributed to.
func (e TranscriptEntry) Speaker() string {
	if e.Event == EventIntro {
		return "Narrator"
	}
	return e.Turn.Title()
}

// Transcript records every narrated message of a session, in order.
type Transcript struct {
	entries []TranscriptEntry
}

var _ Sink = (*Transcript)(nil)

// Render appends the frame's message when it is new.
func (t *Transcript) Render(f Frame) {
	if f.Message == "" {
		return
	}
	if n := len(t.entries); n > 0 {
		last := t.entries[n-1]
		if last.Round == f.Round && last.Text == f.Message {
			return
		}
	}
	t.entries = append(t.entries, TranscriptEntry{
		Round: f.Round,
		Turn:  f.Turn,
		Event: f.Event,
		Text:  f.Message,
	})
}

func (t *Transcript) Entries() []TranscriptEntry {
	return t.entries
}

func (t *Transcript) Len() int {
	return len(t.entries)
}

// String renders the transcript as plain text, one block per entry.
func (t *Transcript) String() string {
	var b strings.Builder
	for i, e := range t.entries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%d] %s:\n%s", i+1, e.Speaker(), e.Text)
	}
	return b.String()
}
