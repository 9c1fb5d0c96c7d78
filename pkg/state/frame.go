package state

import (
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/precalc-roulette/pkg/actor"
	"github.com/jwebster45206/precalc-roulette/pkg/deck"
	"github.com/jwebster45206/precalc-roulette/pkg/revolver"
)

// Frame is everything a presentation layer needs to draw the current phase.
// It is a read-only copy; changing it never affects the game.
type Frame struct {
	Session      uuid.UUID
	Phase        Phase
	Turn         actor.Actor
	Round        int
	PlayerAlive  bool
	MonsterAlive bool
	Revolver     string // safe description, never the bullet position

	// Card is set in QUESTION and DECISION.
	Card *deck.Card
	// Message is set in DECISION and MESSAGE.
	Message string
	Event   Event
	Shot    revolver.Result

	Outcome Outcome

	// AwaitingMonster asks the presentation to schedule ResolveMonsterTurn
	// after MonsterDelay.
	AwaitingMonster bool
	MonsterDelay    time.Duration
}

// Over reports whether the frame is terminal.
func (f Frame) Over() bool {
	return f.Outcome != OutcomeNone
}

// Sink receives a frame after every applied transition.
type Sink interface {
	Render(Frame)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Frame)

func (f SinkFunc) Render(fr Frame) { f(fr) }
