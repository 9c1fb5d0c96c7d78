package state

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/precalc-roulette/pkg/actor"
	"github.com/jwebster45206/precalc-roulette/pkg/deck"
	"github.com/jwebster45206/precalc-roulette/pkg/dice"
	"github.com/jwebster45206/precalc-roulette/pkg/revolver"
)

// Phase is the current step of the turn machine.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseQuestion Phase = "question"
	PhaseDecision Phase = "decision"
	PhaseMessage  Phase = "message"
)

// Outcome is set once, when an actor dies.
type Outcome string

const (
	OutcomeNone Outcome = ""
	OutcomeWon  Outcome = "won"
	OutcomeLost Outcome = "lost"
)

// DefaultMonsterDelay is how long the monster "reads" its card.
const DefaultMonsterDelay = 900 * time.Millisecond

var ErrInvalidRules = errors.New("invalid rules")

// Rules are the tuning constants of a session.
type Rules struct {
	Chambers     int
	AI           actor.AIPolicy
	MonsterDelay time.Duration
}

// DefaultRules returns a six-chamber revolver and the standard opponent.
func DefaultRules() Rules {
	return Rules{
		Chambers:     revolver.DefaultChambers,
		AI:           actor.DefaultAIPolicy(),
		MonsterDelay: DefaultMonsterDelay,
	}
}

func (r Rules) Validate() error {
	if r.Chambers < 1 {
		return fmt.Errorf("%w: chambers must be positive, got %d", ErrInvalidRules, r.Chambers)
	}
	if !r.AI.Valid() {
		return fmt.Errorf("%w: ai chances must be within [0, 1], got %.2f and %.2f",
			ErrInvalidRules, r.AI.CorrectChance, r.AI.ShootChanceOnCorrect)
	}
	if r.MonsterDelay < 0 {
		return fmt.Errorf("%w: monster delay must not be negative", ErrInvalidRules)
	}
	return nil
}

// GameState is one duel. It is created per session and never reused.
type GameState struct {
	ID           uuid.UUID       `json:"id"` // Unique ID per session
	Turn         actor.Actor     `json:"turn"`
	PlayerAlive  bool            `json:"player_alive"`
	MonsterAlive bool            `json:"monster_alive"`
	Phase        Phase           `json:"phase"`
	CurrentCard  *deck.Card      `json:"current_card,omitempty"`
	LastMessage  string          `json:"last_message,omitempty"`
	LastEvent    Event           `json:"last_event,omitempty"`
	LastShot     revolver.Result `json:"last_shot,omitempty"`
	Round        int             `json:"round"`
	Outcome      Outcome         `json:"outcome,omitempty"`
	Opening      bool            `json:"opening"` // intro message not yet advanced
	AI           actor.AIPolicy  `json:"ai"`

	Revolver *revolver.Revolver `json:"revolver"`
	Deck     *deck.Deck         `json:"-"`
}

// NewGameState loads the revolver and shuffles the deck for a new session.
func NewGameState(rules Rules, pool []deck.Card, src dice.Source) (*GameState, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	rev, err := revolver.New(rules.Chambers, src)
	if err != nil {
		return nil, fmt.Errorf("failed to load revolver: %w", err)
	}
	d, err := deck.New(pool, src)
	if err != nil {
		return nil, fmt.Errorf("failed to build deck: %w", err)
	}

	return &GameState{
		ID:           uuid.New(),
		Turn:         actor.Player,
		PlayerAlive:  true,
		MonsterAlive: true,
		Phase:        PhaseIdle,
		Round:        1,
		AI:           rules.AI,
		Revolver:     rev,
		Deck:         d,
	}, nil
}

// IsAlive reports whether the given actor is still standing.
func (gs *GameState) IsAlive(a actor.Actor) bool {
	if a == actor.Player {
		return gs.PlayerAlive
	}
	return gs.MonsterAlive
}

// Over reports whether the duel has ended.
func (gs *GameState) Over() bool {
	return gs.Outcome != OutcomeNone
}
