package state

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jwebster45206/precalc-roulette/pkg/actor"
	"github.com/jwebster45206/precalc-roulette/pkg/deck"
	"github.com/jwebster45206/precalc-roulette/pkg/dice"
	"github.com/jwebster45206/precalc-roulette/pkg/revolver"
)

// Engine runs the turn machine over one GameState.
//
// Every action checks the current phase and turn first. An action that does
// not match is ignored and reports false: input can arrive late or twice, and
// the monster's delayed callback can outlive its session.
type Engine struct {
	gs     *GameState
	rules  Rules
	src    dice.Source
	logger *slog.Logger
	sinks  []Sink
	player actor.PlayerPolicy
}

// NewEngine wraps an existing game state.
func NewEngine(gs *GameState, rules Rules, src dice.Source, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		gs:     gs,
		rules:  rules,
		src:    src,
		logger: logger.With("session", gs.ID.String()),
	}
}

// NewSession builds a fresh game state and its engine. The session is idle
// until Start is called.
func NewSession(rules Rules, pool []deck.Card, src dice.Source, logger *slog.Logger) (*Engine, error) {
	gs, err := NewGameState(rules, pool, src)
	if err != nil {
		return nil, fmt.Errorf("failed to create game state: %w", err)
	}
	return NewEngine(gs, rules, src, logger), nil
}

// WithSink registers a sink for every applied transition.
// Returns the Engine for method chaining.
func (e *Engine) WithSink(s Sink) *Engine {
	e.sinks = append(e.sinks, s)
	return e
}

// State exposes the game state. Callers must not mutate it.
func (e *Engine) State() *GameState {
	return e.gs
}

// Session is the identity the monster's delayed callback must carry.
func (e *Engine) Session() uuid.UUID {
	return e.gs.ID
}

// Frame snapshots the current phase for rendering.
func (e *Engine) Frame() Frame {
	gs := e.gs
	f := Frame{
		Session:      gs.ID,
		Phase:        gs.Phase,
		Turn:         gs.Turn,
		Round:        gs.Round,
		PlayerAlive:  gs.PlayerAlive,
		MonsterAlive: gs.MonsterAlive,
		Outcome:      gs.Outcome,
		Event:        gs.LastEvent,
		Shot:         gs.LastShot,
	}
	if gs.Revolver != nil {
		f.Revolver = gs.Revolver.Describe()
	}

	switch gs.Phase {
	case PhaseQuestion:
		f.Card = gs.CurrentCard
		if gs.Turn == actor.Monster && !gs.Over() {
			f.AwaitingMonster = true
			f.MonsterDelay = e.rules.MonsterDelay
		}
	case PhaseDecision:
		f.Card = gs.CurrentCard
		f.Message = gs.LastMessage
	case PhaseMessage:
		f.Message = gs.LastMessage
	}
	return f
}

// Start opens the session with the intro message. The player takes the
// first question.
func (e *Engine) Start() bool {
	if e.gs.Phase != PhaseIdle {
		return false
	}
	e.gs.Turn = actor.Player
	e.gs.Opening = true
	e.showMessage(EventIntro, "")
	return true
}

// Advance leaves a MESSAGE: it ends the duel if someone is dead, otherwise
// hands the next question to the other actor.
func (e *Engine) Advance() bool {
	gs := e.gs
	if gs.Phase != PhaseMessage || gs.Over() {
		return false
	}
	if e.checkEnd() {
		e.emit()
		return true
	}

	if gs.Opening {
		gs.Opening = false
	} else {
		gs.Turn = gs.Turn.Other()
	}
	e.enterQuestion()
	return true
}

// Answer submits the player's selected option for the current card.
func (e *Engine) Answer(selected int) bool {
	gs := e.gs
	if gs.Phase != PhaseQuestion || gs.Turn != actor.Player || gs.Over() {
		return false
	}
	if gs.CurrentCard == nil || selected < 0 || selected >= len(gs.CurrentCard.Options) {
		return false
	}

	if !e.player.IsCorrect(gs.CurrentCard, selected) {
		shot := e.fireAt(actor.Player)
		gs.Round++
		e.showMessage(EventPlayerWrong, shot)
		return true
	}

	gs.Phase = PhaseDecision
	gs.LastEvent = EventPlayerCorrect
	gs.LastShot = ""
	gs.LastMessage = narrate(EventPlayerCorrect, "")
	e.emit()
	return true
}

// Decide applies the player's shoot or skip choice after a correct answer.
func (e *Engine) Decide(d actor.Decision) bool {
	gs := e.gs
	if gs.Phase != PhaseDecision || gs.Turn != actor.Player || gs.Over() {
		return false
	}

	switch d {
	case actor.Skip:
		gs.Round++
		e.showMessage(EventPlayerSkip, "")
	case actor.Shoot:
		shot := e.fireAt(actor.Monster)
		gs.Round++
		e.showMessage(EventPlayerShoot, shot)
	default:
		return false
	}
	return true
}

// ResolveMonsterTurn plays the monster's question. It runs once per monster
// QUESTION and only for the session it was scheduled in.
func (e *Engine) ResolveMonsterTurn(session uuid.UUID) bool {
	gs := e.gs
	if session != gs.ID {
		e.logger.Debug("Ignoring monster turn from another session", "stale_session", session.String())
		return false
	}
	if gs.Phase != PhaseQuestion || gs.Turn != actor.Monster || gs.Over() {
		return false
	}

	outcome := gs.AI.Decide(e.src)
	target, fires := outcome.Target()

	var shot revolver.Result
	if fires {
		shot = e.fireAt(target)
	}
	gs.Round++

	switch {
	case !outcome.Correct:
		e.showMessage(EventMonsterWrong, shot)
	case fires:
		e.showMessage(EventMonsterShoot, shot)
	default:
		e.showMessage(EventMonsterSkip, "")
	}
	return true
}

func (e *Engine) enterQuestion() {
	gs := e.gs
	gs.Phase = PhaseQuestion
	gs.CurrentCard = gs.Deck.Draw()
	gs.LastEvent = ""
	gs.LastShot = ""
	gs.LastMessage = ""
	e.emit()
}

func (e *Engine) showMessage(ev Event, shot revolver.Result) {
	gs := e.gs
	gs.Phase = PhaseMessage
	gs.LastEvent = ev
	gs.LastShot = shot
	gs.LastMessage = narrate(ev, shot)
	e.emit()
}

// fireAt pulls the trigger with the revolver aimed at target.
func (e *Engine) fireAt(target actor.Actor) revolver.Result {
	gs := e.gs
	shot := gs.Revolver.PullTrigger()

	switch shot {
	case revolver.Spent:
		e.logger.Error("Trigger pulled on a spent revolver",
			"target", string(target),
			"round", gs.Round)
	case revolver.Bang:
		if target == actor.Player {
			gs.PlayerAlive = false
		} else {
			gs.MonsterAlive = false
		}
		e.logger.Info("Shot fired", "target", string(target), "round", gs.Round)
		e.checkEnd()
	}
	return shot
}

// checkEnd records the outcome once an actor is dead.
func (e *Engine) checkEnd() bool {
	gs := e.gs
	if gs.Over() {
		return true
	}
	switch {
	case !gs.PlayerAlive:
		gs.Outcome = OutcomeLost
	case !gs.MonsterAlive:
		gs.Outcome = OutcomeWon
	default:
		return false
	}
	e.logger.Info("Duel over", "outcome", string(gs.Outcome), "round", gs.Round)
	return true
}

func (e *Engine) emit() {
	f := e.Frame()
	e.logger.Debug("Transition",
		"phase", string(f.Phase),
		"turn", string(f.Turn),
		"round", f.Round,
		"event", string(f.Event))
	for _, s := range e.sinks {
		s.Render(f)
	}
}
