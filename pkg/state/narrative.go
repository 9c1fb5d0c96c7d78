package state

import (
	"strings"

	"github.com/jwebster45206/precalc-roulette/pkg/actor"
	"github.com/jwebster45206/precalc-roulette/pkg/revolver"
)

// Event names the action that produced the latest message.
type Event string

const (
	EventIntro         Event = "intro"
	EventPlayerWrong   Event = "player_wrong"
	EventPlayerCorrect Event = "player_correct"
	EventPlayerSkip    Event = "player_skip"
	EventPlayerShoot   Event = "player_shoot"
	EventMonsterWrong  Event = "monster_wrong"
	EventMonsterSkip   Event = "monster_skip"
	EventMonsterShoot  Event = "monster_shoot"
)

var eventLines = map[Event][]string{
	EventIntro: {
		"The monster tosses the revolver onto the table.",
		"A single bullet is loaded, the cylinder is spun.",
		"The deck is shuffled.",
		"You go first.",
	},
	EventPlayerWrong:   {"Wrong.", "You must turn the revolver on yourself."},
	EventPlayerCorrect: {"Correct.", "The monster leans forward.", "Shoot the monster, or skip the shot?"},
	EventPlayerSkip:    {"You skip the shot. The cylinder stays a mystery."},
	EventPlayerShoot:   {"You aim at the monster."},
	EventMonsterWrong:  {"The monster snarls, then hesitates.", "Wrong.", "It is forced to shoot itself."},
	EventMonsterSkip:   {"Correct.", "The monster grins and decides to wait.", "It skips the shot."},
	EventMonsterShoot:  {"Correct.", "The monster takes the revolver and points it at you."},
}

var shotLines = map[revolver.Result]string{
	revolver.Bang:   "BANG.",
	revolver.NoBang: "Click... empty.",
	revolver.Spent:  "The hammer falls on a spent chamber.",
}

// narrate builds the message for an event. shot is empty when no trigger was pulled.
func narrate(ev Event, shot revolver.Result) string {
	lines := append([]string(nil), eventLines[ev]...)
	if shot != "" {
		lines = append(lines, shotLines[shot])
	}
	return strings.Join(lines, "\n")
}

// CardPrompt is the line shown above a card.
func CardPrompt(turn actor.Actor) string {
	if turn == actor.Monster {
		return "The monster draws a card. It is thinking..."
	}
	return "You draw a card. Pick an answer."
}

// EndTitle is the headline of the end screen.
func EndTitle(o Outcome) string {
	if o == OutcomeWon {
		return "YOU WON!"
	}
	return "GAME LOST"
}

// EndSubtitle is the closing line of the end screen.
func EndSubtitle(o Outcome) string {
	if o == OutcomeWon {
		return "The shackles fall. The door is open. You escape into the night."
	}
	return "The lamp flickers. The monster laughs. Everything fades."
}
