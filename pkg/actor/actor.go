package actor

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Actor is one of the two turn-holders at the table.
type Actor string

const (
	Player  Actor = "player"
	Monster Actor = "monster"
)

// Other returns the opposing actor.
func (a Actor) Other() Actor {
	if a == Player {
		return Monster
	}
	return Player
}

// Title returns the display name, e.g. "Monster".
func (a Actor) Title() string {
	if a == Player {
		return "You"
	}
	return cases.Title(language.English).String(string(a))
}

// Decision is the choice an actor makes after answering correctly.
type Decision string

const (
	Shoot Decision = "shoot"
	Skip  Decision = "skip"
)
