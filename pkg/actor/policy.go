package actor

import (
	"github.com/jwebster45206/precalc-roulette/pkg/deck"
	"github.com/jwebster45206/precalc-roulette/pkg/dice"
)

// Default opponent tuning.
const (
	DefaultCorrectChance        = 0.6
	DefaultShootChanceOnCorrect = 0.8
)

// PlayerPolicy judges the human's answers. Both the answer and the
// shoot/skip choice come from input; nothing is sampled.
type PlayerPolicy struct{}

// IsCorrect compares the selected option with the card's answer.
func (PlayerPolicy) IsCorrect(card *deck.Card, selected int) bool {
	return card != nil && card.IsCorrect(selected)
}

// AIPolicy is the monster's skill dial. It never reads the card: whether the
// monster "knows" the answer is a single weighted coin.
type AIPolicy struct {
	CorrectChance        float64 `json:"correct_chance"`
	ShootChanceOnCorrect float64 `json:"shoot_chance_on_correct"`
}

// DefaultAIPolicy returns the standard opponent.
func DefaultAIPolicy() AIPolicy {
	return AIPolicy{
		CorrectChance:        DefaultCorrectChance,
		ShootChanceOnCorrect: DefaultShootChanceOnCorrect,
	}
}

// AIOutcome is what the monster did on its turn.
type AIOutcome struct {
	Correct bool
	Shoots  bool // only meaningful when Correct
}

// Decide samples one monster turn. The shoot draw happens only after a
// correct answer.
func (p AIPolicy) Decide(src dice.Source) AIOutcome {
	if !dice.Bernoulli(src, p.CorrectChance) {
		return AIOutcome{}
	}
	return AIOutcome{Correct: true, Shoots: dice.Bernoulli(src, p.ShootChanceOnCorrect)}
}

// Target returns who the monster fires at. ok is false when it skips.
func (o AIOutcome) Target() (target Actor, ok bool) {
	switch {
	case !o.Correct:
		return Monster, true
	case o.Shoots:
		return Player, true
	default:
		return "", false
	}
}

// Valid reports whether both chances are probabilities.
func (p AIPolicy) Valid() bool {
	return p.CorrectChance >= 0 && p.CorrectChance <= 1 &&
		p.ShootChanceOnCorrect >= 0 && p.ShootChanceOnCorrect <= 1
}
