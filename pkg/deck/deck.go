package deck

import (
	"errors"
	"slices"

	"github.com/jwebster45206/precalc-roulette/pkg/dice"
)

var ErrEmptyPool = errors.New("question pool is empty")

// Deck deals cards from a shuffled pass over the pool and reshuffles the
// whole pool once a pass is used up. The pool itself is never modified.
type Deck struct {
	pool       []Card
	order      []*Card
	cursor     int
	reshuffles int
	src        dice.Source
}

// New shuffles the pool into a fresh deck.
func New(pool []Card, src dice.Source) (*Deck, error) {
	if len(pool) == 0 {
		return nil, ErrEmptyPool
	}
	d := &Deck{
		pool:  slices.Clone(pool),
		order: make([]*Card, len(pool)),
		src:   src,
	}
	d.shuffle()
	return d, nil
}

// Draw returns the next card. Cards point into the pool, so callers share
// them by reference.
func (d *Deck) Draw() *Card {
	if d.cursor >= len(d.order) {
		d.shuffle()
		d.reshuffles++
	}
	c := d.order[d.cursor]
	d.cursor++
	return c
}

// Remaining is the number of cards left before the next reshuffle.
func (d *Deck) Remaining() int {
	return len(d.order) - d.cursor
}

// Size is the number of cards in the pool.
func (d *Deck) Size() int {
	return len(d.pool)
}

// Reshuffles counts reshuffles caused by exhausting a pass.
func (d *Deck) Reshuffles() int {
	return d.reshuffles
}

func (d *Deck) shuffle() {
	for i := range d.pool {
		d.order[i] = &d.pool[i]
	}
	dice.Shuffle(d.src, len(d.order), func(i, j int) {
		d.order[i], d.order[j] = d.order[j], d.order[i]
	})
	d.cursor = 0
}
