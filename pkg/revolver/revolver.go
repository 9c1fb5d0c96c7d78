package revolver

import (
	"errors"
	"fmt"

	"github.com/jwebster45206/precalc-roulette/pkg/dice"
)

// DefaultChambers is the cylinder size of a standard six-shooter.
const DefaultChambers = 6

var ErrInvalidChambers = errors.New("revolver needs at least one chamber")

// Result is the outcome of a single trigger pull.
type Result string

const (
	NoBang Result = "click"
	Bang   Result = "bang"
	// Spent is reported for every pull after the bullet has been fired.
	Spent Result = "spent"
)

// Revolver holds one bullet in a rotating cylinder.
// BulletIndex is fixed at load time; CylinderIndex advances one chamber per pull.
type Revolver struct {
	Chambers      int  `json:"chambers"`
	BulletIndex   int  `json:"bullet_index"`
	CylinderIndex int  `json:"cylinder_index"`
	Fired         bool `json:"fired"`
}

// New loads a single bullet and spins the cylinder, both uniformly at random.
func New(chambers int, src dice.Source) (*Revolver, error) {
	if chambers < 1 {
		return nil, ErrInvalidChambers
	}
	return &Revolver{
		Chambers:      chambers,
		BulletIndex:   src.Intn(chambers),
		CylinderIndex: src.Intn(chambers),
	}, nil
}

// Load builds a revolver with a known bullet and hammer position.
func Load(chambers, bullet, cylinder int) (*Revolver, error) {
	if chambers < 1 {
		return nil, ErrInvalidChambers
	}
	if bullet < 0 || bullet >= chambers {
		return nil, fmt.Errorf("bullet index %d out of range [0, %d)", bullet, chambers)
	}
	if cylinder < 0 || cylinder >= chambers {
		return nil, fmt.Errorf("cylinder index %d out of range [0, %d)", cylinder, chambers)
	}
	return &Revolver{Chambers: chambers, BulletIndex: bullet, CylinderIndex: cylinder}, nil
}

// PullTrigger fires the chamber under the hammer, then rotates the cylinder.
// Once the bullet is gone every pull is Spent and nothing moves.
func (r *Revolver) PullTrigger() Result {
	if r.Fired {
		return Spent
	}

	bang := r.CylinderIndex == r.BulletIndex
	r.CylinderIndex = (r.CylinderIndex + 1) % r.Chambers
	if bang {
		r.Fired = true
		return Bang
	}
	return NoBang
}

// Describe is safe to show to players: it never reveals where the bullet sits.
func (r *Revolver) Describe() string {
	if r.Fired {
		return fmt.Sprintf("Revolver: %d chambers, spent", r.Chambers)
	}
	return fmt.Sprintf("Revolver: 1 bullet, %d chambers (position unknown)", r.Chambers)
}
