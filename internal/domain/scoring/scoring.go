// Package scoring computes per-slot points for a resolved prediction against
// an official result. It is pure: no I/O, fully deterministic.
package scoring

import (
	"github.com/prixsix/engine/internal/domain/model"
)

// Default point scale. Exact placement dominates, but a competitor landing
// anywhere in the top six still earns points, so low-information predictions
// never score zero across the board.
const (
	defaultExactPoints    = 6
	defaultAdjacentPoints = 4
	defaultNearPoints     = 3
	defaultFarPoints      = 2
	defaultBonusPoints    = 10
)

// Breakdown is the scored outcome for one prediction.
type Breakdown struct {
	PerSlot [model.SlotCount]int
	Bonus   int
	Total   int
}

// PerfectSet reports whether the perfect-set bonus was earned.
func (b Breakdown) PerfectSet() bool {
	return b.Bonus > 0
}

// Engine scores predictions using a distance-based point scale plus a
// perfect-set bonus.
type Engine struct {
	exactPoints    int
	adjacentPoints int
	nearPoints     int
	farPoints      int
	bonusPoints    int
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithPointScale overrides the distance-based point scale. Values must be
// non-negative and ordered so closer guesses never score less.
func WithPointScale(exact, adjacent, near, far int) Option {
	return func(e *Engine) {
		if exact >= adjacent && adjacent >= near && near >= far && far >= 0 {
			e.exactPoints = exact
			e.adjacentPoints = adjacent
			e.nearPoints = near
			e.farPoints = far
		}
	}
}

// WithBonusPoints overrides the flat perfect-set bonus.
func WithBonusPoints(bonus int) Option {
	return func(e *Engine) {
		if bonus >= 0 {
			e.bonusPoints = bonus
		}
	}
}

// NewEngine creates a scoring engine with the league's default point scale.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		exactPoints:    defaultExactPoints,
		adjacentPoints: defaultAdjacentPoints,
		nearPoints:     defaultNearPoints,
		farPoints:      defaultFarPoints,
		bonusPoints:    defaultBonusPoints,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Score computes the per-slot breakdown of predicted against actual.
//
// For the competitor predicted at slot i: absent from the top six scores 0;
// an exact position match scores full points; otherwise points fall off with
// the distance between predicted and actual position. If all six predicted
// competitors appear somewhere in the top six, the flat bonus applies once.
func (e *Engine) Score(predicted, actual [model.SlotCount]string) Breakdown {
	actualPos := make(map[string]int, model.SlotCount)
	for i, id := range actual {
		actualPos[id] = i
	}

	var b Breakdown
	allPresent := true
	for i, id := range predicted {
		pos, present := actualPos[id]
		if !present {
			allPresent = false
			continue
		}
		b.PerSlot[i] = e.slotPoints(i, pos)
	}

	if allPresent {
		b.Bonus = e.bonusPoints
	}

	for _, pts := range b.PerSlot {
		b.Total += pts
	}
	b.Total += b.Bonus

	return b
}

// slotPoints maps the distance between predicted and actual position onto
// the point scale.
func (e *Engine) slotPoints(predicted, actual int) int {
	d := predicted - actual
	if d < 0 {
		d = -d
	}
	switch d {
	case 0:
		return e.exactPoints
	case 1:
		return e.adjacentPoints
	case 2:
		return e.nearPoints
	default:
		return e.farPoints
	}
}
