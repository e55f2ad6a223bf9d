// Package board holds the space registry and every built-in space event.
package board

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cory-johannsen/sugoroku/internal/game/play"
	"github.com/cory-johannsen/sugoroku/internal/game/state"
)

// ErrOccupied is returned when registering on a position that already has a space.
var ErrOccupied = errors.New("board: position already has a space")

// ErrOutOfRange is returned for positions outside 0..GoalPosition.
var ErrOutOfRange = errors.New("board: position out of range")

// Registry maps positions to spaces. A Registry is built once and then only
// read; it is safe for concurrent reads after construction.
type Registry struct {
	spaces map[int]play.Space
}

// NewRegistry returns an empty board.
func NewRegistry() *Registry {
	return &Registry{spaces: make(map[int]play.Space)}
}

// Space implements play.Board.
func (r *Registry) Space(pos int) (play.Space, bool) {
	s, ok := r.spaces[pos]
	return s, ok
}

// Register places s at pos.
//
// Precondition: 0 <= pos <= state.GoalPosition and pos is free.
// Postcondition: Space(pos) returns s.
func (r *Registry) Register(pos int, s play.Space) error {
	if pos < 0 || pos > state.GoalPosition {
		return fmt.Errorf("%w: %d", ErrOutOfRange, pos)
	}
	if existing, ok := r.spaces[pos]; ok {
		return fmt.Errorf("%w: %d (%s)", ErrOccupied, pos, existing.Name)
	}
	r.spaces[pos] = s
	return nil
}

// Positions returns every occupied position in ascending order.
func (r *Registry) Positions() []int {
	out := make([]int, 0, len(r.spaces))
	for p := range r.spaces {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

// Default returns the standard track.
func Default() *Registry {
	r := NewRegistry()
	for pos, s := range map[int]play.Space{
		0:                  start,
		3:                  bookstore,
		4:                  live,
		5:                  library,
		6:                  hauntedHouse,
		8:                  spikyFloor,
		9:                  konbini,
		10:                 hospital,
		12:                 fishing,
		14:                 speech,
		15:                 weaponShop,
		17:                 ninjaGarden,
		19:                 pitfall,
		20:                 hospital,
		21:                 signboard,
		23:                 newYearBell,
		24:                 seminar,
		25:                 onlineGame,
		26:                 hygiene,
		28:                 shortcut,
		29:                 laboratory,
		30:                 hospital,
		32:                 lake,
		35:                 police,
		37:                 spikyFloor,
		40:                 hospital,
		42:                 stoneMonument,
		44:                 pitfall,
		45:                 temple,
		47:                 konbini,
		state.GoalPosition: goal,
	} {
		if err := r.Register(pos, s); err != nil {
			panic(err)
		}
	}
	return r
}

var (
	start = play.Space{Name: "スタート", Hospital: true}
	goal  = play.Space{Name: "ゴール", Hospital: true}
)

// pick returns the entry for p's personality.
func pick[T any](p *state.Player, m map[state.Personality]T) T {
	return m[p.Personality]
}
