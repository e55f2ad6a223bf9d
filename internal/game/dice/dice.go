// Package dice provides the randomness abstraction, dice expressions, and
// roll results for the sugoroku engine.
package dice

import "fmt"

// RollResult holds the full audit trail for a single dice roll.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string // display expression, e.g. "2d6+3"
	Dice       []int  // individual faces in roll order
	Modifier   int    // constant bonus (may be negative)
	// Replayed counts the leading faces taken from the pre-recorded queue.
	Replayed int
}

// Total returns the sum of all faces plus the modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String returns an audit string in the format:
//
//	"2d6+3 → [4 5] +3 = 12"
//
// Precondition: r.Expression is non-empty.
func (r RollResult) String() string {
	if r.Expression == "" {
		panic("dice: RollResult.String() precondition violated: Expression must be non-empty")
	}
	return fmt.Sprintf("%s → %v %+d = %d", r.Expression, r.Dice, r.Modifier, r.Total())
}

// Source is the randomness provider for dice rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// Tape is the per-game record a Roller reads from and writes to.
type Tape interface {
	// NextFuture dequeues a pre-recorded face, reporting false when none remain.
	NextFuture() (int, bool)
	// Record appends a rolled face to the history.
	Record(face int)
}
