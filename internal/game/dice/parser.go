package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Expression is a parsed NdM+K dice expression.
//
// Invariant: Count >= 1, Sides >= 1.
type Expression struct {
	Count    int // number of dice
	Sides    int // faces per die
	Modifier int // constant bonus (may be negative)
}

// Format renders count/sides/bonus the way the game displays rolls:
// "1d6", "2d6+3", "1d10-2".
func Format(count, sides, bonus int) string {
	s := fmt.Sprintf("%dd%d", count, sides)
	switch {
	case bonus > 0:
		s += fmt.Sprintf("+%d", bonus)
	case bonus < 0:
		s += strconv.Itoa(bonus)
	}
	return s
}

// String returns the display form of e.
func (e Expression) String() string {
	return Format(e.Count, e.Sides, e.Modifier)
}

// Expected returns the mean total of e.
//
// Postcondition: Expected() == Count*(Sides+1)/2 + Modifier.
func (e Expression) Expected() float64 {
	return float64(e.Count)*float64(e.Sides+1)/2 + float64(e.Modifier)
}

// Parse parses a dice expression string into an Expression.
// Supported forms: "d20", "2d6", "2d6+3", "4d8-2".
//
// Precondition: expr must be a non-empty string.
// Postcondition: Returns a valid Expression or a descriptive error.
func Parse(expr string) (Expression, error) {
	if expr == "" {
		return Expression{}, fmt.Errorf("dice: empty expression")
	}
	s := strings.ToLower(strings.TrimSpace(expr))

	countStr, rest, ok := strings.Cut(s, "d")
	if !ok {
		return Expression{}, fmt.Errorf("dice: missing 'd' in expression %q", expr)
	}

	count := 1
	if countStr != "" {
		var err error
		count, err = strconv.Atoi(countStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: %w", expr, err)
		}
		if count <= 0 {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: must be >= 1", expr)
		}
	}

	sidesStr, modStr := rest, ""
	if i := strings.IndexAny(rest, "+-"); i > 0 {
		sidesStr, modStr = rest[:i], rest[i:]
	}

	sides, err := strconv.Atoi(sidesStr)
	if err != nil {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q: %w", expr, err)
	}
	if sides < 1 {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q: must be >= 1", expr)
	}

	modifier := 0
	if modStr != "" {
		modifier, err = strconv.Atoi(modStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid modifier in %q: %w", expr, err)
		}
	}
	return Expression{Count: count, Sides: sides, Modifier: modifier}, nil
}

// MustParse parses expr and panics on error. Useful for package-level tables.
//
// Precondition: expr must be a valid dice expression.
func MustParse(expr string) Expression {
	e, err := Parse(expr)
	if err != nil {
		panic("dice: MustParse failed for expression " + expr + ": " + err.Error())
	}
	return e
}
