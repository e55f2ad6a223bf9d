package dice_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cory-johannsen/sugoroku/internal/game/dice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"
)

// tape is an in-memory dice.Tape.
type tape struct {
	future  []int
	history []int
}

func (t *tape) NextFuture() (int, bool) {
	if len(t.future) == 0 {
		return 0, false
	}
	f := t.future[0]
	t.future = t.future[1:]
	return f, true
}

func (t *tape) Record(face int) { t.history = append(t.history, face) }

// fixedSrc always returns v.
type fixedSrc struct{ v int }

func (f fixedSrc) Intn(n int) int { return f.v % n }

func TestRollResult_String(t *testing.T) {
	r := dice.RollResult{Expression: "2d6+3", Dice: []int{4, 5}, Modifier: 3}
	assert.Equal(t, 12, r.Total())
	assert.Equal(t, "2d6+3 → [4 5] +3 = 12", r.String())
}

func TestRollResult_String_PanicsOnEmptyExpression(t *testing.T) {
	r := dice.RollResult{Dice: []int{4}}
	assert.Panics(t, func() { _ = r.String() })
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "1d6", dice.Format(1, 6, 0))
	assert.Equal(t, "2d6+3", dice.Format(2, 6, 3))
	assert.Equal(t, "1d10-2", dice.Format(1, 10, -2))
}

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want dice.Expression
	}{
		{"d20", dice.Expression{Count: 1, Sides: 20}},
		{"2d6", dice.Expression{Count: 2, Sides: 6}},
		{"3d6+2", dice.Expression{Count: 3, Sides: 6, Modifier: 2}},
		{"1D10-1", dice.Expression{Count: 1, Sides: 10, Modifier: -1}},
	}
	for _, c := range cases {
		got, err := dice.Parse(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
	for _, bad := range []string{"", "6", "0d6", "xd6", "2d", "2d6+x"} {
		_, err := dice.Parse(bad)
		assert.Error(t, err, bad)
	}
	assert.Panics(t, func() { dice.MustParse("nope") })
}

func TestExpected(t *testing.T) {
	assert.InDelta(t, 3.5, dice.MustParse("1d6").Expected(), 1e-9)
	assert.InDelta(t, 12.5, dice.MustParse("3d6+2").Expected(), 1e-9)
}

func TestParse_FormatRoundTrip_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := rapid.IntRange(1, 10).Draw(rt, "count")
		s := rapid.IntRange(1, 100).Draw(rt, "sides")
		b := rapid.IntRange(-20, 20).Draw(rt, "bonus")
		e, err := dice.Parse(dice.Format(c, s, b))
		require.NoError(rt, err)
		assert.Equal(rt, dice.Expression{Count: c, Sides: s, Modifier: b}, e)
	})
}

func TestRoller_DrainsFutureBeforeSource(t *testing.T) {
	r := dice.NewRoller(fixedSrc{v: 0}, zap.NewNop())
	tp := &tape{future: []int{5}}
	res := r.Draw(dice.MustParse("3d6+1"), tp)
	assert.Equal(t, []int{5, 1, 1}, res.Dice)
	assert.Equal(t, 1, res.Replayed)
	assert.Equal(t, 8, res.Total())
	assert.Equal(t, []int{5, 1, 1}, tp.history)
	assert.Empty(t, tp.future)
}

func TestRoller_UsesQueuedFacesVerbatim(t *testing.T) {
	r := dice.NewRoller(fixedSrc{v: 0}, zap.NewNop())
	tp := &tape{future: []int{88, 3}}
	res := r.Draw(dice.MustParse("2d6"), tp)
	assert.Equal(t, []int{88, 3}, res.Dice)
	assert.Equal(t, 2, res.Replayed)
	assert.Equal(t, res.Dice, tp.history)
}

// Dice conservation: N faces in [1,M], appended to history in roll order.
func TestRoller_Conservation_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(rt, "count")
		m := rapid.IntRange(1, 100).Draw(rt, "sides")
		bonus := rapid.IntRange(-5, 5).Draw(rt, "bonus")
		seed := rapid.Uint64().Draw(rt, "seed")
		tp := &tape{history: []int{99}}
		r := dice.NewRoller(dice.NewSeededSource(seed), zap.NewNop())

		res := r.Draw(dice.Expression{Count: n, Sides: m, Modifier: bonus}, tp)

		require.Len(rt, res.Dice, n)
		sum := 0
		for _, f := range res.Dice {
			assert.GreaterOrEqual(rt, f, 1)
			assert.LessOrEqual(rt, f, m)
			sum += f
		}
		assert.Equal(rt, sum, res.Total()-bonus)
		assert.Equal(rt, append([]int{99}, res.Dice...), tp.history)
	})
}

func TestSeededSource_Reproducible(t *testing.T) {
	a, b := dice.NewSeededSource(7), dice.NewSeededSource(7)
	var sa, sb strings.Builder
	for i := 0; i < 50; i++ {
		fmt.Fprint(&sa, a.Intn(100), ",")
		fmt.Fprint(&sb, b.Intn(100), ",")
	}
	assert.Equal(t, sa.String(), sb.String())
	assert.Panics(t, func() { a.Intn(0) })
}

func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
	assert.Panics(t, func() { src.Intn(0) })
}
