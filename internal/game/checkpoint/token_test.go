package checkpoint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/sugoroku/internal/game/checkpoint"
	"github.com/cory-johannsen/sugoroku/internal/game/state"
)

func TestPack_RoundTripsThroughDecode(t *testing.T) {
	st := state.New(3)
	st.Players[1].Position = 12
	st.DiceHistory = []int{3, 5, 1}

	data, err := checkpoint.Encode(st)
	require.NoError(t, err)
	tok, err := checkpoint.Pack(data)
	require.NoError(t, err)
	assert.NotContains(t, tok, "\n")
	assert.NotContains(t, tok, "=")

	raw, err := checkpoint.Unpack(tok)
	require.NoError(t, err)
	got, err := checkpoint.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, 12, got.Players[1].Position)
	assert.Equal(t, []int{3, 5, 1}, got.DiceHistory)
}

func TestUnpack_RejectsGarbage(t *testing.T) {
	for _, tok := range []string{"!!", "aGVsbG8", ""} {
		_, err := checkpoint.Unpack(tok)
		assert.ErrorIs(t, err, checkpoint.ErrMalformedToken, "token %q", tok)
	}
}
