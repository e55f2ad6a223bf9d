package scripting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"pgregory.net/rapid"
)

func TestNewSandboxedState_UnsafeLibsNil(t *testing.T) {
	L := NewSandboxedState()
	defer L.Close()
	for _, name := range []string{"os", "io", "debug", "package"} {
		assert.Equal(t, lua.LNil, L.GetGlobal(name), "expected %s to be nil", name)
	}
}

func TestNewSandboxedState_DangerousGlobalsNil(t *testing.T) {
	L := NewSandboxedState()
	defer L.Close()
	for _, name := range unsafeGlobals {
		assert.Equal(t, lua.LNil, L.GetGlobal(name), "expected %s to be nil", name)
	}
}

func TestNewSandboxedState_NoLuaRandomness(t *testing.T) {
	L := NewSandboxedState()
	defer L.Close()
	require.NoError(t, L.DoString(`assert(math.random == nil and math.randomseed == nil)`))
}

func TestNewSandboxedState_SafeLibsAvailable(t *testing.T) {
	L := NewSandboxedState()
	defer L.Close()
	err := L.DoString(`
		local x = math.floor(4.5)
		assert(x == 4, "math.floor failed")
		local s = string.upper("hello")
		assert(s == "HELLO", "string.upper failed")
		local t = {}
		table.insert(t, 1)
		assert(#t == 1, "table.insert failed")
	`)
	assert.NoError(t, err)
}

func TestLimited_InstructionLimitExceeded(t *testing.T) {
	L := NewSandboxedState()
	defer L.Close()
	stop := limited(L, 10)
	defer stop()
	assert.Error(t, L.DoString(`while true do end`))
}

func TestLimited_BudgetIsPerCall(t *testing.T) {
	L := NewSandboxedState()
	defer L.Close()
	for i := 0; i < 3; i++ {
		stop := limited(L, 1000)
		assert.NoError(t, L.DoString(`local n = 0 for i = 1, 50 do n = n + i end`))
		stop()
	}
}

func TestLimited_DefaultLimitRunsNormalScript(t *testing.T) {
	L := NewSandboxedState()
	defer L.Close()
	stop := limited(L, 0)
	defer stop()
	assert.NoError(t, L.DoString(`local x = 1 + 1`))
}

func TestProperty_InstructionLimitAlwaysErrors(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		limit := rapid.IntRange(1, 50).Draw(t, "limit")
		L := NewSandboxedState()
		defer L.Close()
		stop := limited(L, limit)
		defer stop()
		if L.DoString(`while true do end`) == nil {
			t.Fatalf("expected error with limit=%d but got nil", limit)
		}
	})
}
