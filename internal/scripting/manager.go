package scripting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
	"go.uber.org/zap"

	"github.com/cory-johannsen/sugoroku/internal/game/play"
	"github.com/cory-johannsen/sugoroku/internal/game/state"
)

// ErrInvalidSpace is returned when a script does not declare a usable space table.
var ErrInvalidSpace = errors.New("scripting: invalid space declaration")

// Registry is where loaded spaces are placed; *board.Registry satisfies it.
type Registry interface {
	Register(pos int, s play.Space) error
}

// Space is one compiled space script.
//
// A Space is safe for concurrent use: every event runs in its own VM.
type Space struct {
	Position int
	Name     string
	Hospital bool
	Path     string

	proto  *lua.FunctionProto
	limit  int
	logger *zap.Logger
}

// Manager compiles space scripts with shared limits.
type Manager struct {
	limit  int
	logger *zap.Logger
}

// NewManager creates a Manager.
//
// Precondition: logger must be non-nil; instLimit >= 0 (0 uses DefaultInstructionLimit).
func NewManager(instLimit int, logger *zap.Logger) *Manager {
	if instLimit <= 0 {
		instLimit = DefaultInstructionLimit
	}
	return &Manager{limit: instLimit, logger: logger}
}

// LoadDir compiles every *.lua file in dir in lexicographic order.
//
// Postcondition: returns one Space per file, or the first error.
func (m *Manager) LoadDir(dir string) ([]*Space, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scripting: reading space dir %q: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	spaces := make([]*Space, 0, len(paths))
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("scripting: reading %q: %w", path, err)
		}
		s, err := m.Compile(path, string(src))
		if err != nil {
			return nil, err
		}
		spaces = append(spaces, s)
	}
	return spaces, nil
}

// Compile parses src and evaluates it once to read its space table:
//
//	space = { position = 7, name = "占い師", hospital = false }
//	function generate(game) ... end
//
// Precondition: name identifies src in error messages.
// Postcondition: the returned Space has 0 < Position < state.GoalPosition
// and a non-empty Name.
func (m *Manager) Compile(name, src string) (*Space, error) {
	chunk, err := parse.Parse(strings.NewReader(src), name)
	if err != nil {
		return nil, fmt.Errorf("scripting: parsing %q: %w", name, err)
	}
	proto, err := lua.Compile(chunk, name)
	if err != nil {
		return nil, fmt.Errorf("scripting: compiling %q: %w", name, err)
	}

	L := NewSandboxedState()
	defer L.Close()
	if err := evaluate(L, proto, m.limit); err != nil {
		return nil, fmt.Errorf("scripting: loading %q: %w", name, err)
	}

	decl, ok := L.GetGlobal("space").(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("%w: %q has no space table", ErrInvalidSpace, name)
	}
	pos, ok := decl.RawGetString("position").(lua.LNumber)
	if !ok || int(pos) <= 0 || int(pos) >= state.GoalPosition || lua.LNumber(int(pos)) != pos {
		return nil, fmt.Errorf("%w: %q position must be an integer in 1-%d", ErrInvalidSpace, name, state.GoalPosition-1)
	}
	label, ok := decl.RawGetString("name").(lua.LString)
	if !ok || label == "" {
		return nil, fmt.Errorf("%w: %q name must be a non-empty string", ErrInvalidSpace, name)
	}
	if _, ok := L.GetGlobal("generate").(*lua.LFunction); !ok {
		return nil, fmt.Errorf("%w: %q must define generate(game)", ErrInvalidSpace, name)
	}

	return &Space{
		Position: int(pos),
		Name:     string(label),
		Hospital: lua.LVAsBool(decl.RawGetString("hospital")),
		Path:     name,
		proto:    proto,
		limit:    m.limit,
		logger:   m.logger.With(zap.String("script", name)),
	}, nil
}

// Install registers every space on reg.
func Install(reg Registry, spaces []*Space) error {
	for _, s := range spaces {
		if err := reg.Register(s.Position, s.Play()); err != nil {
			return fmt.Errorf("scripting: installing %q: %w", s.Path, err)
		}
	}
	return nil
}

func evaluate(L *lua.LState, proto *lua.FunctionProto, limit int) error {
	stop := limited(L, limit)
	defer stop()
	L.Push(L.NewFunctionFromProto(proto))
	return L.PCall(0, lua.MultRet, nil)
}

// Play returns the board entry that runs this script as its event.
func (s *Space) Play() play.Space {
	return play.Space{Name: s.Name, Hospital: s.Hospital, Generate: s.generate}
}

// generate runs the script's generate(game) for the current player. Lua
// errors, including an exhausted instruction budget, end the event early
// and are logged at Warn; logs already emitted stand.
func (s *Space) generate(g *play.Game) {
	L := NewSandboxedState()
	defer L.Close()

	if err := evaluate(L, s.proto, s.limit); err != nil {
		s.logger.Warn("scripting: Lua load error", zap.Error(err))
		return
	}

	h := &host{g: g, p: g.Current()}
	stop := limited(L, s.limit)
	err := L.CallByParam(lua.P{
		Fn:      L.GetGlobal("generate"),
		NRet:    0,
		Protect: true,
	}, h.table(L))
	stop()

	if h.aborted != nil {
		panic(h.aborted)
	}
	if err != nil {
		s.logger.Warn("scripting: Lua runtime error",
			zap.String("space", s.Name),
			zap.Int("position", s.Position),
			zap.Error(err),
		)
	}
}
