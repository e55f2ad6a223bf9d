// Package trophy defines the trophy catalog, the persistence contract, and
// the per-session ledger that decides whether an earned trophy is new.
package trophy

import (
	"context"
	"errors"
	"fmt"

	"github.com/cory-johannsen/sugoroku/internal/game/state"
	"go.uber.org/zap"
)

// ErrUnknownTrophy is returned when a name is not in the catalog.
var ErrUnknownTrophy = errors.New("trophy: unknown trophy")

// Trophy is an immutable catalog entry.
type Trophy struct {
	Name        string
	Description string
}

var catalog = []Trophy{
	{"聖人君子", state.Gentle.Label() + "で1位になる"},
	{"世紀末", state.Violent.Label() + "で1位になる"},
	{"戦々恐々", state.Phobic.Label() + "で1位になる"},
	{"超スマート", state.Smart.Label() + "で1位になる"},
	{"池の主釣り", "巨大魚が倒される"},
	{"腰が重い", "最初に1マスだけ進む"},
	{"挟み撃ち", state.Phobic.Label() + "の人が、来た人を避けようとして前マスの人に阻まれる"},
	{"情緒安定", "一度も性格が変わらずにゴールする"},
	{"ぴったり賞", state.Smart.Label() + "でゴールにぴったり止まる"},
	{"因果応報", "乱暴を働いて返り討ちにあう"},
	{"違法チェック", "違法な立て看板を破壊する"},
	{"境地", "煩悩を消し去ってゴールに至る"},
	{"凶悪犯", "警察官を倒す"},
	{"湖の女神", "湖の女神を倒す"},
	{"曲者退治", "忍者を倒す"},
	{"最強神", "神を倒す"},
	{"身も心も", "研究所で改造されきる"},
}

// All returns the catalog in display order.
func All() []Trophy {
	out := make([]Trophy, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the catalog entry for name.
func Lookup(name string) (Trophy, bool) {
	for _, t := range catalog {
		if t.Name == name {
			return t, true
		}
	}
	return Trophy{}, false
}

// Store persists the global set of earned trophy names.
//
// Implementations MUST be safe for concurrent use; Earn MUST be idempotent.
type Store interface {
	// Load returns every trophy name earned in any previous session.
	Load(ctx context.Context) ([]string, error)
	// Earn records name, reporting whether it was newly added.
	Earn(ctx context.Context, name string) (bool, error)
}

// Ledger awards trophies for one session. The set of names known before the
// session began is snapshotted by Open, so firstTime is stable for a game.
type Ledger struct {
	store  Store
	known  map[string]bool
	logger *zap.Logger
}

// Open snapshots the store's current contents.
//
// Precondition: store and logger are non-nil.
// Postcondition: returns a Ledger or the store's load error.
func Open(ctx context.Context, store Store, logger *zap.Logger) (*Ledger, error) {
	names, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading trophies: %w", err)
	}
	known := make(map[string]bool, len(names))
	for _, n := range names {
		known[n] = true
	}
	return &Ledger{store: store, known: known, logger: logger}, nil
}

// Earn records name on st.
//
// Precondition: name is in the catalog.
// Postcondition: recorded is false when st already holds name. In replay
// mode nothing is persisted and FirstTime is false. A store failure is
// logged and does not prevent the in-game record.
func (l *Ledger) Earn(ctx context.Context, st *state.GameState, name string) (state.EarnedTrophy, bool) {
	if _, ok := Lookup(name); !ok {
		panic(fmt.Sprintf("trophy: Earn precondition violated: %q is not in the catalog", name))
	}
	if st.HasTrophy(name) {
		return state.EarnedTrophy{}, false
	}
	earned := state.EarnedTrophy{Name: name}
	if !st.ReplayMode {
		earned.FirstTime = !l.known[name]
		if _, err := l.store.Earn(ctx, name); err != nil {
			l.logger.Warn("persisting trophy", zap.String("trophy", name), zap.Error(err))
		}
	}
	st.Trophies = append(st.Trophies, earned)
	return earned, true
}
