// Package state holds the mutable game aggregate: the player roster, the
// dice tape, and the per-game trophy record.
package state

import "fmt"

const (
	// GoalPosition is the last space of the track.
	GoalPosition = 50
	// InitialHP is the hp every player starts with and returns to after a knockout.
	InitialHP = 20
	// InitialDesire is the worldly-desire counter reduced by the temple bell.
	InitialDesire = 108
	// InitialBossHP is the starting hp of the boss whose wounds persist across visits.
	InitialBossHP = 100
	// HumanName is the display name of the single human-controlled player.
	HumanName = "あなた"
	// HandWeapon is the catalog name of the bare-hand weapon.
	HandWeapon = "素手"
)

// Personality drives a player's flavor lines, encounters, and combat mitigation.
type Personality string

const (
	Gentle  Personality = "gentle"
	Violent Personality = "violent"
	Phobic  Personality = "phobic"
	Smart   Personality = "smart"
)

// Personalities lists every valid Personality in display order.
var Personalities = []Personality{Gentle, Violent, Phobic, Smart}

// Valid reports whether p is one of the four personalities.
func (p Personality) Valid() bool {
	switch p {
	case Gentle, Violent, Phobic, Smart:
		return true
	}
	return false
}

// Label returns the in-fiction name of p.
func (p Personality) Label() string {
	switch p {
	case Violent:
		return "乱暴"
	case Phobic:
		return "綺麗好き"
	case Smart:
		return "スマート"
	default:
		return "温厚"
	}
}

// DiceKind is the die a player moves with.
type DiceKind string

const (
	D6   DiceKind = "1d6"
	D100 DiceKind = "1d100"
)

// Sides returns the face count of k.
//
// Precondition: k is D6 or D100.
func (k DiceKind) Sides() int {
	switch k {
	case D6:
		return 6
	case D100:
		return 100
	}
	panic(fmt.Sprintf("state: unknown dice kind %q", string(k)))
}

// Valid reports whether k is D6 or D100.
func (k DiceKind) Valid() bool {
	return k == D6 || k == D100
}

// Player is one seat at the table.
//
// Invariant: 0 <= Position <= GoalPosition after every movement step.
type Player struct {
	Name               string
	IsBot              bool
	Turn               int
	Position           int
	Goaled             bool
	Personality        Personality
	PersonalityChanged bool
	HP                 int
	// Weapon is a combat catalog name.
	Weapon   string
	Dice     DiceKind
	Desire   int
	TurnSkip int
}

// NewPlayer returns a player at the start with initial attributes.
func NewPlayer(name string, isBot bool) *Player {
	return &Player{
		Name:        name,
		IsBot:       isBot,
		Personality: Gentle,
		HP:          InitialHP,
		Weapon:      HandWeapon,
		Dice:        D6,
		Desire:      InitialDesire,
	}
}

// EarnedTrophy is one trophy earned during this game.
type EarnedTrophy struct {
	Name      string
	FirstTime bool
}

// GameState is the single mutable resource of a session.
//
// Invariant: CurrentPlayerIndex indexes Players.
// Invariant: DiceHistory only grows.
type GameState struct {
	CurrentPlayerIndex int
	Players            []*Player
	CameraStart        int
	CameraPlayerIndex  int
	// FutureDice is drained FIFO by every roll before any randomness is used.
	FutureDice  []int
	DiceHistory []int
	ReplayMode  bool
	Trophies    []EarnedTrophy
	BossHP      int
}

// New builds the opening state: the human first, then computerPlayers bots
// named CP1..CPn.
//
// Precondition: computerPlayers >= 0.
func New(computerPlayers int) *GameState {
	if computerPlayers < 0 {
		panic("state: New precondition violated: computerPlayers must be >= 0")
	}
	players := make([]*Player, 0, computerPlayers+1)
	players = append(players, NewPlayer(HumanName, false))
	for i := 1; i <= computerPlayers; i++ {
		players = append(players, NewPlayer(fmt.Sprintf("CP%d", i), true))
	}
	return &GameState{Players: players, BossHP: InitialBossHP}
}

// CurrentPlayer returns the player whose turn it is.
func (s *GameState) CurrentPlayer() *Player {
	return s.Players[s.CurrentPlayerIndex]
}

// Human returns the human-controlled player, or nil if the roster has none.
func (s *GameState) Human() *Player {
	for _, p := range s.Players {
		if !p.IsBot {
			return p
		}
	}
	return nil
}

// Advance moves the turn to the next seat circularly.
func (s *GameState) Advance() {
	s.CurrentPlayerIndex = (s.CurrentPlayerIndex + 1) % len(s.Players)
}

// GoaledCount returns how many players have finished.
func (s *GameState) GoaledCount() int {
	n := 0
	for _, p := range s.Players {
		if p.Goaled {
			n++
		}
	}
	return n
}

// At returns every player on pos except skip, in seat order.
func (s *GameState) At(pos int, skip *Player) []*Player {
	var out []*Player
	for _, p := range s.Players {
		if p != skip && p.Position == pos {
			out = append(out, p)
		}
	}
	return out
}

// HasTrophy reports whether name was already earned this game.
func (s *GameState) HasTrophy(name string) bool {
	for _, t := range s.Trophies {
		if t.Name == name {
			return true
		}
	}
	return false
}

// NextFuture dequeues the oldest pre-recorded face.
//
// Postcondition: ok is false and nothing changes when FutureDice is empty.
func (s *GameState) NextFuture() (face int, ok bool) {
	if len(s.FutureDice) == 0 {
		return 0, false
	}
	face = s.FutureDice[0]
	s.FutureDice = s.FutureDice[1:]
	return face, true
}

// Record appends one rolled face to DiceHistory.
func (s *GameState) Record(face int) {
	s.DiceHistory = append(s.DiceHistory, face)
}

// Clone returns a deep copy of s.
func (s *GameState) Clone() *GameState {
	c := *s
	c.Players = make([]*Player, len(s.Players))
	for i, p := range s.Players {
		cp := *p
		c.Players[i] = &cp
	}
	c.FutureDice = append([]int(nil), s.FutureDice...)
	c.DiceHistory = append([]int(nil), s.DiceHistory...)
	c.Trophies = append([]EarnedTrophy(nil), s.Trophies...)
	return &c
}
