// Package checkpoint serializes GameState to a versioned YAML snapshot and
// validates snapshots before they are turned back into state.
package checkpoint

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/sugoroku/internal/game/combat"
	"github.com/cory-johannsen/sugoroku/internal/game/state"
	"github.com/cory-johannsen/sugoroku/internal/game/trophy"
	"github.com/cory-johannsen/sugoroku/internal/replay"
)

// Version is the snapshot format written by Encode.
const Version = 1

var (
	ErrUnsupportedVersion = errors.New("checkpoint: unsupported version")
	ErrUnknownWeapon      = errors.New("checkpoint: unknown weapon")
	ErrInvalidPersonality = errors.New("checkpoint: invalid personality")
	ErrUnknownDiceKind    = errors.New("checkpoint: unknown dice kind")
	ErrUnknownTrophy      = errors.New("checkpoint: unknown trophy")
	ErrInvalidState       = errors.New("checkpoint: invalid state")
)

type yamlSnapshot struct {
	Version int       `yaml:"version"`
	State   yamlState `yaml:"state"`
}

type yamlState struct {
	CurrentPlayerIndex int          `yaml:"current_player_index"`
	Players            []yamlPlayer `yaml:"players"`
	CameraStart        int          `yaml:"camera_start"`
	CameraPlayerIndex  int          `yaml:"camera_player_index"`
	FutureDice         []int        `yaml:"future_dice,flow,omitempty"`
	DiceHistory        []int        `yaml:"dice_history,flow,omitempty"`
	ReplayMode         bool         `yaml:"replay_mode"`
	Trophies           []yamlTrophy `yaml:"trophies,omitempty"`
	BossHP             int          `yaml:"boss_hp"`
}

type yamlPlayer struct {
	Name               string `yaml:"name"`
	IsBot              bool   `yaml:"is_bot"`
	Turn               int    `yaml:"turn"`
	Position           int    `yaml:"position"`
	Goaled             bool   `yaml:"goaled"`
	Personality        string `yaml:"personality"`
	PersonalityChanged bool   `yaml:"personality_changed"`
	HP                 int    `yaml:"hp"`
	Weapon             string `yaml:"weapon"`
	Dice               string `yaml:"dice"`
	Desire             int    `yaml:"desire"`
	TurnSkip           int    `yaml:"turn_skip"`
}

type yamlTrophy struct {
	Name      string `yaml:"name"`
	FirstTime bool   `yaml:"first_time"`
}

// Encode renders st as a snapshot.
//
// Postcondition: Decode(Encode(st)) reconstructs a state equal to st.
func Encode(st *state.GameState) ([]byte, error) {
	doc := yamlSnapshot{Version: Version, State: yamlState{
		CurrentPlayerIndex: st.CurrentPlayerIndex,
		CameraStart:        st.CameraStart,
		CameraPlayerIndex:  st.CameraPlayerIndex,
		FutureDice:         st.FutureDice,
		DiceHistory:        st.DiceHistory,
		ReplayMode:         st.ReplayMode,
		BossHP:             st.BossHP,
	}}
	for _, p := range st.Players {
		doc.State.Players = append(doc.State.Players, yamlPlayer{
			Name:               p.Name,
			IsBot:              p.IsBot,
			Turn:               p.Turn,
			Position:           p.Position,
			Goaled:             p.Goaled,
			Personality:        string(p.Personality),
			PersonalityChanged: p.PersonalityChanged,
			HP:                 p.HP,
			Weapon:             p.Weapon,
			Dice:               string(p.Dice),
			Desire:             p.Desire,
			TurnSkip:           p.TurnSkip,
		})
	}
	for _, t := range st.Trophies {
		doc.State.Trophies = append(doc.State.Trophies, yamlTrophy{Name: t.Name, FirstTime: t.FirstTime})
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding checkpoint: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding checkpoint: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses and validates a snapshot. Unknown fields are rejected.
//
// Postcondition: on error the returned state is nil; every validation
// failure is reported and each wraps one of the package sentinels.
func Decode(data []byte) (*state.GameState, error) {
	var doc yamlSnapshot
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: parsing checkpoint: %v", ErrInvalidState, err)
	}
	if doc.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}
	st := convertYAMLState(doc.State)
	if err := Validate(st); err != nil {
		return nil, err
	}
	return st, nil
}

func convertYAMLState(ys yamlState) *state.GameState {
	st := &state.GameState{
		CurrentPlayerIndex: ys.CurrentPlayerIndex,
		CameraStart:        ys.CameraStart,
		CameraPlayerIndex:  ys.CameraPlayerIndex,
		FutureDice:         ys.FutureDice,
		DiceHistory:        ys.DiceHistory,
		ReplayMode:         ys.ReplayMode,
		BossHP:             ys.BossHP,
	}
	for _, yp := range ys.Players {
		st.Players = append(st.Players, &state.Player{
			Name:               yp.Name,
			IsBot:              yp.IsBot,
			Turn:               yp.Turn,
			Position:           yp.Position,
			Goaled:             yp.Goaled,
			Personality:        state.Personality(yp.Personality),
			PersonalityChanged: yp.PersonalityChanged,
			HP:                 yp.HP,
			Weapon:             yp.Weapon,
			Dice:               state.DiceKind(yp.Dice),
			Desire:             yp.Desire,
			TurnSkip:           yp.TurnSkip,
		})
	}
	for _, yt := range ys.Trophies {
		st.Trophies = append(st.Trophies, state.EarnedTrophy{Name: yt.Name, FirstTime: yt.FirstTime})
	}
	return st
}

// Validate checks that st can be handed to the engine: the game is still
// running, every counter is non-negative, and every name resolves.
func Validate(st *state.GameState) error {
	var errs []error
	if len(st.Players) == 0 {
		errs = append(errs, fmt.Errorf("%w: no players", ErrInvalidState))
	}
	if st.CurrentPlayerIndex < 0 || st.CurrentPlayerIndex >= len(st.Players) {
		errs = append(errs, fmt.Errorf("%w: current_player_index %d out of range", ErrInvalidState, st.CurrentPlayerIndex))
	}
	if st.CameraPlayerIndex < 0 || (len(st.Players) > 0 && st.CameraPlayerIndex >= len(st.Players)) {
		errs = append(errs, fmt.Errorf("%w: camera_player_index %d out of range", ErrInvalidState, st.CameraPlayerIndex))
	}
	humans, goaled := 0, 0
	for i, p := range st.Players {
		if !p.IsBot {
			humans++
			if p.Goaled {
				errs = append(errs, fmt.Errorf("%w: human player %d already goaled", ErrInvalidState, i))
			}
		}
		if p.Goaled {
			goaled++
			if p.Position != state.GoalPosition {
				errs = append(errs, fmt.Errorf("%w: goaled player %d at position %d", ErrInvalidState, i, p.Position))
			}
		}
		if p.Position < 0 || p.Position > state.GoalPosition {
			errs = append(errs, fmt.Errorf("%w: player %d position %d", ErrInvalidState, i, p.Position))
		}
		if p.Turn < 0 {
			errs = append(errs, fmt.Errorf("%w: player %d turn %d", ErrInvalidState, i, p.Turn))
		}
		if p.TurnSkip < 0 {
			errs = append(errs, fmt.Errorf("%w: player %d turn_skip %d", ErrInvalidState, i, p.TurnSkip))
		}
		if p.Desire < 0 {
			errs = append(errs, fmt.Errorf("%w: player %d desire %d", ErrInvalidState, i, p.Desire))
		}
		if !p.Personality.Valid() {
			errs = append(errs, fmt.Errorf("%w: player %d %q", ErrInvalidPersonality, i, p.Personality))
		}
		if _, ok := combat.Lookup(p.Weapon); !ok {
			errs = append(errs, fmt.Errorf("%w: player %d %q", ErrUnknownWeapon, i, p.Weapon))
		}
		if !p.Dice.Valid() {
			errs = append(errs, fmt.Errorf("%w: player %d %q", ErrUnknownDiceKind, i, p.Dice))
		}
	}
	if humans != 1 && len(st.Players) > 0 {
		errs = append(errs, fmt.Errorf("%w: %d human players", ErrInvalidState, humans))
	}
	if goaled == len(st.Players) && goaled > 0 {
		errs = append(errs, fmt.Errorf("%w: every player already goaled", ErrInvalidState))
	}
	if err := checkFaces("future die", st.FutureDice); err != nil {
		errs = append(errs, err)
	}
	if err := checkFaces("dice history", st.DiceHistory); err != nil {
		errs = append(errs, err)
	}
	for i, t := range st.Trophies {
		if _, ok := trophy.Lookup(t.Name); !ok {
			errs = append(errs, fmt.Errorf("%w: trophy %d %q", ErrUnknownTrophy, i, t.Name))
		}
	}
	return errors.Join(errs...)
}

// checkFaces reports the first face a replay token could not carry.
func checkFaces(what string, faces []int) error {
	for i, f := range faces {
		if f < 1 || f > replay.MaxFace {
			return fmt.Errorf("%w: %s %d is %d", ErrInvalidState, what, i, f)
		}
	}
	return nil
}
