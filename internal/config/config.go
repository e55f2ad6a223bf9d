// Package config provides Viper-based configuration loading for the sugoroku
// binaries.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Maximum number of computer players a single game accepts.
const MaxComputerPlayers = 7

// GameConfig holds per-game settings.
type GameConfig struct {
	// ComputerPlayers is the number of bots seated after the human.
	ComputerPlayers int `mapstructure:"computer_players"`
}

// DiceConfig selects the randomness source for fresh rolls.
type DiceConfig struct {
	// Source is "crypto" or "seeded".
	Source string `mapstructure:"source"`
	// Seed is used only when Source is "seeded".
	Seed uint64 `mapstructure:"seed"`
}

// TrophyConfig selects the persistent trophy store.
type TrophyConfig struct {
	// Backend is one of "memory", "file", "sqlite", "postgres".
	Backend    string `mapstructure:"backend"`
	FilePath   string `mapstructure:"file_path"`
	SQLitePath string `mapstructure:"sqlite_path"`
	// Profile separates trophy collections sharing one database.
	Profile string `mapstructure:"profile"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// TelnetConfig holds Telnet acceptor settings.
type TelnetConfig struct {
	// Host is the bind address for the Telnet listener.
	Host string `mapstructure:"host"`
	// Port is the TCP port for the Telnet listener. Zero disables it.
	Port int `mapstructure:"port"`
	// ReadTimeout is the per-read timeout for Telnet connections.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout is the per-write timeout for Telnet connections.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr returns the "host:port" listen address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (t TelnetConfig) Addr() string {
	return fmt.Sprintf("%s:%d", t.Host, t.Port)
}

// WebSocketConfig holds the websocket listener settings.
type WebSocketConfig struct {
	Host string `mapstructure:"host"`
	// Port is the TCP port for the HTTP listener. Zero disables it.
	Port int `mapstructure:"port"`
}

// Addr returns the "host:port" listen address.
func (w WebSocketConfig) Addr() string {
	return fmt.Sprintf("%s:%d", w.Host, w.Port)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// File receives log output instead of stderr when non-empty.
	File string `mapstructure:"file"`
}

// ScriptingConfig controls Lua-defined board spaces.
type ScriptingConfig struct {
	// SpacesDir holds *.lua space definitions. Empty means none.
	SpacesDir string `mapstructure:"spaces_dir"`
	// InstructionLimit bounds the VM instructions per script call.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// SimulateConfig holds trophy simulation settings.
type SimulateConfig struct {
	Games   int `mapstructure:"games"`
	Workers int `mapstructure:"workers"`
}

// Config is the top-level application configuration.
type Config struct {
	Game      GameConfig      `mapstructure:"game"`
	Dice      DiceConfig      `mapstructure:"dice"`
	Trophies  TrophyConfig    `mapstructure:"trophies"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Telnet    TelnetConfig    `mapstructure:"telnet"`
	WebSocket WebSocketConfig `mapstructure:"websocket"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Scripting ScriptingConfig `mapstructure:"scripting"`
	Simulate  SimulateConfig  `mapstructure:"simulate"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string
	for _, err := range []error{
		validateGame(c.Game),
		validateDice(c.Dice),
		validateTrophies(c.Trophies),
		validateTelnet(c.Telnet),
		validateWebSocket(c.WebSocket),
		validateLogging(c.Logging),
		validateScripting(c.Scripting),
		validateSimulate(c.Simulate),
	} {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	// The database section only matters when something connects to it.
	if c.Trophies.Backend == "postgres" {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateGame(g GameConfig) error {
	if g.ComputerPlayers < 0 || g.ComputerPlayers > MaxComputerPlayers {
		return fmt.Errorf("game.computer_players must be 0-%d, got %d", MaxComputerPlayers, g.ComputerPlayers)
	}
	return nil
}

func validateDice(d DiceConfig) error {
	validSources := map[string]bool{"crypto": true, "seeded": true}
	if !validSources[d.Source] {
		return fmt.Errorf("dice.source must be one of [crypto, seeded], got %q", d.Source)
	}
	return nil
}

func validateTrophies(t TrophyConfig) error {
	if (t.Backend == "sqlite" || t.Backend == "postgres") && t.Profile == "" {
		return errors.New("trophies.profile must not be empty for database backends")
	}
	switch t.Backend {
	case "memory", "postgres":
		return nil
	case "file":
		if t.FilePath == "" {
			return errors.New("trophies.file_path must not be empty for the file backend")
		}
		return nil
	case "sqlite":
		if t.SQLitePath == "" {
			return errors.New("trophies.sqlite_path must not be empty for the sqlite backend")
		}
		return nil
	}
	return fmt.Errorf("trophies.backend must be one of [memory, file, sqlite, postgres], got %q", t.Backend)
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateTelnet(t TelnetConfig) error {
	var errs []string
	if t.Port < 0 || t.Port > 65535 {
		errs = append(errs, fmt.Sprintf("telnet.port must be 0-65535, got %d", t.Port))
	}
	if t.ReadTimeout < 0 {
		errs = append(errs, "telnet.read_timeout must not be negative")
	}
	if t.WriteTimeout < 0 {
		errs = append(errs, "telnet.write_timeout must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateWebSocket(w WebSocketConfig) error {
	if w.Port < 0 || w.Port > 65535 {
		return fmt.Errorf("websocket.port must be 0-65535, got %d", w.Port)
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateScripting(s ScriptingConfig) error {
	if s.InstructionLimit < 1 {
		return fmt.Errorf("scripting.instruction_limit must be >= 1, got %d", s.InstructionLimit)
	}
	return nil
}

func validateSimulate(s SimulateConfig) error {
	var errs []string
	if s.Games < 1 {
		errs = append(errs, fmt.Sprintf("simulate.games must be >= 1, got %d", s.Games))
	}
	if s.Workers < 1 {
		errs = append(errs, fmt.Sprintf("simulate.workers must be >= 1, got %d", s.Workers))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and the
// environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with SUGOROKU_ prefix
	v.SetEnvPrefix("SUGOROKU")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("game.computer_players", 3)

	v.SetDefault("dice.source", "crypto")
	v.SetDefault("dice.seed", 0)

	v.SetDefault("trophies.backend", "file")
	v.SetDefault("trophies.file_path", "trophies.yaml")
	v.SetDefault("trophies.sqlite_path", "sugoroku.db")
	v.SetDefault("trophies.profile", "default")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "sugoroku")
	v.SetDefault("database.password", "sugoroku")
	v.SetDefault("database.name", "sugoroku")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("telnet.host", "0.0.0.0")
	v.SetDefault("telnet.port", 4000)
	v.SetDefault("telnet.read_timeout", "30m")
	v.SetDefault("telnet.write_timeout", "30s")

	v.SetDefault("websocket.host", "0.0.0.0")
	v.SetDefault("websocket.port", 8080)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file", "")

	v.SetDefault("scripting.spaces_dir", "")
	v.SetDefault("scripting.instruction_limit", 100000)

	v.SetDefault("simulate.games", 1000)
	v.SetDefault("simulate.workers", 4)
}
