// Package config provides Viper-based configuration loading for the
// Emberdeck tools.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

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

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// GameConfig holds the combat ruleset parameters.
type GameConfig struct {
	// ContentDir is the root of the YAML content tree.
	ContentDir string `mapstructure:"content_dir"`
	// PlayerMaxHP is the player's starting maximum HP.
	PlayerMaxHP int `mapstructure:"player_max_hp"`
	// HandSize is the number of cards drawn at each turn start.
	HandSize int `mapstructure:"hand_size"`
	// MaxHandSize caps the hand; draws beyond it are lost.
	MaxHandSize int `mapstructure:"max_hand_size"`
	// EnergyPerTurn is the energy refill at each turn start.
	EnergyPerTurn int `mapstructure:"energy_per_turn"`
	// PotionSlots is the number of potion belt slots.
	PotionSlots int `mapstructure:"potion_slots"`
	// ScriptInstructionLimit caps Lua opcodes per value-script evaluation.
	// Zero uses the scripting package default.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// SimConfig holds simulator run settings.
type SimConfig struct {
	// Seed drives the deterministic RNG; 0 asks for a crypto-random seed.
	Seed int64 `mapstructure:"seed"`
	// Encounter is the enemy template id to fight.
	Encounter string `mapstructure:"encounter"`
	// Persist writes the combat result to the database when true.
	Persist bool `mapstructure:"persist"`
}

// Config is the top-level application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Game     GameConfig     `mapstructure:"game"`
	Sim      SimConfig      `mapstructure:"sim"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error
// describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateDatabase(c.Database); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateGame(c.Game); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
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

func validateGame(g GameConfig) error {
	var errs []string
	if g.ContentDir == "" {
		errs = append(errs, "game.content_dir must not be empty")
	}
	if g.PlayerMaxHP < 1 {
		errs = append(errs, fmt.Sprintf("game.player_max_hp must be >= 1, got %d", g.PlayerMaxHP))
	}
	if g.HandSize < 1 {
		errs = append(errs, fmt.Sprintf("game.hand_size must be >= 1, got %d", g.HandSize))
	}
	if g.MaxHandSize < g.HandSize {
		errs = append(errs, "game.max_hand_size must be >= game.hand_size")
	}
	if g.EnergyPerTurn < 1 {
		errs = append(errs, fmt.Sprintf("game.energy_per_turn must be >= 1, got %d", g.EnergyPerTurn))
	}
	if g.PotionSlots < 0 {
		errs = append(errs, fmt.Sprintf("game.potion_slots must be >= 0, got %d", g.PotionSlots))
	}
	if g.ScriptInstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("game.script_instruction_limit must be >= 0, got %d", g.ScriptInstructionLimit))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment
// variable overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with EMBERDECK_ prefix
	v.SetEnvPrefix("EMBERDECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
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
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "emberdeck")
	v.SetDefault("database.password", "emberdeck")
	v.SetDefault("database.name", "emberdeck")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("game.content_dir", "content")
	v.SetDefault("game.player_max_hp", 70)
	v.SetDefault("game.hand_size", 5)
	v.SetDefault("game.max_hand_size", 10)
	v.SetDefault("game.energy_per_turn", 3)
	v.SetDefault("game.potion_slots", 3)
	v.SetDefault("game.script_instruction_limit", 0)

	v.SetDefault("sim.seed", 0)
	v.SetDefault("sim.encounter", "cultist")
	v.SetDefault("sim.persist", false)
}
