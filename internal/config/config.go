// Package config provides Viper-based configuration loading for skirmish.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is a zap sink ("stderr", "stdout" or a file path). The console
	// game writes to stdout, so logs default to stderr.
	Output string `mapstructure:"output"`
}

// Who drives the player team.
const (
	PlayersHuman = "human"
	PlayersAuto  = "auto"
)

// EncounterConfig holds the shape of a single fight.
type EncounterConfig struct {
	// Players is PlayersHuman (prompted on the console) or PlayersAuto.
	Players      string `mapstructure:"players"`
	PlayerCount  int    `mapstructure:"player_count"`
	MonsterCount int    `mapstructure:"monster_count"`
	// MaxRounds aborts the encounter once exceeded; 0 means unlimited.
	MaxRounds uint32 `mapstructure:"max_rounds"`
	// Seed selects a reproducible random source; 0 uses crypto randomness.
	Seed uint64 `mapstructure:"seed"`
	// PlayerDomain and MonsterDomain name the AI domain for each team.
	// Empty means attack a random opponent.
	PlayerDomain  string `mapstructure:"player_domain"`
	MonsterDomain string `mapstructure:"monster_domain"`
}

// ContentConfig holds content directory locations.
type ContentConfig struct {
	RosterDir string `mapstructure:"roster_dir"`
	BuffDir   string `mapstructure:"buff_dir"`
	AIDir     string `mapstructure:"ai_dir"`
	ScriptDir string `mapstructure:"script_dir"`
}

// ScriptingConfig holds Lua sandbox limits.
type ScriptingConfig struct {
	// InstructionLimit is the opcode budget per hook call; 0 uses the default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// ConsoleConfig holds terminal presentation settings.
type ConsoleConfig struct {
	Color bool `mapstructure:"color"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Encounter EncounterConfig `mapstructure:"encounter"`
	Content   ContentConfig   `mapstructure:"content"`
	Scripting ScriptingConfig `mapstructure:"scripting"`
	Console   ConsoleConfig   `mapstructure:"console"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string
	for _, err := range []error{
		validateLogging(c.Logging),
		validateEncounter(c.Encounter),
		validateContent(c.Content),
		validateScripting(c.Scripting),
	} {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	var errs []string
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		errs = append(errs, fmt.Sprintf("logging.level must be one of [debug, info, warn, error], got %q", l.Level))
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		errs = append(errs, fmt.Sprintf("logging.format must be one of [json, console], got %q", l.Format))
	}
	if l.Output == "" {
		errs = append(errs, "logging.output must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateEncounter(e EncounterConfig) error {
	var errs []string
	if e.Players != PlayersHuman && e.Players != PlayersAuto {
		errs = append(errs, fmt.Sprintf("encounter.players must be one of [human, auto], got %q", e.Players))
	}
	if e.PlayerCount < 1 {
		errs = append(errs, fmt.Sprintf("encounter.player_count must be >= 1, got %d", e.PlayerCount))
	}
	if e.MonsterCount < 1 {
		errs = append(errs, fmt.Sprintf("encounter.monster_count must be >= 1, got %d", e.MonsterCount))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	if c.RosterDir == "" {
		errs = append(errs, "content.roster_dir must not be empty")
	}
	if c.BuffDir == "" {
		errs = append(errs, "content.buff_dir must not be empty")
	}
	if c.AIDir == "" {
		errs = append(errs, "content.ai_dir must not be empty")
	}
	if c.ScriptDir == "" {
		errs = append(errs, "content.script_dir must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateScripting(s ScriptingConfig) error {
	if s.InstructionLimit < 0 {
		return fmt.Errorf("scripting.instruction_limit must be >= 0, got %d", s.InstructionLimit)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := NewViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// NewViper returns a Viper instance with defaults and SKIRMISH_ environment
// overrides ("encounter.seed" reads SKIRMISH_ENCOUNTER_SEED).
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("SKIRMISH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
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
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("encounter.players", PlayersHuman)
	v.SetDefault("encounter.player_count", 4)
	v.SetDefault("encounter.monster_count", 3)
	v.SetDefault("encounter.max_rounds", 0)
	v.SetDefault("encounter.seed", 0)
	v.SetDefault("encounter.player_domain", "cautious")
	v.SetDefault("encounter.monster_domain", "brute")

	v.SetDefault("content.roster_dir", "content/roster")
	v.SetDefault("content.buff_dir", "content/buffs")
	v.SetDefault("content.ai_dir", "content/ai")
	v.SetDefault("content.script_dir", "content/scripts/ai")

	v.SetDefault("scripting.instruction_limit", 0)

	v.SetDefault("console.color", true)
}
