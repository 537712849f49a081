// Package config loads and validates server configuration from a config
// file plus SKIRMISH_-prefixed environment overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/osharon-scottlogic/sl-hackathon-2026-sub000/pkg/skirmish"
)

// DefaultArena is the built-in 8x8 open map used when no map is configured.
const DefaultArena = `b1 . . . . . . .
. p1 . . . . . .
. . . . . . . .
. . . . . . . .
. . . . . . . .
. . . . . . . .
. . . . . . p2 .
. . . . . . . b2`

// Config holds the validated runtime configuration.
type Config struct {
	Port            int
	ProtocolVersion int
	TurnTimeLimit   time.Duration
	FoodScarcity    float64
	FogOfWar        bool
	Seed            int64
	StallRounds     int
	LogLevel        string
	Arena           *skirmish.Arena
}

// Load reads configuration from the given file (optional) with environment
// overrides and validates it. The map comes from "map.file" (arena text
// file), inline "map.layout" rows, or the built-in default.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("port", 8009)
	v.SetDefault("protocolVersion", 1)
	v.SetDefault("turnTimeLimitMs", 5000)
	v.SetDefault("foodScarcity", 0.8)
	v.SetDefault("fogOfWar", false)
	v.SetDefault("seed", 0)
	v.SetDefault("stallRounds", 1000)
	v.SetDefault("logLevel", "")

	v.SetEnvPrefix("SKIRMISH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{
		Port:            v.GetInt("port"),
		ProtocolVersion: v.GetInt("protocolVersion"),
		TurnTimeLimit:   time.Duration(v.GetInt("turnTimeLimitMs")) * time.Millisecond,
		FoodScarcity:    v.GetFloat64("foodScarcity"),
		FogOfWar:        v.GetBool("fogOfWar"),
		Seed:            v.GetInt64("seed"),
		StallRounds:     v.GetInt("stallRounds"),
		LogLevel:        v.GetString("logLevel"),
	}

	arenaText := DefaultArena
	switch {
	case v.GetString("map.file") != "":
		data, err := os.ReadFile(v.GetString("map.file"))
		if err != nil {
			return nil, fmt.Errorf("read map file: %w", err)
		}
		arenaText = string(data)
	case len(v.GetStringSlice("map.layout")) > 0:
		arenaText = strings.Join(v.GetStringSlice("map.layout"), "\n")
	}
	arena, err := skirmish.ParseArena(arenaText)
	if err != nil {
		return nil, err
	}
	cfg.Arena = arena

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port < 1024 || c.Port > 65535 {
		return fmt.Errorf("port %d outside [1024, 65535]", c.Port)
	}
	if c.TurnTimeLimit <= 0 {
		return fmt.Errorf("turnTimeLimitMs must be positive, got %s", c.TurnTimeLimit)
	}
	if c.FoodScarcity < 0 || c.FoodScarcity > 1 {
		return fmt.Errorf("foodScarcity %v outside [0, 1]", c.FoodScarcity)
	}
	if len(c.Arena.BaseLocations) < 2 {
		return fmt.Errorf("map needs at least 2 base locations, got %d", len(c.Arena.BaseLocations))
	}
	return nil
}

// Settings derives the engine settings from the configuration.
func (c *Config) Settings() skirmish.Settings {
	return c.Arena.Settings(c.TurnTimeLimit, c.FoodScarcity, c.FogOfWar)
}
