// Package config loads application configuration from environment
// variables with sensible defaults.
package config

import (
	"os"
	"strconv"
)

// Config holds all configuration for the application
type Config struct {
	Redis RedisConfig
	Rules RulesConfig
}

// RedisConfig holds Redis-specific configuration. An empty Addr means the
// application runs on the in-memory store instead.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RulesConfig holds table-rule toggles
type RulesConfig struct {
	// PlayerOnlyBonusCritDamage restricts critical bonus damage dice to
	// player attackers
	PlayerOnlyBonusCritDamage bool
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvAsIntOrDefault("REDIS_DB", 0),
		},
		Rules: RulesConfig{
			PlayerOnlyBonusCritDamage: getEnvAsBoolOrDefault("PLAYER_ONLY_BONUS_CRIT_DAMAGE", false),
		},
	}
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
