package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := Load()
		assert.Empty(t, cfg.Redis.Addr)
		assert.Equal(t, 0, cfg.Redis.DB)
		assert.False(t, cfg.Rules.PlayerOnlyBonusCritDamage)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("REDIS_ADDR", "redis.example:6379")
		t.Setenv("REDIS_DB", "3")
		t.Setenv("PLAYER_ONLY_BONUS_CRIT_DAMAGE", "true")

		cfg := Load()
		assert.Equal(t, "redis.example:6379", cfg.Redis.Addr)
		assert.Equal(t, 3, cfg.Redis.DB)
		assert.True(t, cfg.Rules.PlayerOnlyBonusCritDamage)
	})

	t.Run("malformed values fall back to defaults", func(t *testing.T) {
		t.Setenv("REDIS_DB", "not-a-number")
		cfg := Load()
		assert.Equal(t, 0, cfg.Redis.DB)
	})
}
