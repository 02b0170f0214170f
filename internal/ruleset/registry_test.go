package ruleset_test

import (
	"testing"

	"github.com/KirkDiggler/tactics-engine/internal/errors"
	"github.com/KirkDiggler/tactics-engine/internal/ruleset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseACFormula(t *testing.T) {
	t.Run("flat heavy armor", func(t *testing.T) {
		formula, err := ruleset.ParseACFormula("17")
		require.NoError(t, err)
		assert.Equal(t, 17, formula.Apply(3))
		assert.Equal(t, 17, formula.Apply(-2))
	})

	t.Run("light armor adds full Dex", func(t *testing.T) {
		formula, err := ruleset.ParseACFormula("12 + Dex modifier")
		require.NoError(t, err)
		assert.Equal(t, 16, formula.Apply(4))
		assert.Equal(t, 11, formula.Apply(-1))
	})

	t.Run("medium armor caps the Dex bonus", func(t *testing.T) {
		formula, err := ruleset.ParseACFormula("14 + Dex modifier (max 2)")
		require.NoError(t, err)
		assert.Equal(t, 16, formula.Apply(4))
		assert.Equal(t, 15, formula.Apply(1))
		assert.Equal(t, 13, formula.Apply(-1), "negative Dex is not capped")
	})

	t.Run("shield bonus", func(t *testing.T) {
		formula, err := ruleset.ParseACFormula("+2")
		require.NoError(t, err)
		assert.Equal(t, 2, formula.Apply(5))
	})

	t.Run("malformed formulas fail validation", func(t *testing.T) {
		for _, bad := range []string{"", "abc", "12 + Str modifier", "12 + Dex modifier (max )", "12 + Dex modifier max 2", "+two"} {
			_, err := ruleset.ParseACFormula(bad)
			require.Error(t, err, "formula %q should fail", bad)
			assert.True(t, errors.IsInvalidArgument(err))
		}
	})
}

func TestRegistry(t *testing.T) {
	cfg := &ruleset.Config{
		Weapons: []*ruleset.WeaponDescriptor{
			{Key: "longsword", Name: "Longsword", DamageNotation: "1d8", DamageType: "slashing", Properties: []string{"versatile"}},
			{Key: "glaive", Name: "Glaive", DamageNotation: "1d10", DamageType: "slashing", Properties: []string{"heavy", "reach"}, Reach: 2},
		},
		Armor: []*ruleset.ArmorDescriptor{
			{Key: "leather", Name: "Leather Armor", ACFormula: "11 + Dex modifier"},
			{Key: "half-plate", Name: "Half Plate", ACFormula: "15 + Dex modifier (max 2)"},
			{Key: "shield", Name: "Shield", ACFormula: "+2"},
		},
		Monsters: []*ruleset.MonsterDescriptor{
			{
				Key:   "goblin",
				Name:  "Goblin",
				MaxHP: 7,
				AC:    15,
				Speed: 30,
				Actions: []*ruleset.MonsterAction{
					{Name: "Scimitar", AttackBonus: 4, DamageNotation: "1d6+2", DamageType: "slashing"},
				},
			},
		},
	}

	registry, err := ruleset.New(cfg)
	require.NoError(t, err)

	t.Run("weapon lookup", func(t *testing.T) {
		weapon, ok := registry.Weapon("longsword")
		require.True(t, ok)
		assert.Equal(t, 1, weapon.ThreatReach())
		assert.True(t, weapon.HasProperty("versatile"))

		glaive, ok := registry.Weapon("glaive")
		require.True(t, ok)
		assert.Equal(t, 2, glaive.ThreatReach())

		_, ok = registry.Weapon("warhammer")
		assert.False(t, ok)
	})

	t.Run("armor class computation", func(t *testing.T) {
		ac, ok := registry.ArmorClass("leather", 3)
		require.True(t, ok)
		assert.Equal(t, 14, ac)

		ac, ok = registry.ArmorClass("half-plate", 3)
		require.True(t, ok)
		assert.Equal(t, 17, ac)

		bonus, ok := registry.ArmorClass("shield", 0)
		require.True(t, ok)
		assert.Equal(t, 2, bonus)

		_, ok = registry.ArmorClass("plate", 0)
		assert.False(t, ok)
	})

	t.Run("monster lookup", func(t *testing.T) {
		monster, ok := registry.Monster("goblin")
		require.True(t, ok)
		assert.Equal(t, 15, monster.AC)
		require.Len(t, monster.Actions, 1)
	})

	t.Run("invalid weapon notation fails construction", func(t *testing.T) {
		_, err := ruleset.New(&ruleset.Config{
			Weapons: []*ruleset.WeaponDescriptor{{Key: "broken", DamageNotation: "1dx"}},
		})
		require.Error(t, err)
		assert.True(t, errors.IsInvalidArgument(err))
	})

	t.Run("invalid armor formula fails construction", func(t *testing.T) {
		_, err := ruleset.New(&ruleset.Config{
			Armor: []*ruleset.ArmorDescriptor{{Key: "broken", ACFormula: "12 + Luck"}},
		})
		require.Error(t, err)
	})

	t.Run("duplicate keys fail construction", func(t *testing.T) {
		_, err := ruleset.New(&ruleset.Config{
			Weapons: []*ruleset.WeaponDescriptor{
				{Key: "club", DamageNotation: "1d4"},
				{Key: "club", DamageNotation: "1d4"},
			},
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.CodeAlreadyExists))
	})
}
