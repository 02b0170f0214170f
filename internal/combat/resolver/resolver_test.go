package resolver_test

import (
	"testing"

	"github.com/KirkDiggler/tactics-engine/internal/combat/resolver"
	"github.com/KirkDiggler/tactics-engine/internal/dice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAttack(t *testing.T) {
	t.Run("hit rolls damage", func(t *testing.T) {
		mockDice := dice.NewMockRoller()
		mockDice.SetRolls([]int{15, 6})

		engine := resolver.NewEngine(mockDice, nil)
		result, err := engine.ResolveAttack(&resolver.AttackInput{
			AttackBonus:    4,
			TargetAC:       15,
			DamageNotation: "1d6",
			DamageModifier: 2,
			DamageType:     "slashing",
		})
		require.NoError(t, err)

		assert.True(t, result.Hit)
		assert.False(t, result.Critical)
		require.NotNil(t, result.Damage)
		assert.Equal(t, 8, result.Damage.Total)
		assert.Equal(t, "slashing", result.DamageType)
	})

	t.Run("miss rolls no damage", func(t *testing.T) {
		mockDice := dice.NewMockRoller()
		mockDice.SetRolls([]int{5})

		engine := resolver.NewEngine(mockDice, nil)
		result, err := engine.ResolveAttack(&resolver.AttackInput{
			AttackBonus:    2,
			TargetAC:       15,
			DamageNotation: "1d6",
		})
		require.NoError(t, err)

		assert.False(t, result.Hit)
		assert.Nil(t, result.Damage)
	})

	t.Run("natural one misses despite any bonus", func(t *testing.T) {
		mockDice := dice.NewMockRoller()
		mockDice.SetRolls([]int{1})

		engine := resolver.NewEngine(mockDice, nil)
		result, err := engine.ResolveAttack(&resolver.AttackInput{
			AttackBonus:    100,
			TargetAC:       10,
			DamageNotation: "1d6",
		})
		require.NoError(t, err)

		assert.False(t, result.Hit)
		assert.True(t, result.CriticalMiss)
		assert.Nil(t, result.Damage)
	})

	t.Run("huge bonus always hits except on a natural one", func(t *testing.T) {
		roller := dice.NewSeededRoller(99)
		engine := resolver.NewEngine(roller, nil)

		for i := 0; i < 200; i++ {
			result, err := engine.ResolveAttack(&resolver.AttackInput{
				AttackBonus:    100,
				TargetAC:       10,
				DamageNotation: "1d4",
			})
			require.NoError(t, err)
			if result.Roll.NaturalOne {
				assert.False(t, result.Hit)
			} else {
				assert.True(t, result.Hit)
			}
		}
	})

	t.Run("natural twenty crits and doubles dice", func(t *testing.T) {
		mockDice := dice.NewMockRoller()
		mockDice.SetRolls([]int{20, 3, 5})

		engine := resolver.NewEngine(mockDice, nil)
		result, err := engine.ResolveAttack(&resolver.AttackInput{
			AttackBonus:    0,
			TargetAC:       25, // crit hits even above the total
			DamageNotation: "1d8",
			DamageModifier: 2,
		})
		require.NoError(t, err)

		assert.True(t, result.Hit)
		assert.True(t, result.Critical)
		require.NotNil(t, result.Damage)
		assert.Len(t, result.Damage.Rolls, 2)
		assert.Equal(t, 10, result.Damage.Total)
	})

	t.Run("lowered crit range triggers on a nineteen", func(t *testing.T) {
		mockDice := dice.NewMockRoller()
		mockDice.SetRolls([]int{19, 4, 4})

		engine := resolver.NewEngine(mockDice, nil)
		result, err := engine.ResolveAttack(&resolver.AttackInput{
			TargetAC:       30,
			DamageNotation: "1d8",
			CritRange:      19,
		})
		require.NoError(t, err)

		assert.True(t, result.Hit)
		assert.True(t, result.Critical)
	})

	t.Run("auto crit forces a critical on an ordinary hit", func(t *testing.T) {
		mockDice := dice.NewMockRoller()
		mockDice.SetRolls([]int{12, 2, 6})

		engine := resolver.NewEngine(mockDice, nil)
		result, err := engine.ResolveAttack(&resolver.AttackInput{
			AttackBonus:    5,
			TargetAC:       14,
			DamageNotation: "1d6",
			AutoCrit:       true,
		})
		require.NoError(t, err)

		assert.True(t, result.Critical)
		assert.Len(t, result.Damage.Rolls, 2)
	})

	t.Run("player-only variant keeps monster crits at ordinary damage", func(t *testing.T) {
		mockDice := dice.NewMockRoller()
		mockDice.SetRolls([]int{20, 4})

		engine := resolver.NewEngine(mockDice, &resolver.Config{PlayerOnlyBonusCritDamage: true})
		result, err := engine.ResolveAttack(&resolver.AttackInput{
			TargetAC:         15,
			DamageNotation:   "1d8",
			AttackerIsPlayer: false,
		})
		require.NoError(t, err)

		assert.True(t, result.Hit)
		assert.True(t, result.Critical)
		assert.Len(t, result.Damage.Rolls, 1)

		mockDice.SetRolls([]int{20, 4, 7})
		result, err = engine.ResolveAttack(&resolver.AttackInput{
			TargetAC:         15,
			DamageNotation:   "1d8",
			AttackerIsPlayer: true,
		})
		require.NoError(t, err)
		assert.Len(t, result.Damage.Rolls, 2)
	})
}

func TestResolveSavingThrow(t *testing.T) {
	t.Run("meets the DC exactly", func(t *testing.T) {
		mockDice := dice.NewMockRoller()
		mockDice.SetRolls([]int{12})

		engine := resolver.NewEngine(mockDice, nil)
		result, err := engine.ResolveSavingThrow(&resolver.SavingThrowInput{Modifier: 3, DC: 15})
		require.NoError(t, err)

		assert.True(t, result.Success)
		assert.Equal(t, 15, result.Roll.Total)
	})

	t.Run("auto fail ignores a winning roll but records it", func(t *testing.T) {
		mockDice := dice.NewMockRoller()
		mockDice.SetRolls([]int{20})

		engine := resolver.NewEngine(mockDice, nil)
		result, err := engine.ResolveSavingThrow(&resolver.SavingThrowInput{DC: 5, AutoFail: true})
		require.NoError(t, err)

		assert.False(t, result.Success)
		require.NotNil(t, result.Roll)
		assert.Equal(t, 20, result.Roll.Roll)
	})

	t.Run("auto succeed ignores a losing roll", func(t *testing.T) {
		mockDice := dice.NewMockRoller()
		mockDice.SetRolls([]int{2})

		engine := resolver.NewEngine(mockDice, nil)
		result, err := engine.ResolveSavingThrow(&resolver.SavingThrowInput{DC: 18, AutoSucceed: true})
		require.NoError(t, err)

		assert.True(t, result.Success)
	})

	t.Run("disadvantage keeps the lower die", func(t *testing.T) {
		mockDice := dice.NewMockRoller()
		mockDice.SetRolls([]int{18, 4})

		engine := resolver.NewEngine(mockDice, nil)
		result, err := engine.ResolveSavingThrow(&resolver.SavingThrowInput{DC: 10, Disadvantage: true})
		require.NoError(t, err)

		assert.False(t, result.Success)
		assert.Equal(t, 4, result.Roll.Roll)
	})
}

func TestApplyDamage(t *testing.T) {
	t.Run("plain damage reduces hit points", func(t *testing.T) {
		applied := resolver.ApplyDamage(20, 20, 7, false, false, false)
		assert.Equal(t, 13, applied.NewHP)
		assert.Equal(t, 7, applied.ActualDamage)
		assert.False(t, applied.Unconscious)
	})

	t.Run("resistance halves rounding down", func(t *testing.T) {
		applied := resolver.ApplyDamage(20, 20, 7, true, false, false)
		assert.Equal(t, 3, applied.ActualDamage)
	})

	t.Run("vulnerability doubles", func(t *testing.T) {
		applied := resolver.ApplyDamage(20, 20, 7, false, true, false)
		assert.Equal(t, 14, applied.ActualDamage)
	})

	t.Run("resistance and vulnerability cancel", func(t *testing.T) {
		applied := resolver.ApplyDamage(20, 20, 7, true, true, false)
		assert.Equal(t, 7, applied.ActualDamage)
	})

	t.Run("immunity zeroes damage outright", func(t *testing.T) {
		applied := resolver.ApplyDamage(20, 20, 7, true, true, true)
		assert.Equal(t, 0, applied.ActualDamage)
		assert.Equal(t, 20, applied.NewHP)
	})

	t.Run("hit points clamp at zero and report unconsciousness", func(t *testing.T) {
		applied := resolver.ApplyDamage(5, 20, 9, false, false, false)
		assert.Equal(t, 0, applied.NewHP)
		assert.True(t, applied.Unconscious)
		assert.False(t, applied.InstantDeath)
	})

	t.Run("overflow past max is instant death", func(t *testing.T) {
		applied := resolver.ApplyDamage(5, 20, 25, false, false, false)
		assert.True(t, applied.InstantDeath)

		applied = resolver.ApplyDamage(5, 20, 24, false, false, false)
		assert.False(t, applied.InstantDeath)
	})
}

func TestApplyHealing(t *testing.T) {
	t.Run("clamps at max hit points", func(t *testing.T) {
		applied := resolver.ApplyHealing(18, 20, 10)
		assert.Equal(t, 20, applied.NewHP)
		assert.Equal(t, 2, applied.ActualHealing)
	})

	t.Run("heals from zero", func(t *testing.T) {
		applied := resolver.ApplyHealing(0, 20, 6)
		assert.Equal(t, 6, applied.NewHP)
		assert.Equal(t, 6, applied.ActualHealing)
	})
}
