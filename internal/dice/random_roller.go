package dice

import (
	"math/rand"
	"time"

	"github.com/KirkDiggler/tactics-engine/internal/errors"
)

// randomRoller implements Roller over a private PRNG. Each combat encounter
// owns its own roller; nothing here is safe for concurrent use.
type randomRoller struct {
	rng *rand.Rand
}

// NewRandomRoller creates a roller seeded from the current time
func NewRandomRoller() Roller {
	return NewSeededRoller(time.Now().UnixNano())
}

// NewSeededRoller creates a roller with a fixed seed for reproducible runs
func NewSeededRoller(seed int64) Roller {
	return &randomRoller{rng: rand.New(rand.NewSource(seed))}
}

// Roll implements Roller.Roll
func (r *randomRoller) Roll(count, sides, bonus int) (*RollResult, error) {
	if count < 1 {
		return nil, errors.InvalidArgumentf("invalid dice count %d", count)
	}
	if sides < 2 {
		return nil, errors.InvalidArgumentf("invalid dice size %d", sides)
	}

	rolls := make([]int, count)
	rawTotal := 0
	for i := 0; i < count; i++ {
		rolls[i] = r.rng.Intn(sides) + 1
		rawTotal += rolls[i]
	}

	result := &RollResult{
		Total:    rawTotal + bonus,
		Rolls:    rolls,
		Bonus:    bonus,
		Count:    count,
		Sides:    sides,
		RawTotal: rawTotal,
	}

	if count == 1 && sides == 20 {
		result.IsCrit = rolls[0] == 20
		result.IsFumble = rolls[0] == 1
	}

	return result, nil
}

// RollWithAdvantage implements Roller.RollWithAdvantage
func (r *randomRoller) RollWithAdvantage(sides, bonus int) (*RollResult, error) {
	return r.rollTwice(sides, bonus, true)
}

// RollWithDisadvantage implements Roller.RollWithDisadvantage
func (r *randomRoller) RollWithDisadvantage(sides, bonus int) (*RollResult, error) {
	return r.rollTwice(sides, bonus, false)
}

func (r *randomRoller) rollTwice(sides, bonus int, takeHigher bool) (*RollResult, error) {
	if sides < 2 {
		return nil, errors.InvalidArgumentf("invalid dice size %d", sides)
	}

	roll1 := r.rng.Intn(sides) + 1
	roll2 := r.rng.Intn(sides) + 1

	kept := roll1
	if takeHigher && roll2 > kept {
		kept = roll2
	}
	if !takeHigher && roll2 < kept {
		kept = roll2
	}

	result := &RollResult{
		Total:    kept + bonus,
		Rolls:    []int{roll1, roll2}, // Show both rolls
		Bonus:    bonus,
		Count:    1,
		Sides:    sides,
		RawTotal: kept,
	}

	if sides == 20 {
		result.IsCrit = kept == 20
		result.IsFumble = kept == 1
	}

	return result, nil
}
