package status

// MaxExhaustion is the terminal exhaustion level; reaching it means death
const MaxExhaustion = 6

// ExhaustionLevel is a bounded [0,6] exhaustion counter. Level effects are
// cumulative: a combatant at level 3 suffers the level 1 and 2 effects too.
type ExhaustionLevel int

// ExhaustionEffects is the combined penalty set for a level
type ExhaustionEffects struct {
	// CheckDisadvantage applies from level 1
	CheckDisadvantage bool `json:"check_disadvantage"`

	// AttackSaveDisadvantage applies from level 3
	AttackSaveDisadvantage bool `json:"attack_save_disadvantage"`

	// SpeedMultiplier shrinks at levels 2 and 5 (1.0, then 0.5, then 0)
	SpeedMultiplier float64 `json:"speed_multiplier"`

	// MaxHPMultiplier halves at level 4
	MaxHPMultiplier float64 `json:"max_hp_multiplier"`

	// Dead applies at level 6
	Dead bool `json:"dead"`
}

// clamp keeps the level inside [0,6]; out-of-range values are caller bugs
// and are repaired, not propagated
func (l ExhaustionLevel) clamp() ExhaustionLevel {
	if l < 0 {
		return 0
	}
	if l > MaxExhaustion {
		return MaxExhaustion
	}
	return l
}

// Effects returns the cumulative penalties at this level
func (l ExhaustionLevel) Effects() ExhaustionEffects {
	l = l.clamp()

	effects := ExhaustionEffects{
		SpeedMultiplier: 1,
		MaxHPMultiplier: 1,
	}

	if l >= 1 {
		effects.CheckDisadvantage = true
	}
	if l >= 2 {
		effects.SpeedMultiplier = 0.5
	}
	if l >= 3 {
		effects.AttackSaveDisadvantage = true
	}
	if l >= 4 {
		effects.MaxHPMultiplier = 0.5
	}
	if l >= 5 {
		effects.SpeedMultiplier = 0
	}
	if l >= MaxExhaustion {
		effects.Dead = true
	}

	return effects
}

// IsDead reports whether the level is terminal
func (l ExhaustionLevel) IsDead() bool {
	return l.clamp() >= MaxExhaustion
}

// GainExhaustion raises the level by n, clamping at 6, and reports whether
// the terminal level was reached
func GainExhaustion(level ExhaustionLevel, n int) (ExhaustionLevel, bool) {
	if n < 0 {
		n = 0
	}
	next := (level.clamp() + ExhaustionLevel(n)).clamp()
	return next, next >= MaxExhaustion
}

// ReduceExhaustion lowers the level by n, clamping at 0
func ReduceExhaustion(level ExhaustionLevel, n int) ExhaustionLevel {
	if n < 0 {
		n = 0
	}
	return (level.clamp() - ExhaustionLevel(n)).clamp()
}

// RecoverOnRest reduces exhaustion by one level after a long rest, but only
// when the caller confirms the combatant had adequate food and drink
func RecoverOnRest(level ExhaustionLevel, fedAndRested bool) ExhaustionLevel {
	if !fedAndRested {
		return level.clamp()
	}
	return ReduceExhaustion(level, 1)
}
