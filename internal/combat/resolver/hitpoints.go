package resolver

// DamageApplication is the result of applying damage to a hit point pool
type DamageApplication struct {
	NewHP        int  `json:"new_hp"`
	ActualDamage int  `json:"actual_damage"`
	Unconscious  bool `json:"unconscious"`

	// InstantDeath is set when the overflow past zero equals or exceeds the
	// target's hit point maximum in a single hit
	InstantDeath bool `json:"instant_death"`
}

// ApplyDamage applies damage to a hit point pool as a pure transition:
// immunity zeroes the damage, resistance halves it rounding down,
// vulnerability doubles it, and resistance with vulnerability cancel out.
// Hit points clamp at zero.
func ApplyDamage(currentHP, maxHP, damage int, resistance, vulnerability, immunity bool) DamageApplication {
	if damage < 0 {
		damage = 0
	}

	switch {
	case immunity:
		damage = 0
	case resistance && vulnerability:
		// Cancel out
	case resistance:
		damage /= 2
	case vulnerability:
		damage *= 2
	}

	newHP := currentHP - damage
	overflow := -newHP
	if newHP < 0 {
		newHP = 0
	}

	return DamageApplication{
		NewHP:        newHP,
		ActualDamage: damage,
		Unconscious:  newHP == 0 && damage > 0,
		InstantDeath: damage > 0 && overflow >= maxHP && maxHP > 0,
	}
}

// HealingApplication is the result of applying healing to a hit point pool
type HealingApplication struct {
	NewHP         int `json:"new_hp"`
	ActualHealing int `json:"actual_healing"`
}

// ApplyHealing restores hit points, clamping at the maximum
func ApplyHealing(currentHP, maxHP, healing int) HealingApplication {
	if healing < 0 {
		healing = 0
	}

	newHP := currentHP + healing
	if newHP > maxHP {
		newHP = maxHP
	}

	return HealingApplication{
		NewHP:         newHP,
		ActualHealing: newHP - currentHP,
	}
}
