package dice

// DamageResult holds a resolved damage roll
type DamageResult struct {
	Notation string
	Rolls    []int
	Modifier int // flat bonuses from the notation plus the extra modifier
	Total    int
	Critical bool
}

// RollDamage rolls a damage expression such as "2d6+1d4+3". On a critical
// hit the die count of every term doubles; flat modifiers do not. The total
// is floored at 1 no matter how negative the modifiers run.
func RollDamage(r Roller, notation string, extraModifier int, critical bool) (*DamageResult, error) {
	terms, err := ParseNotation(notation)
	if err != nil {
		return nil, err
	}

	result := &DamageResult{
		Notation: notation,
		Rolls:    []int{},
		Modifier: extraModifier,
		Critical: critical,
	}

	diceTotal := 0
	for _, term := range terms {
		if term.IsFlat() {
			result.Modifier += term.Flat
			continue
		}

		count := term.Count
		if critical {
			count *= 2
		}

		rolled, err := r.Roll(count, term.Sides, 0)
		if err != nil {
			return nil, err
		}
		result.Rolls = append(result.Rolls, rolled.Rolls...)
		diceTotal += rolled.RawTotal
	}

	result.Total = diceTotal + result.Modifier
	if result.Total < 1 {
		result.Total = 1
	}

	return result, nil
}
