package dice

// D20Result captures a d20 check roll with its raw dice preserved for
// display. Natural 20/1 flags always describe the unmodified kept die.
type D20Result struct {
	Rolls         []int // one entry, or two when advantage/disadvantage applied
	Roll          int   // the kept, unmodified die
	Modifier      int
	Total         int
	Advantage     bool
	Disadvantage  bool
	NaturalTwenty bool
	NaturalOne    bool
}

// RollD20 rolls a d20 with the given modifier. Advantage and disadvantage
// together cancel out to a single straight roll.
func RollD20(r Roller, modifier int, advantage, disadvantage bool) (*D20Result, error) {
	if advantage == disadvantage {
		result, err := r.Roll(1, 20, modifier)
		if err != nil {
			return nil, err
		}
		return fromRollResult(result, false, false), nil
	}

	var result *RollResult
	var err error
	if advantage {
		result, err = r.RollWithAdvantage(20, modifier)
	} else {
		result, err = r.RollWithDisadvantage(20, modifier)
	}
	if err != nil {
		return nil, err
	}

	return fromRollResult(result, advantage, disadvantage), nil
}

func fromRollResult(result *RollResult, advantage, disadvantage bool) *D20Result {
	return &D20Result{
		Rolls:         result.Rolls,
		Roll:          result.RawTotal,
		Modifier:      result.Bonus,
		Total:         result.Total,
		Advantage:     advantage,
		Disadvantage:  disadvantage,
		NaturalTwenty: result.RawTotal == 20,
		NaturalOne:    result.RawTotal == 1,
	}
}
