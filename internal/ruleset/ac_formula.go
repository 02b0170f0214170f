package ruleset

import (
	"strconv"
	"strings"

	"github.com/KirkDiggler/tactics-engine/internal/errors"
)

// ACFormula is a parsed armor class formula. Rule data supplies these as
// strings in a handful of shapes:
//
//	"17"                       flat heavy armor
//	"12 + Dex modifier"        light armor
//	"14 + Dex modifier (max 2)" medium armor
//	"+2"                       shield bonus
type ACFormula struct {
	Base   int
	AddDex bool
	DexCap int // maximum Dex bonus applied; negative means uncapped
	Bonus  int // flat bonus for shield-style formulas
}

// ParseACFormula parses an armor class formula string. Anything outside the
// supported shapes is a validation failure, never silently coerced.
func ParseACFormula(formula string) (*ACFormula, error) {
	trimmed := strings.TrimSpace(formula)
	if trimmed == "" {
		return nil, errors.InvalidArgument("empty AC formula")
	}

	// Shield-style flat bonus: "+2"
	if strings.HasPrefix(trimmed, "+") {
		bonus, err := strconv.Atoi(strings.TrimSpace(trimmed[1:]))
		if err != nil {
			return nil, errors.InvalidArgumentf("invalid AC bonus formula %q", formula)
		}
		return &ACFormula{DexCap: -1, Bonus: bonus}, nil
	}

	// Flat heavy armor: "17"
	if base, err := strconv.Atoi(trimmed); err == nil {
		return &ACFormula{Base: base, DexCap: -1}, nil
	}

	// Light and medium armor: "N + Dex modifier" with optional "(max K)"
	parts := strings.SplitN(trimmed, "+", 2)
	if len(parts) != 2 {
		return nil, errors.InvalidArgumentf("invalid AC formula %q", formula)
	}

	base, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, errors.InvalidArgumentf("invalid AC base in formula %q", formula)
	}

	rest := strings.TrimSpace(parts[1])
	if !strings.HasPrefix(rest, "Dex modifier") {
		return nil, errors.InvalidArgumentf("invalid AC formula %q", formula)
	}

	result := &ACFormula{Base: base, AddDex: true, DexCap: -1}

	rest = strings.TrimSpace(strings.TrimPrefix(rest, "Dex modifier"))
	if rest == "" {
		return result, nil
	}

	if !strings.HasPrefix(rest, "(max ") || !strings.HasSuffix(rest, ")") {
		return nil, errors.InvalidArgumentf("invalid AC formula %q", formula)
	}

	capValue, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(rest, "(max "), ")"))
	if err != nil || capValue < 0 {
		return nil, errors.InvalidArgumentf("invalid Dex cap in AC formula %q", formula)
	}
	result.DexCap = capValue

	return result, nil
}

// Apply computes the armor class contribution for a combatant with the
// given Dex modifier. The cap limits only the bonus; a negative modifier
// always applies in full.
func (f *ACFormula) Apply(dexModifier int) int {
	value := f.Base + f.Bonus
	if f.AddDex {
		dex := dexModifier
		if f.DexCap >= 0 && dex > f.DexCap {
			dex = f.DexCap
		}
		value += dex
	}
	return value
}
