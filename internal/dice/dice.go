// Package dice implements dice notation parsing and rolling for the
// resolution engine. All randomness flows through the Roller interface so
// combat outcomes are reproducible under test.
package dice

import (
	"strconv"
	"strings"

	"github.com/KirkDiggler/tactics-engine/internal/errors"
)

// Term is one component of a parsed dice expression. A dice term has
// Count >= 1 and Sides >= 2; a flat term has Count == 0 and carries its
// signed value in Flat.
type Term struct {
	Count int
	Sides int
	Flat  int
}

// IsFlat reports whether the term is a flat modifier rather than a die group
func (t Term) IsFlat() bool {
	return t.Count == 0
}

// ParseNotation parses a chained dice expression such as "2d6+1d4+3" or
// "1d8-1" into ordered terms. Malformed notation is a hard failure; it is
// never coerced into a best-effort roll.
func ParseNotation(notation string) ([]Term, error) {
	cleaned := strings.ReplaceAll(notation, " ", "")
	if cleaned == "" {
		return nil, errors.InvalidArgument("empty dice notation")
	}

	// Normalize so every term carries an explicit sign, then split.
	cleaned = strings.ReplaceAll(cleaned, "-", "+-")
	if strings.HasPrefix(cleaned, "+") {
		cleaned = cleaned[1:]
	}

	parts := strings.Split(cleaned, "+")
	terms := make([]Term, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			return nil, errors.InvalidArgumentf("invalid dice notation %q", notation)
		}

		term, err := parseTerm(part, notation)
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}

	return terms, nil
}

func parseTerm(part, notation string) (Term, error) {
	negative := strings.HasPrefix(part, "-")
	body := strings.TrimPrefix(part, "-")

	if !strings.Contains(body, "d") {
		flat, err := strconv.Atoi(body)
		if err != nil {
			return Term{}, errors.InvalidArgumentf("invalid modifier %q in notation %q", part, notation)
		}
		if negative {
			flat = -flat
		}
		return Term{Flat: flat}, nil
	}

	if negative {
		return Term{}, errors.InvalidArgumentf("negative die group %q in notation %q", part, notation)
	}

	dieParts := strings.SplitN(body, "d", 2)
	countStr, sidesStr := dieParts[0], dieParts[1]

	count := 1
	if countStr != "" {
		var err error
		count, err = strconv.Atoi(countStr)
		if err != nil || count < 1 {
			return Term{}, errors.InvalidArgumentf("invalid die count %q in notation %q", countStr, notation)
		}
	}

	sides, err := strconv.Atoi(sidesStr)
	if err != nil || sides < 2 {
		return Term{}, errors.InvalidArgumentf("invalid die size %q in notation %q", sidesStr, notation)
	}

	return Term{Count: count, Sides: sides}, nil
}

// RollResult holds the outcome of rolling one die group
type RollResult struct {
	Total    int
	Rolls    []int
	Bonus    int
	Count    int
	Sides    int
	RawTotal int

	// IsCrit and IsFumble are set only for a single d20
	IsCrit   bool
	IsFumble bool
}
