// Package resolver turns dice rolls into combat outcomes: attacks against
// a defense value, saving throws against a DC, and the application of
// damage and healing to hit points. Every function returns a value record
// for the caller to persist or narrate; routine misses and failed saves
// are results, not errors.
package resolver

import (
	"github.com/KirkDiggler/tactics-engine/internal/dice"
)

// DefaultCritRange is the minimum natural roll for a critical hit unless a
// class feature lowers it
const DefaultCritRange = 20

// Config holds table-rule toggles for the resolution engine
type Config struct {
	// PlayerOnlyBonusCritDamage restricts critical bonus damage to
	// player-controlled attackers. Non-player criticals still hit, they
	// just roll ordinary damage.
	PlayerOnlyBonusCritDamage bool
}

// Engine resolves attacks and saving throws. It holds no combatant state;
// callers pass stat snapshots per call.
type Engine struct {
	roller dice.Roller
	config Config
}

// NewEngine creates a resolution engine. A nil config uses the standard
// rules.
func NewEngine(roller dice.Roller, config *Config) *Engine {
	if roller == nil {
		panic("dice roller is required")
	}

	engine := &Engine{roller: roller}
	if config != nil {
		engine.config = *config
	}
	return engine
}

// AttackInput is a stat snapshot for one attack roll
type AttackInput struct {
	AttackBonus    int
	TargetAC       int
	DamageNotation string
	DamageModifier int
	DamageType     string
	Advantage      bool
	Disadvantage   bool

	// CritRange is the minimum natural roll for a critical; zero means the
	// default of 20
	CritRange int

	// AutoCrit forces any hit to be critical, e.g. attacking a paralyzed
	// target from melee reach
	AutoCrit bool

	AttackerIsPlayer bool
}

// AttackResult is the outcome of one resolved attack
type AttackResult struct {
	Hit          bool               `json:"hit"`
	Critical     bool               `json:"critical"`
	CriticalMiss bool               `json:"critical_miss"`
	Roll         *dice.D20Result    `json:"roll"`
	TargetAC     int                `json:"target_ac"`
	Damage       *dice.DamageResult `json:"damage,omitempty"`
	DamageType   string             `json:"damage_type,omitempty"`
}

// ResolveAttack rolls an attack against a defense value and, on a hit,
// rolls damage. A natural 1 always misses regardless of bonuses; a natural
// roll at or above the crit range always hits.
func (e *Engine) ResolveAttack(input *AttackInput) (*AttackResult, error) {
	roll, err := dice.RollD20(e.roller, input.AttackBonus, input.Advantage, input.Disadvantage)
	if err != nil {
		return nil, err
	}

	critRange := input.CritRange
	if critRange <= 0 {
		critRange = DefaultCritRange
	}

	result := &AttackResult{
		Roll:     roll,
		TargetAC: input.TargetAC,
	}

	if roll.NaturalOne {
		result.CriticalMiss = true
		return result, nil
	}

	naturalCrit := roll.Roll >= critRange
	result.Hit = naturalCrit || roll.Total >= input.TargetAC
	if !result.Hit {
		return result, nil
	}

	result.Critical = naturalCrit || input.AutoCrit

	bonusCritDice := result.Critical
	if e.config.PlayerOnlyBonusCritDamage && !input.AttackerIsPlayer {
		bonusCritDice = false
	}

	if input.DamageNotation != "" {
		damage, err := dice.RollDamage(e.roller, input.DamageNotation, input.DamageModifier, bonusCritDice)
		if err != nil {
			return nil, err
		}
		result.Damage = damage
		result.DamageType = input.DamageType
	}

	return result, nil
}

// SavingThrowInput is a stat snapshot for one saving throw
type SavingThrowInput struct {
	Modifier     int
	DC           int
	Advantage    bool
	Disadvantage bool

	// AutoFail and AutoSucceed short-circuit the outcome for conditions
	// like paralysis; a roll record is still produced for display
	AutoFail    bool
	AutoSucceed bool
}

// SavingThrowResult is the outcome of one saving throw
type SavingThrowResult struct {
	Success bool            `json:"success"`
	Roll    *dice.D20Result `json:"roll"`
	DC      int             `json:"dc"`
}

// ResolveSavingThrow rolls a save against a DC. Auto-fail and auto-succeed
// override the comparison but the die is still rolled so every save has a
// displayable record.
func (e *Engine) ResolveSavingThrow(input *SavingThrowInput) (*SavingThrowResult, error) {
	roll, err := dice.RollD20(e.roller, input.Modifier, input.Advantage, input.Disadvantage)
	if err != nil {
		return nil, err
	}

	result := &SavingThrowResult{
		Roll: roll,
		DC:   input.DC,
	}

	switch {
	case input.AutoFail:
		result.Success = false
	case input.AutoSucceed:
		result.Success = true
	default:
		result.Success = roll.Total >= input.DC
	}

	return result, nil
}
