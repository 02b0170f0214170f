// Package status implements the multi-round status state machines for
// dying combatants and cumulative exhaustion. Every transition is a pure
// function taking a state value and returning the new state plus a result
// record, so each change is auditable in isolation.
package status

import (
	"github.com/KirkDiggler/tactics-engine/internal/dice"
)

const (
	// deathSaveDC is the roll a dying combatant must meet to succeed
	deathSaveDC = 10

	// maxDeathSaveCount bounds both the success and failure counters
	maxDeathSaveCount = 3

	// StabilizeCheckDC is the medicine-check difficulty to stabilize a
	// dying combatant without magic
	StabilizeCheckDC = 10
)

// DeathSaveOutcome describes where a transition left the combatant
type DeathSaveOutcome int

const (
	// OutcomeDying means the combatant is still making death saves
	OutcomeDying DeathSaveOutcome = iota

	// OutcomeStable means the combatant is unconscious but no longer rolls
	OutcomeStable

	// OutcomeRevived means a natural 20 brought the combatant back; the
	// caller restores a minimum of 1 HP
	OutcomeRevived

	// OutcomeDead is terminal
	OutcomeDead
)

// String returns the outcome name for combat log entries
func (o DeathSaveOutcome) String() string {
	switch o {
	case OutcomeDying:
		return "dying"
	case OutcomeStable:
		return "stable"
	case OutcomeRevived:
		return "revived"
	case OutcomeDead:
		return "dead"
	default:
		return "unknown"
	}
}

// DeathSaveState tracks a dying combatant's progress. The zero value is a
// freshly dying combatant with no saves recorded.
type DeathSaveState struct {
	Successes int  `json:"successes"`
	Failures  int  `json:"failures"`
	Stable    bool `json:"stable"`
	Dead      bool `json:"dead"`
}

// Outcome reports the state's current outcome without a transition
func (s DeathSaveState) Outcome() DeathSaveOutcome {
	switch {
	case s.Dead:
		return OutcomeDead
	case s.Stable:
		return OutcomeStable
	default:
		return OutcomeDying
	}
}

// clamp repairs counters that a buggy caller pushed out of range. Invariant
// violations here are caller bugs, not player-facing conditions, so they
// are corrected rather than propagated.
func (s DeathSaveState) clamp() DeathSaveState {
	if s.Successes < 0 {
		s.Successes = 0
	}
	if s.Successes > maxDeathSaveCount {
		s.Successes = maxDeathSaveCount
	}
	if s.Failures < 0 {
		s.Failures = 0
	}
	if s.Failures > maxDeathSaveCount {
		s.Failures = maxDeathSaveCount
	}
	return s
}

// DeathSaveResult records one death-save roll for display
type DeathSaveResult struct {
	Roll    *dice.D20Result  `json:"roll"`
	Outcome DeathSaveOutcome `json:"outcome"`
}

// RollDeathSave rolls one death saving throw and advances the state: 10 or
// higher is a success (three stabilize), lower is a failure (three kill), a
// natural 20 revives outright and a natural 1 counts as two failures.
// Terminal and stable states pass through unchanged with no roll.
func RollDeathSave(roller dice.Roller, state DeathSaveState) (DeathSaveState, *DeathSaveResult, error) {
	state = state.clamp()
	if state.Dead || state.Stable {
		return state, &DeathSaveResult{Outcome: state.Outcome()}, nil
	}

	roll, err := dice.RollD20(roller, 0, false, false)
	if err != nil {
		return state, nil, err
	}

	switch {
	case roll.NaturalTwenty:
		state = DeathSaveState{}
		return state, &DeathSaveResult{Roll: roll, Outcome: OutcomeRevived}, nil

	case roll.NaturalOne:
		state.Failures += 2

	case roll.Total >= deathSaveDC:
		state.Successes++

	default:
		state.Failures++
	}

	if state.Failures >= maxDeathSaveCount {
		state = DeathSaveState{Failures: maxDeathSaveCount, Dead: true}
		return state, &DeathSaveResult{Roll: roll, Outcome: OutcomeDead}, nil
	}

	if state.Successes >= maxDeathSaveCount {
		state = DeathSaveState{Stable: true}
		return state, &DeathSaveResult{Roll: roll, Outcome: OutcomeStable}, nil
	}

	return state, &DeathSaveResult{Roll: roll, Outcome: OutcomeDying}, nil
}

// ApplyDamageWhileDying records the automatic failure caused by taking
// damage at zero hit points: one failure, or two on a critical hit. Damage
// also knocks a stable combatant back to dying.
func ApplyDamageWhileDying(state DeathSaveState, critical bool) (DeathSaveState, DeathSaveOutcome) {
	state = state.clamp()
	if state.Dead {
		return state, OutcomeDead
	}

	state.Stable = false
	state.Failures++
	if critical {
		state.Failures++
	}

	if state.Failures >= maxDeathSaveCount {
		state = DeathSaveState{Failures: maxDeathSaveCount, Dead: true}
		return state, OutcomeDead
	}

	return state, OutcomeDying
}

// ApplyHealingWhileDying clears the dying state entirely: any amount of
// healing returns the combatant to consciousness with reset counters.
func ApplyHealingWhileDying(state DeathSaveState) DeathSaveState {
	if state.Dead {
		return state
	}
	return DeathSaveState{}
}

// Stabilize ends the death saves without healing, as from a spell or other
// automatic effect. Counters reset; the combatant stays unconscious.
func Stabilize(state DeathSaveState) DeathSaveState {
	if state.Dead {
		return state
	}
	return DeathSaveState{Stable: true}
}

// StabilizeWithCheck applies an externally rolled skill check against DC
// 10, stabilizing on success. The check is supplied already resolved; this
// core does not own skill-check rules.
func StabilizeWithCheck(state DeathSaveState, checkTotal int) (DeathSaveState, bool) {
	if state.Dead || checkTotal < StabilizeCheckDC {
		return state.clamp(), false
	}
	return DeathSaveState{Stable: true}, true
}
