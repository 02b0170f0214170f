package combat

import (
	"github.com/KirkDiggler/tactics-engine/internal/combat/grid"
	"github.com/KirkDiggler/tactics-engine/internal/combat/status"
)

// CombatantType represents the type of combatant
type CombatantType string

const (
	CombatantTypePlayer  CombatantType = "player"
	CombatantTypeMonster CombatantType = "monster"
	CombatantTypeNPC     CombatantType = "npc"
)

// Combatant represents a participant in combat. Its stat fields are a
// snapshot taken when it joins the encounter; the session mutates only the
// tracking fields (hit points, position, economy, status machines).
type Combatant struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Type            CombatantType `json:"type"`
	Initiative      int           `json:"initiative"`
	InitiativeBonus int           `json:"initiative_bonus"`
	CurrentHP       int           `json:"current_hp"`
	MaxHP           int           `json:"max_hp"`
	TempHP          int           `json:"temp_hp"`
	AC              int           `json:"ac"`
	Speed           int           `json:"speed"` // feet per turn
	Position        grid.Position `json:"position"`

	// Attack profile for the combatant's default weapon or action
	WeaponKey      string `json:"weapon_key,omitempty"`
	AttackBonus    int    `json:"attack_bonus"`
	DamageNotation string `json:"damage_notation,omitempty"`
	DamageModifier int    `json:"damage_modifier,omitempty"`
	DamageType     string `json:"damage_type,omitempty"`
	Reach          int    `json:"reach,omitempty"` // cells; zero defaults to 1

	SaveModifiers   map[string]int `json:"save_modifiers,omitempty"`
	Resistances     []string       `json:"resistances,omitempty"`
	Vulnerabilities []string       `json:"vulnerabilities,omitempty"`
	Immunities      []string       `json:"immunities,omitempty"`

	DeathSaves status.DeathSaveState  `json:"death_saves"`
	Exhaustion status.ExhaustionLevel `json:"exhaustion"`

	IsActive bool `json:"is_active"` // still in combat
	HasActed bool `json:"has_acted"` // has taken a turn this round

	// Action economy, reset at the start of the combatant's own turn
	ActionUsed      bool `json:"action_used"`
	BonusActionUsed bool `json:"bonus_action_used"`
	MovementUsed    int  `json:"movement_used"` // feet spent this turn

	// For monsters
	MonsterKey string  `json:"monster_key,omitempty"`
	CR         float64 `json:"cr,omitempty"`
	XP         int     `json:"xp,omitempty"`
}

// IsDead reports whether the combatant is permanently out: failed death
// saves, instant death, or exhaustion level six
func (c *Combatant) IsDead() bool {
	return c.DeathSaves.Dead || c.Exhaustion.IsDead()
}

// IsUnconscious reports whether the combatant is at zero hit points but
// not yet dead
func (c *Combatant) IsUnconscious() bool {
	return c.CurrentHP == 0 && !c.IsDead()
}

// IsDying reports whether the combatant rolls death saves on its turn:
// unconscious and neither stable nor dead. Only players and NPCs linger at
// zero hit points; monsters die outright.
func (c *Combatant) IsDying() bool {
	return c.Type != CombatantTypeMonster && c.IsUnconscious() && !c.DeathSaves.Stable
}

// CanAct reports whether the combatant can take actions this turn
func (c *Combatant) CanAct() bool {
	return c.IsActive && c.CurrentHP > 0 && !c.IsDead()
}

// EffectiveSpeed is the movement budget in feet after exhaustion penalties
func (c *Combatant) EffectiveSpeed() int {
	return int(float64(c.Speed) * c.Exhaustion.Effects().SpeedMultiplier)
}

// ThreatReach is the melee threat range in cells
func (c *Combatant) ThreatReach() int {
	if c.Reach > 0 {
		return c.Reach
	}
	return 1
}

// HostileTo reports whether two combatants are on opposing sides. Players
// and NPCs fight together against monsters.
func (c *Combatant) HostileTo(other *Combatant) bool {
	return (c.Type == CombatantTypeMonster) != (other.Type == CombatantTypeMonster)
}

// HasResistance reports whether the combatant resists a damage type
func (c *Combatant) HasResistance(damageType string) bool {
	return containsType(c.Resistances, damageType)
}

// HasVulnerability reports whether the combatant is vulnerable to a damage type
func (c *Combatant) HasVulnerability(damageType string) bool {
	return containsType(c.Vulnerabilities, damageType)
}

// HasImmunity reports whether the combatant is immune to a damage type
func (c *Combatant) HasImmunity(damageType string) bool {
	return containsType(c.Immunities, damageType)
}

// AddTempHP grants temporary hit points. Temp HP doesn't stack; the higher
// value wins.
func (c *Combatant) AddTempHP(amount int) {
	if amount > c.TempHP {
		c.TempHP = amount
	}
}

// resetTurnEconomy clears the per-turn action budget
func (c *Combatant) resetTurnEconomy() {
	c.ActionUsed = false
	c.BonusActionUsed = false
	c.MovementUsed = 0
}

func containsType(types []string, damageType string) bool {
	for _, t := range types {
		if t == damageType {
			return true
		}
	}
	return false
}
