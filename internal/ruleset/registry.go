// Package ruleset holds the immutable rules registry: weapon, armor and
// monster descriptors parsed from trusted plain data at startup. The
// registry is constructed once and passed by reference wherever rule data
// is needed; there is no hidden static initialization.
package ruleset

import (
	"github.com/KirkDiggler/tactics-engine/internal/dice"
	"github.com/KirkDiggler/tactics-engine/internal/errors"
)

// WeaponDescriptor describes one weapon's combat profile
type WeaponDescriptor struct {
	Key            string   `json:"key"`
	Name           string   `json:"name"`
	DamageNotation string   `json:"damage_notation"`
	DamageType     string   `json:"damage_type"`
	Properties     []string `json:"properties,omitempty"`

	// Reach is the melee threat range in cells; zero defaults to 1
	Reach  int  `json:"reach,omitempty"`
	Ranged bool `json:"ranged,omitempty"`
}

// HasProperty reports whether the weapon carries a property flag
func (w *WeaponDescriptor) HasProperty(property string) bool {
	for _, p := range w.Properties {
		if p == property {
			return true
		}
	}
	return false
}

// ThreatReach returns the weapon's melee reach in cells
func (w *WeaponDescriptor) ThreatReach() int {
	if w.Reach > 0 {
		return w.Reach
	}
	return 1
}

// ArmorDescriptor describes one armor piece by its AC formula string
type ArmorDescriptor struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	ACFormula string `json:"ac_formula"`
}

// MonsterAction is one attack option on a monster stat block
type MonsterAction struct {
	Name           string `json:"name"`
	AttackBonus    int    `json:"attack_bonus"`
	DamageNotation string `json:"damage_notation"`
	DamageType     string `json:"damage_type"`
}

// MonsterDescriptor is a monster stat block snapshot
type MonsterDescriptor struct {
	Key       string           `json:"key"`
	Name      string           `json:"name"`
	MaxHP     int              `json:"max_hp"`
	AC        int              `json:"ac"`
	Speed     int              `json:"speed"`
	CR        float64          `json:"cr,omitempty"`
	XP        int              `json:"xp,omitempty"`
	Abilities map[string]int   `json:"abilities,omitempty"`
	Actions   []*MonsterAction `json:"actions,omitempty"`
}

// Config holds the raw descriptors the registry is built from
type Config struct {
	Weapons  []*WeaponDescriptor
	Armor    []*ArmorDescriptor
	Monsters []*MonsterDescriptor
}

// Registry is the immutable rules lookup built once at startup. All
// notation and formula strings are validated during construction so
// lookups never fail on malformed data.
type Registry struct {
	weapons  map[string]*WeaponDescriptor
	armor    map[string]*ArmorDescriptor
	formulas map[string]*ACFormula
	monsters map[string]*MonsterDescriptor
}

// New builds a registry from plain descriptors, validating every damage
// notation and AC formula up front
func New(cfg *Config) (*Registry, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	registry := &Registry{
		weapons:  make(map[string]*WeaponDescriptor, len(cfg.Weapons)),
		armor:    make(map[string]*ArmorDescriptor, len(cfg.Armor)),
		formulas: make(map[string]*ACFormula, len(cfg.Armor)),
		monsters: make(map[string]*MonsterDescriptor, len(cfg.Monsters)),
	}

	for _, weapon := range cfg.Weapons {
		if weapon.Key == "" {
			return nil, errors.InvalidArgument("weapon descriptor missing key")
		}
		if _, err := dice.ParseNotation(weapon.DamageNotation); err != nil {
			return nil, errors.Wrapf(err, "weapon %s has invalid damage notation", weapon.Key)
		}
		if _, exists := registry.weapons[weapon.Key]; exists {
			return nil, errors.AlreadyExists("duplicate weapon key " + weapon.Key)
		}
		registry.weapons[weapon.Key] = weapon
	}

	for _, armor := range cfg.Armor {
		if armor.Key == "" {
			return nil, errors.InvalidArgument("armor descriptor missing key")
		}
		formula, err := ParseACFormula(armor.ACFormula)
		if err != nil {
			return nil, errors.Wrapf(err, "armor %s has invalid AC formula", armor.Key)
		}
		if _, exists := registry.armor[armor.Key]; exists {
			return nil, errors.AlreadyExists("duplicate armor key " + armor.Key)
		}
		registry.armor[armor.Key] = armor
		registry.formulas[armor.Key] = formula
	}

	for _, monster := range cfg.Monsters {
		if monster.Key == "" {
			return nil, errors.InvalidArgument("monster descriptor missing key")
		}
		for _, action := range monster.Actions {
			if _, err := dice.ParseNotation(action.DamageNotation); err != nil {
				return nil, errors.Wrapf(err, "monster %s action %s has invalid damage notation", monster.Key, action.Name)
			}
		}
		if _, exists := registry.monsters[monster.Key]; exists {
			return nil, errors.AlreadyExists("duplicate monster key " + monster.Key)
		}
		registry.monsters[monster.Key] = monster
	}

	return registry, nil
}

// Weapon looks up a weapon descriptor by key
func (r *Registry) Weapon(key string) (*WeaponDescriptor, bool) {
	weapon, exists := r.weapons[key]
	return weapon, exists
}

// Armor looks up an armor descriptor by key
func (r *Registry) Armor(key string) (*ArmorDescriptor, bool) {
	armor, exists := r.armor[key]
	return armor, exists
}

// ArmorClass computes the armor class granted by a piece of armor for a
// combatant with the given Dex modifier
func (r *Registry) ArmorClass(key string, dexModifier int) (int, bool) {
	formula, exists := r.formulas[key]
	if !exists {
		return 0, false
	}
	return formula.Apply(dexModifier), true
}

// Monster looks up a monster descriptor by key
func (r *Registry) Monster(key string) (*MonsterDescriptor, bool) {
	monster, exists := r.monsters[key]
	return monster, exists
}
