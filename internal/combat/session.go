// Package combat owns one encounter's runtime state: the session with its
// grid, reaction registry, turn order and per-combatant status machines,
// plus the turn, movement and damage transitions over them. Everything a
// session owns is exclusive to that encounter; nothing here is shared
// process-wide.
package combat

import (
	"fmt"
	"sort"
	"time"

	"github.com/KirkDiggler/tactics-engine/internal/combat/grid"
	"github.com/KirkDiggler/tactics-engine/internal/combat/reactions"
	"github.com/KirkDiggler/tactics-engine/internal/combat/resolver"
	"github.com/KirkDiggler/tactics-engine/internal/combat/status"
	"github.com/KirkDiggler/tactics-engine/internal/dice"
	"github.com/KirkDiggler/tactics-engine/internal/errors"
)

// SessionStatus represents the current state of a combat session
type SessionStatus string

const (
	SessionStatusSetup     SessionStatus = "setup"     // Adding combatants
	SessionStatusRolling   SessionStatus = "rolling"   // Initiative rolled, not started
	SessionStatusActive    SessionStatus = "active"    // Combat in progress
	SessionStatusCompleted SessionStatus = "completed" // Combat finished
)

// maxLogEntries bounds the combat log so long encounters don't grow a
// session document without limit
const maxLogEntries = 100

// Session is one combat encounter: combatants, the battle grid, the
// reaction registry and the turn structure over them. A session is owned
// exclusively by one caller at a time and is not safe for concurrent use.
type Session struct {
	ID         string                `json:"id"`
	ArenaID    string                `json:"arena_id"`
	Name       string                `json:"name"`
	Status     SessionStatus         `json:"status"`
	Round      int                   `json:"round"`
	Turn       int                   `json:"turn"` // index into TurnOrder
	Combatants map[string]*Combatant `json:"combatants"`
	TurnOrder  []string              `json:"turn_order"`
	Grid       *grid.Grid            `json:"-"`
	Reactions  *reactions.Registry   `json:"-"`
	CombatLog  []string              `json:"combat_log"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
	StartedAt  *time.Time            `json:"started_at,omitempty"`
	EndedAt    *time.Time            `json:"ended_at,omitempty"`
}

// NewSession creates a combat session with a fresh grid. The arena id
// groups sessions in storage. A nil grid config uses the 8x8 default.
func NewSession(id, arenaID, name string, gridCfg *grid.Config) *Session {
	return &Session{
		ID:         id,
		ArenaID:    arenaID,
		Name:       name,
		Status:     SessionStatusSetup,
		Combatants: make(map[string]*Combatant),
		TurnOrder:  []string{},
		Grid:       grid.New(gridCfg),
		Reactions:  reactions.NewRegistry(),
		CombatLog:  []string{},
		CreatedAt:  time.Now(),
	}
}

// AddCombatant places a combatant on the grid and registers its reaction.
// The starting position must be an in-bounds, passable, unoccupied cell.
func (s *Session) AddCombatant(c *Combatant) error {
	if c == nil || c.ID == "" {
		return errors.InvalidArgument("combatant requires an id")
	}
	if _, exists := s.Combatants[c.ID]; exists {
		return errors.AlreadyExists("combatant " + c.ID + " already in session")
	}

	cell := s.Grid.GetCell(c.Position.X, c.Position.Y)
	if cell == nil {
		return errors.InvalidArgumentf("starting position (%d,%d) is out of bounds", c.Position.X, c.Position.Y)
	}
	if !cell.IsPassable() {
		return errors.InvalidArgumentf("starting position (%d,%d) is not open", c.Position.X, c.Position.Y)
	}

	c.IsActive = true
	s.Combatants[c.ID] = c
	s.Grid.SetOccupant(c.Position.X, c.Position.Y, c.ID)
	s.Reactions.Register(c.ID)
	return nil
}

// RemoveCombatant takes a combatant out of the session in one step:
// occupancy, reaction state, turn order and the combatant record all go
// together. Returns false for unknown ids.
func (s *Session) RemoveCombatant(id string) bool {
	c, exists := s.Combatants[id]
	if !exists {
		return false
	}

	s.clearOccupancy(c)
	s.Reactions.Unregister(id)
	delete(s.Combatants, id)

	for i, cid := range s.TurnOrder {
		if cid != id {
			continue
		}
		s.TurnOrder = append(s.TurnOrder[:i], s.TurnOrder[i+1:]...)
		if i < s.Turn && s.Turn > 0 {
			s.Turn--
		}
		break
	}
	return true
}

// GetCombatant looks up a combatant by id
func (s *Session) GetCombatant(id string) (*Combatant, bool) {
	c, exists := s.Combatants[id]
	return c, exists
}

// RollInitiative rolls a d20 plus initiative bonus for every combatant and
// builds the turn order: initiative descending, ties broken by bonus then
// id so identical rolls always order identically.
func (s *Session) RollInitiative(roller dice.Roller) error {
	if len(s.Combatants) == 0 {
		return errors.InvalidArgument("no combatants to roll initiative for")
	}

	ids := make([]string, 0, len(s.Combatants))
	for id := range s.Combatants {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		c := s.Combatants[id]
		roll, err := dice.RollD20(roller, c.InitiativeBonus, false, false)
		if err != nil {
			return err
		}
		c.Initiative = roll.Total
		s.logf("%s rolls initiative %d", c.Name, c.Initiative)
	}

	sort.SliceStable(ids, func(i, j int) bool {
		a, b := s.Combatants[ids[i]], s.Combatants[ids[j]]
		if a.Initiative != b.Initiative {
			return a.Initiative > b.Initiative
		}
		if a.InitiativeBonus != b.InitiativeBonus {
			return a.InitiativeBonus > b.InitiativeBonus
		}
		return a.ID < b.ID
	})

	s.TurnOrder = ids
	s.Status = SessionStatusRolling
	return nil
}

// Start begins combat after initiative is rolled
func (s *Session) Start() error {
	if s.Status != SessionStatusRolling || len(s.TurnOrder) == 0 {
		return errors.InvalidArgument("initiative must be rolled before combat starts")
	}

	now := time.Now()
	s.Status = SessionStatusActive
	s.StartedAt = &now
	s.Round = 1
	s.Turn = 0
	s.logf("combat begins")

	if over, _ := s.CheckEnd(); over {
		s.End()
		return nil
	}

	s.skipToNextActor()
	if current := s.CurrentCombatant(); current != nil {
		s.beginTurn(current)
	}
	return nil
}

// CurrentCombatant returns the combatant whose turn it is, or nil when
// combat is not active
func (s *Session) CurrentCombatant() *Combatant {
	if s.Status != SessionStatusActive || s.Turn >= len(s.TurnOrder) {
		return nil
	}
	return s.Combatants[s.TurnOrder[s.Turn]]
}

// NextTurn advances to the next combatant that can take a turn, rolling
// over into a new round when the order is exhausted. Dying combatants
// still take turns so they can roll death saves.
func (s *Session) NextTurn() {
	if s.Status != SessionStatusActive {
		return
	}

	if current := s.CurrentCombatant(); current != nil {
		current.HasActed = true
	}

	s.Turn++

	if over, _ := s.CheckEnd(); over {
		s.End()
		return
	}

	s.skipToNextActor()

	if s.Turn >= len(s.TurnOrder) {
		s.Round++
		s.Turn = 0
		for _, c := range s.Combatants {
			c.HasActed = false
		}
		s.skipToNextActor()
	}

	if current := s.CurrentCombatant(); current != nil {
		s.beginTurn(current)
	}
}

// beginTurn resets the combatant's reaction and action economy. The
// reaction comes back exactly here, at the start of the combatant's own
// turn, never at the round boundary.
func (s *Session) beginTurn(c *Combatant) {
	s.Reactions.ResetForTurn(c.ID)
	c.resetTurnEconomy()
}

// takesTurns reports whether the combatant still occupies a slot in the
// turn rotation. Dying combatants do; dead, stable and removed ones don't.
func (c *Combatant) takesTurns() bool {
	if !c.IsActive || c.IsDead() {
		return false
	}
	return c.CurrentHP > 0 || c.IsDying()
}

func (s *Session) skipToNextActor() {
	for s.Turn < len(s.TurnOrder) {
		if c, exists := s.Combatants[s.TurnOrder[s.Turn]]; exists && c.takesTurns() {
			return
		}
		s.Turn++
	}
}

// MoveResult reports one movement attempt: the path search outcome, the
// movement spent, and which enemies the move provoked opportunity attacks
// from. Resolving those attacks is the caller's business.
type MoveResult struct {
	Path     *grid.PathResult `json:"path"`
	Spent    int              `json:"spent"`
	Provoked []string         `json:"provoked,omitempty"`
}

// MoveCombatant moves a combatant along the cheapest path within its
// remaining movement for the turn. A path that doesn't exist or doesn't
// fit the budget is a routine outcome reported in the result.
func (s *Session) MoveCombatant(id string, to grid.Position) (*MoveResult, error) {
	c, exists := s.Combatants[id]
	if !exists {
		return nil, errors.NotFoundf("combatant %s not in session", id)
	}
	if !c.CanAct() {
		return nil, errors.InvalidArgumentf("%s cannot move", c.Name)
	}

	budget := c.EffectiveSpeed() - c.MovementUsed
	if budget < 0 {
		budget = 0
	}

	path := s.Grid.FindPath(c.Position, to, budget)
	result := &MoveResult{Path: path}
	if !path.Found {
		return result, nil
	}
	if path.Cost == 0 {
		return result, nil
	}

	result.Provoked = s.provokedBy(c, path.Path)

	s.clearOccupancy(c)
	c.Position = to
	s.Grid.SetOccupant(to.X, to.Y, c.ID)
	c.MovementUsed += path.Cost
	result.Spent = path.Cost

	s.logf("%s moves to (%d,%d), %d ft", c.Name, to.X, to.Y, path.Cost)
	return result, nil
}

// provokedBy returns the ids of hostile combatants whose reach the mover
// leaves along the path and whose reaction is still available. Eligibility
// is judged cell by cell: in threat range at one step, out of it at the
// next.
func (s *Session) provokedBy(mover *Combatant, path []grid.Position) []string {
	var provoked []string

	for _, enemy := range s.sortedCombatants() {
		if enemy.ID == mover.ID || !enemy.HostileTo(mover) || !enemy.CanAct() {
			continue
		}
		if !s.Reactions.HasReaction(enemy.ID) {
			continue
		}

		threatened := make(map[grid.Position]bool)
		for _, sq := range s.Grid.ThreatenedSquares(enemy.Position, enemy.ThreatReach()) {
			threatened[sq] = true
		}

		for i := 0; i+1 < len(path); i++ {
			if threatened[path[i]] && !threatened[path[i+1]] {
				provoked = append(provoked, enemy.ID)
				break
			}
		}
	}

	return provoked
}

// AttackOutcome is the session-level result of one attack: the resolved
// roll plus what the damage did to the target
type AttackOutcome struct {
	Attack *resolver.AttackResult `json:"attack,omitempty"`
	Damage *DamageOutcome         `json:"damage,omitempty"`
	Reason string                 `json:"reason,omitempty"` // why no roll happened
}

// Attack resolves an attack from one combatant against another, spending
// the attacker's action. Cover raises the effective defense; fully blocked
// line of sight makes the attack impossible without a roll.
func (s *Session) Attack(attackerID, targetID string, engine *resolver.Engine) (*AttackOutcome, error) {
	attacker, exists := s.Combatants[attackerID]
	if !exists {
		return nil, errors.NotFoundf("combatant %s not in session", attackerID)
	}
	target, exists := s.Combatants[targetID]
	if !exists {
		return nil, errors.NotFoundf("combatant %s not in session", targetID)
	}
	if !attacker.CanAct() {
		return nil, errors.InvalidArgumentf("%s cannot act", attacker.Name)
	}
	if attacker.ActionUsed {
		return nil, errors.InvalidArgumentf("%s has already used their action", attacker.Name)
	}
	if target.IsDead() || !target.IsActive {
		return nil, errors.InvalidArgumentf("%s is not a valid target", target.Name)
	}

	cover := s.Grid.Cover(attacker.Position, target.Position)
	if cover >= grid.CoverBlocked {
		return &AttackOutcome{Reason: "no line of sight"}, nil
	}

	attacker.ActionUsed = true

	effects := attacker.Exhaustion.Effects()
	input := &resolver.AttackInput{
		AttackBonus:      attacker.AttackBonus,
		TargetAC:         target.AC + cover,
		DamageNotation:   attacker.DamageNotation,
		DamageModifier:   attacker.DamageModifier,
		DamageType:       attacker.DamageType,
		Disadvantage:     effects.AttackSaveDisadvantage,
		AutoCrit:         target.IsUnconscious() && s.inMeleeReach(attacker, target),
		AttackerIsPlayer: attacker.Type == CombatantTypePlayer,
	}

	result, err := engine.ResolveAttack(input)
	if err != nil {
		return nil, err
	}

	outcome := &AttackOutcome{Attack: result}
	if !result.Hit {
		s.logf("%s attacks %s: miss (%d vs AC %d)", attacker.Name, target.Name, result.Roll.Total, input.TargetAC)
		return outcome, nil
	}
	if result.Damage == nil {
		return outcome, nil
	}

	s.logf("%s hits %s for %d %s", attacker.Name, target.Name, result.Damage.Total, result.DamageType)

	damage, err := s.ApplyDamageTo(targetID, result.Damage.Total, result.DamageType, result.Critical)
	if err != nil {
		return nil, err
	}
	outcome.Damage = damage
	return outcome, nil
}

// inMeleeReach reports whether the target stands within the attacker's
// melee threat range
func (s *Session) inMeleeReach(attacker, target *Combatant) bool {
	dx := abs(attacker.Position.X - target.Position.X)
	dy := abs(attacker.Position.Y - target.Position.Y)
	reach := attacker.ThreatReach()
	return dx <= reach && dy <= reach && (dx != 0 || dy != 0)
}

// DamageOutcome reports what a damage application did to a combatant
type DamageOutcome struct {
	Application resolver.DamageApplication `json:"application"`
	Dying       bool                       `json:"dying"`
	Dead        bool                       `json:"dead"`
}

// ApplyDamageTo routes damage through the target's resistances and hit
// point pool, then drives the death transitions: monsters drop dead at
// zero, players fall dying, massive overflow kills outright, and damage
// to someone already dying fails death saves for them.
func (s *Session) ApplyDamageTo(id string, damage int, damageType string, critical bool) (*DamageOutcome, error) {
	c, exists := s.Combatants[id]
	if !exists {
		return nil, errors.NotFoundf("combatant %s not in session", id)
	}

	wasDying := c.IsDying()

	application := resolver.ApplyDamage(
		c.CurrentHP, c.MaxHP, damage,
		c.HasResistance(damageType),
		c.HasVulnerability(damageType),
		c.HasImmunity(damageType),
	)

	// Temp HP absorbs adjusted damage before the real pool takes any
	adjusted := application.ActualDamage
	if c.TempHP > 0 && adjusted > 0 {
		if adjusted <= c.TempHP {
			c.TempHP -= adjusted
			return &DamageOutcome{Application: resolver.DamageApplication{
				NewHP:        c.CurrentHP,
				ActualDamage: adjusted,
			}}, nil
		}
		adjusted -= c.TempHP
		c.TempHP = 0
		application = resolver.ApplyDamage(c.CurrentHP, c.MaxHP, adjusted, false, false, false)
	}

	c.CurrentHP = application.NewHP
	outcome := &DamageOutcome{Application: application}

	if wasDying && application.ActualDamage > 0 {
		// Massive overflow kills outright even mid death saves
		if application.InstantDeath {
			s.kill(c)
			outcome.Dead = true
			return outcome, nil
		}
		state, saveOutcome := status.ApplyDamageWhileDying(c.DeathSaves, critical)
		c.DeathSaves = state
		if saveOutcome == status.OutcomeDead {
			s.kill(c)
			outcome.Dead = true
			return outcome, nil
		}
		outcome.Dying = true
		return outcome, nil
	}

	if !application.Unconscious {
		return outcome, nil
	}

	if application.InstantDeath || c.Type == CombatantTypeMonster {
		s.kill(c)
		outcome.Dead = true
		return outcome, nil
	}

	c.DeathSaves = status.DeathSaveState{}
	outcome.Dying = true
	s.logf("%s falls unconscious", c.Name)
	return outcome, nil
}

// HealCombatant restores hit points. Any healing brings a dying combatant
// back to consciousness with their death save counters cleared; nothing
// heals the dead.
func (s *Session) HealCombatant(id string, amount int) (*resolver.HealingApplication, error) {
	c, exists := s.Combatants[id]
	if !exists {
		return nil, errors.NotFoundf("combatant %s not in session", id)
	}
	if c.IsDead() {
		return nil, errors.InvalidArgumentf("%s is dead", c.Name)
	}

	application := resolver.ApplyHealing(c.CurrentHP, c.MaxHP, amount)
	c.CurrentHP = application.NewHP
	c.DeathSaves = status.ApplyHealingWhileDying(c.DeathSaves)

	if application.ActualHealing > 0 {
		s.logf("%s regains %d hit points", c.Name, application.ActualHealing)
	}
	return &application, nil
}

// RollDeathSave rolls the dying combatant's death save for this turn. A
// revival puts them back up at one hit point; a third failure kills them.
func (s *Session) RollDeathSave(id string, roller dice.Roller) (*status.DeathSaveResult, error) {
	c, exists := s.Combatants[id]
	if !exists {
		return nil, errors.NotFoundf("combatant %s not in session", id)
	}
	if !c.IsDying() {
		return nil, errors.InvalidArgumentf("%s is not dying", c.Name)
	}

	state, result, err := status.RollDeathSave(roller, c.DeathSaves)
	if err != nil {
		return nil, err
	}
	c.DeathSaves = state

	switch result.Outcome {
	case status.OutcomeRevived:
		c.CurrentHP = 1
		s.logf("%s rolls a natural 20 and regains consciousness", c.Name)
	case status.OutcomeDead:
		s.kill(c)
	case status.OutcomeStable:
		s.logf("%s stabilizes", c.Name)
	default:
		s.logf("%s death save: %d successes, %d failures", c.Name, state.Successes, state.Failures)
	}
	return result, nil
}

// kill marks a combatant dead and clears their square. The record stays in
// the session for the log and post-combat accounting; RemoveCombatant
// drops it entirely.
func (s *Session) kill(c *Combatant) {
	c.CurrentHP = 0
	c.IsActive = false
	c.DeathSaves.Dead = true
	if c.Type != CombatantTypeMonster {
		c.DeathSaves.Failures = 3
	}
	s.clearOccupancy(c)
	s.logf("%s dies", c.Name)
}

// CheckEnd reports whether combat is over and which side won. Combat ends
// when one side has no combatant left who can fight or recover.
func (s *Session) CheckEnd() (over, playersWon bool) {
	monsters, players := 0, 0
	for _, c := range s.Combatants {
		if !c.IsActive || c.IsDead() {
			continue
		}
		if c.Type == CombatantTypeMonster {
			monsters++
		} else {
			players++
		}
	}

	switch {
	case monsters == 0 && players > 0:
		return true, true
	case players == 0 && monsters > 0:
		return true, false
	}
	return false, false
}

// End concludes the session
func (s *Session) End() {
	if s.Status == SessionStatusCompleted {
		return
	}
	now := time.Now()
	s.Status = SessionStatusCompleted
	s.EndedAt = &now
	s.logf("combat ends")
}

// sortedCombatants returns combatants ordered by id for deterministic
// iteration
func (s *Session) sortedCombatants() []*Combatant {
	ids := make([]string, 0, len(s.Combatants))
	for id := range s.Combatants {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]*Combatant, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.Combatants[id])
	}
	return out
}

func (s *Session) clearOccupancy(c *Combatant) {
	if cell := s.Grid.GetCell(c.Position.X, c.Position.Y); cell != nil && cell.Occupant == c.ID {
		s.Grid.SetOccupant(c.Position.X, c.Position.Y, "")
	}
}

// logf appends a round-stamped entry to the combat log, trimming the
// oldest entries past the cap
func (s *Session) logf(format string, args ...any) {
	entry := fmt.Sprintf("Round %d: %s", s.Round, fmt.Sprintf(format, args...))
	s.CombatLog = append(s.CombatLog, entry)
	if len(s.CombatLog) > maxLogEntries {
		s.CombatLog = s.CombatLog[len(s.CombatLog)-maxLogEntries:]
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
