// Package encounter is the orchestration layer over combat sessions: it
// creates and stores sessions through the repository, builds combatants
// from the rules registry, and drives the turn loop including the triggers
// the lower layers leave to it (opportunity attacks, death save turns).
package encounter

//go:generate mockgen -destination=mock/mock_service.go -package=mockencounter -source=service.go

import (
	"context"
	"log"
	"strings"

	"github.com/KirkDiggler/tactics-engine/internal/combat"
	"github.com/KirkDiggler/tactics-engine/internal/combat/grid"
	"github.com/KirkDiggler/tactics-engine/internal/combat/resolver"
	"github.com/KirkDiggler/tactics-engine/internal/dice"
	"github.com/KirkDiggler/tactics-engine/internal/errors"
	"github.com/KirkDiggler/tactics-engine/internal/repositories/encounters"
	"github.com/KirkDiggler/tactics-engine/internal/ruleset"
	"github.com/KirkDiggler/tactics-engine/internal/uuid"
)

// Service defines the encounter service interface
type Service interface {
	// CreateEncounter creates a new combat session in an arena
	CreateEncounter(ctx context.Context, input *CreateEncounterInput) (*combat.Session, error)

	// GetEncounter retrieves a session by ID
	GetEncounter(ctx context.Context, encounterID string) (*combat.Session, error)

	// ListEncounters retrieves every session in an arena
	ListEncounters(ctx context.Context, arenaID string) ([]*combat.Session, error)

	// AddMonster adds a monster built from the rules registry
	AddMonster(ctx context.Context, encounterID string, input *AddMonsterInput) (*combat.Combatant, error)

	// AddPlayer adds a player character with gear resolved from the registry
	AddPlayer(ctx context.Context, encounterID string, input *AddPlayerInput) (*combat.Combatant, error)

	// RemoveCombatant removes a combatant and all its session state
	RemoveCombatant(ctx context.Context, encounterID, combatantID string) error

	// RollInitiative rolls initiative for all combatants
	RollInitiative(ctx context.Context, encounterID string) error

	// StartEncounter begins combat
	StartEncounter(ctx context.Context, encounterID string) error

	// Move walks a combatant along the cheapest path, resolving any
	// opportunity attacks the move provokes
	Move(ctx context.Context, encounterID, combatantID string, to grid.Position) (*MoveOutput, error)

	// Attack resolves one attack between combatants
	Attack(ctx context.Context, encounterID, attackerID, targetID string) (*combat.AttackOutcome, error)

	// SavingThrow rolls a saving throw for a combatant
	SavingThrow(ctx context.Context, encounterID, combatantID string, input *SavingThrowInput) (*resolver.SavingThrowResult, error)

	// NextTurn advances the turn, handling death save turns along the way,
	// and returns the combatant now up (nil when combat ended)
	NextTurn(ctx context.Context, encounterID string) (*combat.Combatant, error)

	// EndEncounter ends the session
	EndEncounter(ctx context.Context, encounterID string) error
}

// CreateEncounterInput contains data for creating an encounter
type CreateEncounterInput struct {
	ArenaID    string
	Name       string
	GridWidth  int
	GridHeight int
	Diagonal   grid.DiagonalRule
}

// AddMonsterInput places a monster from the rules registry. The first
// action on the stat block becomes its attack profile.
type AddMonsterInput struct {
	MonsterKey string
	Name       string // optional display name override
	Position   grid.Position
}

// AddPlayerInput places a player character. Armor class comes from the
// registry's armor formulas; the weapon supplies the damage profile.
type AddPlayerInput struct {
	Name            string
	MaxHP           int
	Speed           int
	DexModifier     int
	InitiativeBonus int
	AttackBonus     int
	DamageModifier  int
	ArmorKey        string
	ShieldKey       string
	WeaponKey       string
	SaveModifiers   map[string]int
	Position        grid.Position
}

// SavingThrowInput names the save to roll
type SavingThrowInput struct {
	Ability      string
	DC           int
	Advantage    bool
	Disadvantage bool
	AutoFail     bool
	AutoSucceed  bool
}

// MoveOutput is a move plus the opportunity attacks it triggered
type MoveOutput struct {
	Move               *combat.MoveResult       `json:"move"`
	OpportunityAttacks []*resolver.AttackResult `json:"opportunity_attacks,omitempty"`
}

type service struct {
	repository    encounters.Repository
	rules         *ruleset.Registry
	roller        dice.Roller
	engine        *resolver.Engine
	uuidGenerator uuid.Generator
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Repository     encounters.Repository
	Rules          *ruleset.Registry
	Roller         dice.Roller
	ResolverConfig *resolver.Config
	UUIDGenerator  uuid.Generator
}

// NewService creates a new encounter service
func NewService(cfg *ServiceConfig) Service {
	if cfg.Repository == nil {
		panic("repository is required")
	}
	if cfg.Rules == nil {
		panic("rules registry is required")
	}
	if cfg.Roller == nil {
		panic("dice roller is required")
	}

	svc := &service{
		repository: cfg.Repository,
		rules:      cfg.Rules,
		roller:     cfg.Roller,
		engine:     resolver.NewEngine(cfg.Roller, cfg.ResolverConfig),
	}

	if cfg.UUIDGenerator != nil {
		svc.uuidGenerator = cfg.UUIDGenerator
	} else {
		svc.uuidGenerator = uuid.NewGoogleUUIDGenerator()
	}

	return svc
}

func (s *service) CreateEncounter(ctx context.Context, input *CreateEncounterInput) (*combat.Session, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, errors.InvalidArgument("encounter name is required")
	}

	encounterID := s.uuidGenerator.New()
	session := combat.NewSession(encounterID, input.ArenaID, input.Name, &grid.Config{
		Width:    input.GridWidth,
		Height:   input.GridHeight,
		Diagonal: input.Diagonal,
	})

	if err := s.repository.Create(ctx, session); err != nil {
		return nil, errors.Wrap(err, "failed to create encounter")
	}

	log.Printf("[ENCOUNTER] created %s (%s) in arena %s", session.Name, session.ID, session.ArenaID)
	return session, nil
}

func (s *service) GetEncounter(ctx context.Context, encounterID string) (*combat.Session, error) {
	if strings.TrimSpace(encounterID) == "" {
		return nil, errors.InvalidArgument("encounter ID is required")
	}

	session, err := s.repository.Get(ctx, encounterID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get encounter '%s'", encounterID)
	}

	return session, nil
}

func (s *service) ListEncounters(ctx context.Context, arenaID string) ([]*combat.Session, error) {
	if strings.TrimSpace(arenaID) == "" {
		return nil, errors.InvalidArgument("arena ID is required")
	}

	return s.repository.ListByArena(ctx, arenaID)
}

func (s *service) AddMonster(ctx context.Context, encounterID string, input *AddMonsterInput) (*combat.Combatant, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}

	monster, exists := s.rules.Monster(input.MonsterKey)
	if !exists {
		return nil, errors.NotFoundf("monster %s not in rules registry", input.MonsterKey)
	}

	session, err := s.repository.Get(ctx, encounterID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get encounter")
	}

	name := input.Name
	if name == "" {
		name = monster.Name
	}

	combatant := &combat.Combatant{
		ID:         s.uuidGenerator.New(),
		Name:       name,
		Type:       combat.CombatantTypeMonster,
		CurrentHP:  monster.MaxHP,
		MaxHP:      monster.MaxHP,
		AC:         monster.AC,
		Speed:      monster.Speed,
		Position:   input.Position,
		MonsterKey: monster.Key,
		CR:         monster.CR,
		XP:         monster.XP,
	}
	if len(monster.Actions) > 0 {
		action := monster.Actions[0]
		combatant.AttackBonus = action.AttackBonus
		combatant.DamageNotation = action.DamageNotation
		combatant.DamageType = action.DamageType
	}

	if err := session.AddCombatant(combatant); err != nil {
		return nil, err
	}
	if err := s.repository.Update(ctx, session); err != nil {
		return nil, errors.Wrap(err, "failed to save encounter")
	}

	return combatant, nil
}

func (s *service) AddPlayer(ctx context.Context, encounterID string, input *AddPlayerInput) (*combat.Combatant, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, errors.InvalidArgument("player name is required")
	}

	session, err := s.repository.Get(ctx, encounterID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get encounter")
	}

	ac := 10 + input.DexModifier
	if input.ArmorKey != "" {
		armorAC, found := s.rules.ArmorClass(input.ArmorKey, input.DexModifier)
		if !found {
			return nil, errors.NotFoundf("armor %s not in rules registry", input.ArmorKey)
		}
		ac = armorAC
	}
	if input.ShieldKey != "" {
		bonus, found := s.rules.ArmorClass(input.ShieldKey, input.DexModifier)
		if !found {
			return nil, errors.NotFoundf("shield %s not in rules registry", input.ShieldKey)
		}
		ac += bonus
	}

	combatant := &combat.Combatant{
		ID:              s.uuidGenerator.New(),
		Name:            input.Name,
		Type:            combat.CombatantTypePlayer,
		InitiativeBonus: input.InitiativeBonus,
		CurrentHP:       input.MaxHP,
		MaxHP:           input.MaxHP,
		AC:              ac,
		Speed:           input.Speed,
		Position:        input.Position,
		AttackBonus:     input.AttackBonus,
		DamageModifier:  input.DamageModifier,
		SaveModifiers:   input.SaveModifiers,
	}

	if input.WeaponKey != "" {
		weapon, found := s.rules.Weapon(input.WeaponKey)
		if !found {
			return nil, errors.NotFoundf("weapon %s not in rules registry", input.WeaponKey)
		}
		combatant.WeaponKey = weapon.Key
		combatant.DamageNotation = weapon.DamageNotation
		combatant.DamageType = weapon.DamageType
		combatant.Reach = weapon.ThreatReach()
	}

	if err := session.AddCombatant(combatant); err != nil {
		return nil, err
	}
	if err := s.repository.Update(ctx, session); err != nil {
		return nil, errors.Wrap(err, "failed to save encounter")
	}

	return combatant, nil
}

func (s *service) RemoveCombatant(ctx context.Context, encounterID, combatantID string) error {
	session, err := s.repository.Get(ctx, encounterID)
	if err != nil {
		return errors.Wrap(err, "failed to get encounter")
	}

	if !session.RemoveCombatant(combatantID) {
		return errors.NotFoundf("combatant %s not in encounter", combatantID)
	}

	return s.repository.Update(ctx, session)
}

func (s *service) RollInitiative(ctx context.Context, encounterID string) error {
	session, err := s.repository.Get(ctx, encounterID)
	if err != nil {
		return errors.Wrap(err, "failed to get encounter")
	}

	if err := session.RollInitiative(s.roller); err != nil {
		return err
	}

	return s.repository.Update(ctx, session)
}

func (s *service) StartEncounter(ctx context.Context, encounterID string) error {
	session, err := s.repository.Get(ctx, encounterID)
	if err != nil {
		return errors.Wrap(err, "failed to get encounter")
	}

	if err := session.Start(); err != nil {
		return err
	}

	log.Printf("[ENCOUNTER] %s started with %d combatants", session.Name, len(session.Combatants))
	return s.repository.Update(ctx, session)
}

func (s *service) Move(ctx context.Context, encounterID, combatantID string, to grid.Position) (*MoveOutput, error) {
	session, err := s.repository.Get(ctx, encounterID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get encounter")
	}

	result, err := session.MoveCombatant(combatantID, to)
	if err != nil {
		return nil, err
	}

	output := &MoveOutput{Move: result}
	for _, enemyID := range result.Provoked {
		attack, attackErr := s.resolveOpportunityAttack(session, enemyID, combatantID)
		if attackErr != nil {
			return nil, attackErr
		}
		if attack != nil {
			output.OpportunityAttacks = append(output.OpportunityAttacks, attack)
		}
	}

	s.endIfDecided(session)
	if err := s.repository.Update(ctx, session); err != nil {
		return nil, errors.Wrap(err, "failed to save encounter")
	}

	return output, nil
}

// resolveOpportunityAttack spends the enemy's reaction and swings once at
// the mover. Opportunity attacks cost a reaction, not an action.
func (s *service) resolveOpportunityAttack(session *combat.Session, enemyID, moverID string) (*resolver.AttackResult, error) {
	if !session.Reactions.UseReaction(enemyID) {
		return nil, nil
	}

	enemy, exists := session.GetCombatant(enemyID)
	if !exists {
		return nil, nil
	}
	mover, exists := session.GetCombatant(moverID)
	if !exists {
		return nil, nil
	}

	result, err := s.engine.ResolveAttack(&resolver.AttackInput{
		AttackBonus:      enemy.AttackBonus,
		TargetAC:         mover.AC,
		DamageNotation:   enemy.DamageNotation,
		DamageModifier:   enemy.DamageModifier,
		DamageType:       enemy.DamageType,
		Disadvantage:     enemy.Exhaustion.Effects().AttackSaveDisadvantage,
		AttackerIsPlayer: enemy.Type == combat.CombatantTypePlayer,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[ENCOUNTER] %s takes an opportunity attack against %s", enemy.Name, mover.Name)

	if result.Hit && result.Damage != nil {
		if _, err := session.ApplyDamageTo(moverID, result.Damage.Total, result.DamageType, result.Critical); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (s *service) Attack(ctx context.Context, encounterID, attackerID, targetID string) (*combat.AttackOutcome, error) {
	session, err := s.repository.Get(ctx, encounterID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get encounter")
	}

	outcome, err := session.Attack(attackerID, targetID, s.engine)
	if err != nil {
		return nil, err
	}

	s.endIfDecided(session)
	if err := s.repository.Update(ctx, session); err != nil {
		return nil, errors.Wrap(err, "failed to save encounter")
	}

	return outcome, nil
}

func (s *service) SavingThrow(ctx context.Context, encounterID, combatantID string, input *SavingThrowInput) (*resolver.SavingThrowResult, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}

	session, err := s.repository.Get(ctx, encounterID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get encounter")
	}

	combatant, exists := session.GetCombatant(combatantID)
	if !exists {
		return nil, errors.NotFoundf("combatant %s not in encounter", combatantID)
	}

	result, err := s.engine.ResolveSavingThrow(&resolver.SavingThrowInput{
		Modifier:     combatant.SaveModifiers[input.Ability],
		DC:           input.DC,
		Advantage:    input.Advantage,
		Disadvantage: input.Disadvantage || combatant.Exhaustion.Effects().AttackSaveDisadvantage,
		AutoFail:     input.AutoFail,
		AutoSucceed:  input.AutoSucceed,
	})
	if err != nil {
		return nil, err
	}

	if err := s.repository.Update(ctx, session); err != nil {
		return nil, errors.Wrap(err, "failed to save encounter")
	}

	return result, nil
}

func (s *service) NextTurn(ctx context.Context, encounterID string) (*combat.Combatant, error) {
	session, err := s.repository.Get(ctx, encounterID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get encounter")
	}

	session.NextTurn()

	// A dying combatant's whole turn is its death save
	for current := session.CurrentCombatant(); current != nil && current.IsDying(); current = session.CurrentCombatant() {
		if _, err := session.RollDeathSave(current.ID, s.roller); err != nil {
			return nil, err
		}
		session.NextTurn()
	}

	s.endIfDecided(session)
	if err := s.repository.Update(ctx, session); err != nil {
		return nil, errors.Wrap(err, "failed to save encounter")
	}

	return session.CurrentCombatant(), nil
}

func (s *service) EndEncounter(ctx context.Context, encounterID string) error {
	session, err := s.repository.Get(ctx, encounterID)
	if err != nil {
		return errors.Wrap(err, "failed to get encounter")
	}

	session.End()
	return s.repository.Update(ctx, session)
}

func (s *service) endIfDecided(session *combat.Session) {
	if session.Status != combat.SessionStatusActive {
		return
	}
	if over, playersWon := session.CheckEnd(); over {
		session.End()
		log.Printf("[ENCOUNTER] %s is over, players won: %t", session.Name, playersWon)
	}
}
