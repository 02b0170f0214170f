package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/tactics-engine/internal/combat"
	"github.com/KirkDiggler/tactics-engine/internal/combat/grid"
	"github.com/KirkDiggler/tactics-engine/internal/combat/resolver"
	"github.com/KirkDiggler/tactics-engine/internal/config"
	"github.com/KirkDiggler/tactics-engine/internal/dice"
	"github.com/KirkDiggler/tactics-engine/internal/repositories/encounters"
	"github.com/KirkDiggler/tactics-engine/internal/ruleset"
	"github.com/KirkDiggler/tactics-engine/internal/services/encounter"
)

var (
	encounterCount int
	maxRounds      int
	seed           int64
	arenaID        string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run simulated skirmishes",
	Long:  `Runs one or more independent skirmishes, optionally in parallel, and prints each combat log.`,
	RunE:  runSimulation,
}

func init() {
	runCmd.Flags().IntVar(&encounterCount, "encounters", 1, "number of independent encounters to run")
	runCmd.Flags().IntVar(&maxRounds, "rounds", 20, "maximum rounds before an encounter is called off")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "dice seed for reproducible runs (0 uses the clock)")
	runCmd.Flags().StringVar(&arenaID, "arena", "arena-sim", "arena id grouping the encounters in storage")
}

func runSimulation(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil {
		log.Println("[SIMULATE] no .env file found, using environment")
	}
	cfg := config.Load()

	repo, err := buildRepository(cfg)
	if err != nil {
		return err
	}

	rules, err := defaultRules()
	if err != nil {
		return err
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.Printf("[SIMULATE] running %d encounter(s), seed %d", encounterCount, seed)

	ctx := cmd.Context()
	results := make([]*combat.Session, encounterCount)

	// Sessions are exclusive per encounter, so independent encounters can
	// run in parallel against the shared store. Each gets its own seeded
	// roller; the production roller is not safe for concurrent use.
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < encounterCount; i++ {
		i := i
		g.Go(func() error {
			svc := encounter.NewService(&encounter.ServiceConfig{
				Repository: repo,
				Rules:      rules,
				Roller:     dice.NewSeededRoller(seed + int64(i)),
				ResolverConfig: &resolver.Config{
					PlayerOnlyBonusCritDamage: cfg.Rules.PlayerOnlyBonusCritDamage,
				},
			})

			session, err := runSkirmish(ctx, svc, i+1)
			if err != nil {
				return fmt.Errorf("encounter %d: %w", i+1, err)
			}
			results[i] = session
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for _, session := range results {
		fmt.Printf("\n=== %s (%s) ===\n", session.Name, session.Status)
		for _, entry := range session.CombatLog {
			fmt.Println(entry)
		}
	}
	return nil
}

func buildRepository(cfg *config.Config) (encounters.Repository, error) {
	if cfg.Redis.Addr == "" {
		log.Println("[SIMULATE] using in-memory session store")
		return encounters.NewInMemoryRepository(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
	}

	log.Printf("[SIMULATE] using redis session store at %s", cfg.Redis.Addr)
	return encounters.NewRedis(client, encounters.NewTimeProvider()), nil
}

// runSkirmish plays one two-on-two encounter to completion with a simple
// close-and-swing script for every combatant
func runSkirmish(ctx context.Context, svc encounter.Service, index int) (*combat.Session, error) {
	session, err := svc.CreateEncounter(ctx, &encounter.CreateEncounterInput{
		ArenaID:  arenaID,
		Name:     fmt.Sprintf("Skirmish %d", index),
		Diagonal: grid.DiagonalAlternating,
	})
	if err != nil {
		return nil, err
	}

	players := []*encounter.AddPlayerInput{
		{
			Name: "Aria", MaxHP: 22, Speed: 30, DexModifier: 2, InitiativeBonus: 2,
			AttackBonus: 5, DamageModifier: 3,
			ArmorKey: "leather", ShieldKey: "shield", WeaponKey: "longsword",
			Position: grid.Position{X: 0, Y: 3},
		},
		{
			Name: "Borin", MaxHP: 26, Speed: 25, DexModifier: 0, InitiativeBonus: 0,
			AttackBonus: 6, DamageModifier: 4,
			ArmorKey: "chain-mail", WeaponKey: "greataxe",
			Position: grid.Position{X: 0, Y: 4},
		},
	}
	for _, player := range players {
		if _, err := svc.AddPlayer(ctx, session.ID, player); err != nil {
			return nil, err
		}
	}

	monsterSpots := []grid.Position{{X: 7, Y: 3}, {X: 7, Y: 4}}
	for _, pos := range monsterSpots {
		if _, err := svc.AddMonster(ctx, session.ID, &encounter.AddMonsterInput{
			MonsterKey: "goblin",
			Position:   pos,
		}); err != nil {
			return nil, err
		}
	}

	if err := svc.RollInitiative(ctx, session.ID); err != nil {
		return nil, err
	}
	if err := svc.StartEncounter(ctx, session.ID); err != nil {
		return nil, err
	}

	for {
		current, err := svc.GetEncounter(ctx, session.ID)
		if err != nil {
			return nil, err
		}
		if current.Status != combat.SessionStatusActive || current.Round > maxRounds {
			return current, nil
		}

		actor := current.CurrentCombatant()
		if actor != nil && actor.CanAct() {
			if err := takeTurn(ctx, svc, current, actor); err != nil {
				return nil, err
			}
		}

		if _, err := svc.NextTurn(ctx, session.ID); err != nil {
			return nil, err
		}
	}
}

// takeTurn closes with the nearest enemy and attacks if in reach
func takeTurn(ctx context.Context, svc encounter.Service, session *combat.Session, actor *combat.Combatant) error {
	target := nearestEnemy(session, actor)
	if target == nil {
		return nil
	}

	if !withinReach(actor, target) {
		if dest, ok := closestOpenAdjacent(session, actor, target); ok {
			output, err := svc.Move(ctx, session.ID, actor.ID, dest)
			if err != nil {
				return err
			}
			if !output.Move.Path.Found {
				return nil
			}
			// Reload positions after the move
			session, err = svc.GetEncounter(ctx, session.ID)
			if err != nil {
				return err
			}
			actor = session.Combatants[actor.ID]
			target = session.Combatants[target.ID]
			if actor == nil || target == nil || !actor.CanAct() || target.IsDead() {
				return nil
			}
		}
	}

	if withinReach(actor, target) {
		if _, err := svc.Attack(ctx, session.ID, actor.ID, target.ID); err != nil {
			return err
		}
	}
	return nil
}

func nearestEnemy(session *combat.Session, actor *combat.Combatant) *combat.Combatant {
	var best *combat.Combatant
	bestDist := 0
	for _, c := range session.Combatants {
		if !c.HostileTo(actor) || !c.IsActive || c.IsDead() || c.CurrentHP == 0 {
			continue
		}
		dist := chebyshev(actor.Position, c.Position)
		if best == nil || dist < bestDist || (dist == bestDist && c.ID < best.ID) {
			best = c
			bestDist = dist
		}
	}
	return best
}

// closestOpenAdjacent picks the unoccupied cell in the target's threat
// ring nearest the actor, preferring deterministic order on ties
func closestOpenAdjacent(session *combat.Session, actor, target *combat.Combatant) (grid.Position, bool) {
	var best grid.Position
	bestDist := -1
	for _, pos := range session.Grid.ThreatenedSquares(target.Position, actor.ThreatReach()) {
		cell := session.Grid.GetCell(pos.X, pos.Y)
		if cell == nil || !cell.IsPassable() {
			continue
		}
		dist := chebyshev(actor.Position, pos)
		if bestDist < 0 || dist < bestDist {
			best = pos
			bestDist = dist
		}
	}
	return best, bestDist >= 0
}

func withinReach(actor, target *combat.Combatant) bool {
	return chebyshev(actor.Position, target.Position) <= actor.ThreatReach()
}

func chebyshev(a, b grid.Position) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}

// defaultRules is the simulator's small built-in SRD slice
func defaultRules() (*ruleset.Registry, error) {
	return ruleset.New(&ruleset.Config{
		Weapons: []*ruleset.WeaponDescriptor{
			{Key: "longsword", Name: "Longsword", DamageNotation: "1d8", DamageType: "slashing", Properties: []string{"versatile"}},
			{Key: "greataxe", Name: "Greataxe", DamageNotation: "1d12", DamageType: "slashing", Properties: []string{"heavy", "two-handed"}},
			{Key: "glaive", Name: "Glaive", DamageNotation: "1d10", DamageType: "slashing", Properties: []string{"heavy", "reach"}, Reach: 2},
			{Key: "shortbow", Name: "Shortbow", DamageNotation: "1d6", DamageType: "piercing", Ranged: true},
		},
		Armor: []*ruleset.ArmorDescriptor{
			{Key: "leather", Name: "Leather Armor", ACFormula: "11 + Dex modifier"},
			{Key: "half-plate", Name: "Half Plate", ACFormula: "15 + Dex modifier (max 2)"},
			{Key: "chain-mail", Name: "Chain Mail", ACFormula: "16"},
			{Key: "shield", Name: "Shield", ACFormula: "+2"},
		},
		Monsters: []*ruleset.MonsterDescriptor{
			{
				Key: "goblin", Name: "Goblin", MaxHP: 7, AC: 15, Speed: 30, CR: 0.25, XP: 50,
				Abilities: map[string]int{"str": 8, "dex": 14, "con": 10, "int": 10, "wis": 8, "cha": 8},
				Actions: []*ruleset.MonsterAction{
					{Name: "Scimitar", AttackBonus: 4, DamageNotation: "1d6+2", DamageType: "slashing"},
				},
			},
			{
				Key: "orc", Name: "Orc", MaxHP: 15, AC: 13, Speed: 30, CR: 0.5, XP: 100,
				Abilities: map[string]int{"str": 16, "dex": 12, "con": 16, "int": 7, "wis": 11, "cha": 10},
				Actions: []*ruleset.MonsterAction{
					{Name: "Greataxe", AttackBonus: 5, DamageNotation: "1d12+3", DamageType: "slashing"},
				},
			},
		},
	})
}
