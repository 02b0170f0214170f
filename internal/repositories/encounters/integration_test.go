package encounters_test

import (
	"context"
	"testing"

	"github.com/KirkDiggler/tactics-engine/internal/combat"
	"github.com/KirkDiggler/tactics-engine/internal/combat/grid"
	"github.com/KirkDiggler/tactics-engine/internal/errors"
	"github.com/KirkDiggler/tactics-engine/internal/repositories/encounters"
	"github.com/KirkDiggler/tactics-engine/internal/testutils"
	"github.com/stretchr/testify/suite"
)

type IntegrationTestSuite struct {
	suite.Suite
	repo    encounters.Repository
	cleanup func()
	ctx     context.Context
}

func (s *IntegrationTestSuite) SetupTest() {
	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup
	s.repo = encounters.NewRedis(client, encounters.NewTimeProvider())
	s.ctx = context.Background()
}

func (s *IntegrationTestSuite) TearDownTest() {
	s.cleanup()
}

func TestIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}

func (s *IntegrationTestSuite) TestFullSessionLifecycle() {
	session := combat.NewSession("enc-1", "arena-1", "Skirmish", &grid.Config{
		Width:    10,
		Height:   10,
		Diagonal: grid.DiagonalAlternating,
	})
	session.Grid.SetTerrain(4, 4, grid.TerrainDifficult)
	s.Require().NoError(session.AddCombatant(&combat.Combatant{
		ID:        "fighter",
		Name:      "Fighter",
		Type:      combat.CombatantTypePlayer,
		CurrentHP: 20,
		MaxHP:     20,
		AC:        16,
		Speed:     30,
		Position:  grid.Position{X: 0, Y: 0},
	}))
	s.Require().True(session.Reactions.UseReaction("fighter"))

	s.Require().NoError(s.repo.Create(s.ctx, session))
	s.False(session.CreatedAt.IsZero())

	got, err := s.repo.Get(s.ctx, "enc-1")
	s.Require().NoError(err)
	s.Equal("Skirmish", got.Name)
	s.Equal(10, got.Grid.Width())
	s.Equal(grid.DiagonalAlternating, got.Grid.Diagonal())
	s.Equal(grid.TerrainDifficult, got.Grid.GetCell(4, 4).Terrain)
	s.Equal("fighter", got.Grid.GetCell(0, 0).Occupant)
	s.False(got.Reactions.HasReaction("fighter"), "spent reaction survives the round trip")
	s.Equal(20, got.Combatants["fighter"].MaxHP)

	got.Round = 3
	s.Require().NoError(s.repo.Update(s.ctx, got))

	updated, err := s.repo.Get(s.ctx, "enc-1")
	s.Require().NoError(err)
	s.Equal(3, updated.Round)
	s.False(updated.UpdatedAt.Before(updated.CreatedAt))

	sessions, err := s.repo.ListByArena(s.ctx, "arena-1")
	s.Require().NoError(err)
	s.Len(sessions, 1)

	s.Require().NoError(s.repo.Delete(s.ctx, "enc-1"))

	_, err = s.repo.Get(s.ctx, "enc-1")
	s.True(errors.IsNotFound(err))

	sessions, err = s.repo.ListByArena(s.ctx, "arena-1")
	s.Require().NoError(err)
	s.Empty(sessions)
}
