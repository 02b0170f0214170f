package encounters_test

import (
	"context"
	"testing"

	"github.com/KirkDiggler/tactics-engine/internal/combat"
	"github.com/KirkDiggler/tactics-engine/internal/errors"
	"github.com/KirkDiggler/tactics-engine/internal/repositories/encounters"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		repo := encounters.NewInMemoryRepository()
		session := combat.NewSession("enc-1", "arena-1", "Skirmish", nil)

		require.NoError(t, repo.Create(ctx, session))

		got, err := repo.Get(ctx, "enc-1")
		require.NoError(t, err)
		assert.Equal(t, "Skirmish", got.Name)
	})

	t.Run("create rejects duplicates and nil", func(t *testing.T) {
		repo := encounters.NewInMemoryRepository()
		session := combat.NewSession("enc-1", "arena-1", "Skirmish", nil)

		require.NoError(t, repo.Create(ctx, session))
		err := repo.Create(ctx, session)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.CodeAlreadyExists))

		assert.Error(t, repo.Create(ctx, nil))
	})

	t.Run("get and update unknown sessions are not found", func(t *testing.T) {
		repo := encounters.NewInMemoryRepository()

		_, err := repo.Get(ctx, "missing")
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))

		err = repo.Update(ctx, combat.NewSession("missing", "arena-1", "Ghost", nil))
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("list by arena", func(t *testing.T) {
		repo := encounters.NewInMemoryRepository()
		require.NoError(t, repo.Create(ctx, combat.NewSession("enc-1", "arena-1", "First", nil)))
		require.NoError(t, repo.Create(ctx, combat.NewSession("enc-2", "arena-1", "Second", nil)))
		require.NoError(t, repo.Create(ctx, combat.NewSession("enc-3", "arena-2", "Elsewhere", nil)))

		sessions, err := repo.ListByArena(ctx, "arena-1")
		require.NoError(t, err)
		assert.Len(t, sessions, 2)
	})

	t.Run("delete removes the session and its index entry", func(t *testing.T) {
		repo := encounters.NewInMemoryRepository()
		require.NoError(t, repo.Create(ctx, combat.NewSession("enc-1", "arena-1", "Skirmish", nil)))

		require.NoError(t, repo.Delete(ctx, "enc-1"))

		_, err := repo.Get(ctx, "enc-1")
		assert.True(t, errors.IsNotFound(err))

		sessions, err := repo.ListByArena(ctx, "arena-1")
		require.NoError(t, err)
		assert.Empty(t, sessions)

		err = repo.Delete(ctx, "enc-1")
		assert.True(t, errors.IsNotFound(err))
	})
}
