// Package encounters stores combat sessions: an in-memory implementation
// for tests and single-process runs, and a redis implementation that keeps
// one JSON document per session plus an arena index.
package encounters

import (
	"context"

	"github.com/KirkDiggler/tactics-engine/internal/combat"
)

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks github.com/KirkDiggler/tactics-engine/internal/repositories/encounters Repository

// Repository defines the interface for combat session storage
type Repository interface {
	Create(ctx context.Context, session *combat.Session) error
	Get(ctx context.Context, id string) (*combat.Session, error)
	Update(ctx context.Context, session *combat.Session) error
	Delete(ctx context.Context, id string) error
	ListByArena(ctx context.Context, arenaID string) ([]*combat.Session, error)
}
