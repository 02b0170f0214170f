package encounters

import (
	"context"
	"sync"

	"github.com/KirkDiggler/tactics-engine/internal/combat"
	"github.com/KirkDiggler/tactics-engine/internal/errors"
)

type inMemoryRepository struct {
	mu       sync.RWMutex
	sessions map[string]*combat.Session
	byArena  map[string][]string // arenaID -> session IDs
}

// NewInMemoryRepository creates an in-memory session repository for tests
// and single-process runs
func NewInMemoryRepository() Repository {
	return &inMemoryRepository{
		sessions: make(map[string]*combat.Session),
		byArena:  make(map[string][]string),
	}
}

func (r *inMemoryRepository) Create(ctx context.Context, session *combat.Session) error {
	if session == nil {
		return errors.InvalidArgument("session cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[session.ID]; exists {
		return errors.AlreadyExists("session " + session.ID + " already exists")
	}

	r.sessions[session.ID] = session
	r.byArena[session.ArenaID] = append(r.byArena[session.ArenaID], session.ID)
	return nil
}

func (r *inMemoryRepository) Get(ctx context.Context, id string) (*combat.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, exists := r.sessions[id]
	if !exists {
		return nil, errors.NotFoundf("session %s not found", id)
	}

	return session, nil
}

func (r *inMemoryRepository) Update(ctx context.Context, session *combat.Session) error {
	if session == nil {
		return errors.InvalidArgument("session cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[session.ID]; !exists {
		return errors.NotFoundf("session %s not found", session.ID)
	}

	r.sessions[session.ID] = session
	return nil
}

func (r *inMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, exists := r.sessions[id]
	if !exists {
		return errors.NotFoundf("session %s not found", id)
	}

	delete(r.sessions, id)

	arenaSessions := r.byArena[session.ArenaID]
	for i, sid := range arenaSessions {
		if sid == id {
			r.byArena[session.ArenaID] = append(arenaSessions[:i], arenaSessions[i+1:]...)
			break
		}
	}

	return nil
}

func (r *inMemoryRepository) ListByArena(ctx context.Context, arenaID string) ([]*combat.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessionIDs := r.byArena[arenaID]
	sessions := make([]*combat.Session, 0, len(sessionIDs))

	for _, id := range sessionIDs {
		if session, exists := r.sessions[id]; exists {
			sessions = append(sessions, session)
		}
	}

	return sessions, nil
}
