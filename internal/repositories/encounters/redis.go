package encounters

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/KirkDiggler/tactics-engine/internal/combat"
	"github.com/KirkDiggler/tactics-engine/internal/errors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

type redisRepo struct {
	client       *redis.Client
	timeProvider TimeProvider
}

// NewRedis creates a redis-backed session repository. Each session is one
// JSON document under encounter:<id>, indexed per arena in a set.
func NewRedis(redisClient *redis.Client, timeProvider TimeProvider) Repository {
	return &redisRepo{
		client:       redisClient,
		timeProvider: timeProvider,
	}
}

func encounterKey(id string) string {
	return fmt.Sprintf("encounter:%s", id)
}

func arenaKey(arenaID string) string {
	return fmt.Sprintf("arena:%s:encounters", arenaID)
}

func (r *redisRepo) set(ctx context.Context, session *combat.Session) error {
	jsonData, err := json.Marshal(toData(session))
	if err != nil {
		return errors.Wrap(err, "failed to marshal session data")
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, encounterKey(session.ID), string(jsonData), 0)
	pipe.SAdd(ctx, arenaKey(session.ArenaID), session.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "failed to set session in redis")
	}

	return nil
}

func (r *redisRepo) Create(ctx context.Context, session *combat.Session) error {
	if session == nil {
		return errors.InvalidArgument("session cannot be nil")
	}

	now := r.timeProvider.Now()
	session.CreatedAt = now
	session.UpdatedAt = now

	return r.set(ctx, session)
}

func (r *redisRepo) Get(ctx context.Context, id string) (*combat.Session, error) {
	if id == "" {
		return nil, errors.InvalidArgument("session id cannot be empty")
	}

	jsonData, err := r.client.Get(ctx, encounterKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("session %s not found", id)
		}
		return nil, errors.Wrap(err, "failed to get session from redis")
	}

	var data Data
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal session data")
	}

	return toSession(&data), nil
}

func (r *redisRepo) Update(ctx context.Context, session *combat.Session) error {
	if session == nil {
		return errors.InvalidArgument("session cannot be nil")
	}

	session.UpdatedAt = r.timeProvider.Now()

	return r.set(ctx, session)
}

func (r *redisRepo) Delete(ctx context.Context, id string) error {
	session, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, encounterKey(id))
	pipe.SRem(ctx, arenaKey(session.ArenaID), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "failed to delete session from redis")
	}

	return nil
}

func (r *redisRepo) ListByArena(ctx context.Context, arenaID string) ([]*combat.Session, error) {
	if arenaID == "" {
		return nil, errors.InvalidArgument("arena id cannot be empty")
	}

	sessionIDs, err := r.client.SMembers(ctx, arenaKey(arenaID)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get arena sessions from redis")
	}

	sessions := make([]*combat.Session, len(sessionIDs))

	g, ctx := errgroup.WithContext(ctx)
	for i, id := range sessionIDs {
		i, id := i, id
		g.Go(func() error {
			session, err := r.Get(ctx, id)
			if err != nil {
				return errors.Wrapf(err, "failed to get session %s", id)
			}
			sessions[i] = session
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return sessions, nil
}
