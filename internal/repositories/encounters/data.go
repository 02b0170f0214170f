package encounters

import (
	"time"

	"github.com/KirkDiggler/tactics-engine/internal/combat"
	"github.com/KirkDiggler/tactics-engine/internal/combat/grid"
	"github.com/KirkDiggler/tactics-engine/internal/combat/reactions"
)

// Data is the storage form of a combat session: the session fields plus
// flattened snapshots of the grid and reaction registry, serialized as one
// JSON document
type Data struct {
	ID         string                              `json:"id"`
	ArenaID    string                              `json:"arena_id"`
	Name       string                              `json:"name"`
	Status     combat.SessionStatus                `json:"status"`
	Round      int                                 `json:"round"`
	Turn       int                                 `json:"turn"`
	Combatants map[string]*combat.Combatant        `json:"combatants"`
	TurnOrder  []string                            `json:"turn_order"`
	Grid       *grid.Snapshot                      `json:"grid"`
	Reactions  map[string]reactions.CombatantState `json:"reactions,omitempty"`
	CombatLog  []string                            `json:"combat_log,omitempty"`
	CreatedAt  time.Time                           `json:"created_at"`
	UpdatedAt  time.Time                           `json:"updated_at"`
	StartedAt  *time.Time                          `json:"started_at,omitempty"`
	EndedAt    *time.Time                          `json:"ended_at,omitempty"`
}

func toData(session *combat.Session) *Data {
	if session == nil {
		return nil
	}

	return &Data{
		ID:         session.ID,
		ArenaID:    session.ArenaID,
		Name:       session.Name,
		Status:     session.Status,
		Round:      session.Round,
		Turn:       session.Turn,
		Combatants: session.Combatants,
		TurnOrder:  session.TurnOrder,
		Grid:       session.Grid.Snapshot(),
		Reactions:  session.Reactions.Snapshot(),
		CombatLog:  session.CombatLog,
		CreatedAt:  session.CreatedAt,
		UpdatedAt:  session.UpdatedAt,
		StartedAt:  session.StartedAt,
		EndedAt:    session.EndedAt,
	}
}

func toSession(data *Data) *combat.Session {
	if data == nil {
		return nil
	}

	combatants := data.Combatants
	if combatants == nil {
		combatants = make(map[string]*combat.Combatant)
	}

	return &combat.Session{
		ID:         data.ID,
		ArenaID:    data.ArenaID,
		Name:       data.Name,
		Status:     data.Status,
		Round:      data.Round,
		Turn:       data.Turn,
		Combatants: combatants,
		TurnOrder:  data.TurnOrder,
		Grid:       grid.FromSnapshot(data.Grid),
		Reactions:  reactions.FromSnapshot(data.Reactions),
		CombatLog:  data.CombatLog,
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
		StartedAt:  data.StartedAt,
		EndedAt:    data.EndedAt,
	}
}
