// Package reactions tracks the per-round reaction economy for combatants:
// whether a reaction is still available this round and any readied action
// waiting on a trigger. Trigger detection itself belongs to the
// orchestrator, which hands this registry only the resulting combatant ids.
package reactions

// ReadiedAction is a deferred action stored against a trigger condition.
// The trigger and action are opaque descriptors owned by the caller.
type ReadiedAction struct {
	Trigger string `json:"trigger"`
	Action  string `json:"action"`
}

type state struct {
	available bool
	readied   *ReadiedAction
}

// Registry tracks reaction availability for every combatant in one
// encounter. It is exclusively owned by that encounter and not safe for
// concurrent use.
type Registry struct {
	states map[string]*state
}

// NewRegistry creates an empty reaction registry
func NewRegistry() *Registry {
	return &Registry{
		states: make(map[string]*state),
	}
}

// Register adds a combatant with their reaction available. Registering an
// already tracked combatant is a no-op.
func (r *Registry) Register(combatantID string) {
	if _, exists := r.states[combatantID]; exists {
		return
	}
	r.states[combatantID] = &state{available: true}
}

// Unregister removes a combatant's reaction state entirely
func (r *Registry) Unregister(combatantID string) {
	delete(r.states, combatantID)
}

// HasReaction reports whether the combatant's reaction is still available
// this round. Unknown combatants have no reaction.
func (r *Registry) HasReaction(combatantID string) bool {
	s, exists := r.states[combatantID]
	return exists && s.available
}

// UseReaction consumes the combatant's reaction for this round, returning
// false with no side effects when it is already spent or the combatant is
// not tracked.
func (r *Registry) UseReaction(combatantID string) bool {
	s, exists := r.states[combatantID]
	if !exists || !s.available {
		return false
	}
	s.available = false
	return true
}

// ResetForTurn restores the combatant's reaction. Called exactly once per
// round, at the start of that combatant's own turn.
func (r *Registry) ResetForTurn(combatantID string) {
	if s, exists := r.states[combatantID]; exists {
		s.available = true
	}
}

// SetReadiedAction stores a readied action for the combatant, replacing
// any previous one. Returns false if the combatant is not tracked.
func (r *Registry) SetReadiedAction(combatantID string, action ReadiedAction) bool {
	s, exists := r.states[combatantID]
	if !exists {
		return false
	}
	s.readied = &action
	return true
}

// ReadiedAction returns the combatant's readied action, if any
func (r *Registry) ReadiedAction(combatantID string) (ReadiedAction, bool) {
	s, exists := r.states[combatantID]
	if !exists || s.readied == nil {
		return ReadiedAction{}, false
	}
	return *s.readied, true
}

// ClearReadiedAction drops the combatant's readied action, for when the
// triggering window closes without firing
func (r *Registry) ClearReadiedAction(combatantID string) {
	if s, exists := r.states[combatantID]; exists {
		s.readied = nil
	}
}

// ConsumeReadiedAction fires a readied action: it spends the combatant's
// reaction and clears the stored action in one step. Returns false when
// there is no readied action or the reaction is already spent.
func (r *Registry) ConsumeReadiedAction(combatantID string) (ReadiedAction, bool) {
	s, exists := r.states[combatantID]
	if !exists || s.readied == nil || !s.available {
		return ReadiedAction{}, false
	}

	action := *s.readied
	s.readied = nil
	s.available = false
	return action, true
}
