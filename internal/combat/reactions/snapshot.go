package reactions

// CombatantState is the serializable reaction state of one combatant
type CombatantState struct {
	Available bool           `json:"available"`
	Readied   *ReadiedAction `json:"readied,omitempty"`
}

// Snapshot captures every tracked combatant's reaction state for storage
func (r *Registry) Snapshot() map[string]CombatantState {
	if len(r.states) == 0 {
		return nil
	}

	out := make(map[string]CombatantState, len(r.states))
	for id, s := range r.states {
		entry := CombatantState{Available: s.available}
		if s.readied != nil {
			readied := *s.readied
			entry.Readied = &readied
		}
		out[id] = entry
	}
	return out
}

// FromSnapshot rebuilds a registry from its serialized form
func FromSnapshot(snapshot map[string]CombatantState) *Registry {
	r := NewRegistry()
	for id, entry := range snapshot {
		s := &state{available: entry.Available}
		if entry.Readied != nil {
			readied := *entry.Readied
			s.readied = &readied
		}
		r.states[id] = s
	}
	return r
}
