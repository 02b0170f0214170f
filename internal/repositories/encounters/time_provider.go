package encounters

import "time"

//go:generate mockgen -destination=mocks/mock_time_provider.go -package=mocks github.com/KirkDiggler/tactics-engine/internal/repositories/encounters TimeProvider

// TimeProvider supplies the current time, injectable so tests can pin
// timestamps
type TimeProvider interface {
	Now() time.Time
}

type realTimeProvider struct{}

// NewTimeProvider returns a TimeProvider backed by the wall clock
func NewTimeProvider() TimeProvider {
	return &realTimeProvider{}
}

func (p *realTimeProvider) Now() time.Time {
	return time.Now().UTC()
}
