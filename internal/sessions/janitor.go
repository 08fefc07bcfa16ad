package sessions

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Janitor periodically evicts idle sessions from a store.
type Janitor struct {
	store    *MemorySessionStore
	ttl      time.Duration
	schedule string
	cron     *cron.Cron
}

// NewJanitor creates a janitor that evicts sessions idle for longer than ttl
// on the given cron schedule (standard five-field syntax or descriptors such
// as "@every 5m").
func NewJanitor(store *MemorySessionStore, ttl time.Duration, schedule string) (*Janitor, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("session idle ttl must be positive, got %s", ttl)
	}
	c := cron.New()
	j := &Janitor{store: store, ttl: ttl, schedule: schedule, cron: c}
	if _, err := c.AddFunc(schedule, j.Sweep); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}
	return j, nil
}

// Start begins running sweeps in the background.
func (j *Janitor) Start() {
	j.cron.Start()
	log.Info().
		Str("schedule", j.schedule).
		Dur("idle_ttl", j.ttl).
		Msg("🧹 Session janitor started")
}

// Stop halts future sweeps and waits for a running one to finish or ctx to
// expire.
func (j *Janitor) Stop(ctx context.Context) {
	done := j.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// Sweep evicts idle sessions once.
func (j *Janitor) Sweep() {
	evicted := j.store.EvictIdle(j.ttl)
	if evicted > 0 {
		log.Info().Int("evicted", evicted).Int("remaining", j.store.Len()).Msg("Idle sessions evicted")
	}
}
