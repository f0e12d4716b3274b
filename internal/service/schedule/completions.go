package schedule

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/plantae/plantae-backend/internal/domain"
	"github.com/plantae/plantae-backend/internal/service/schedule/forecast"
)

// completionCache holds optimistic slot completions per plant until the
// server-confirmed history catches up.
//
// Invalidation rules: an entry is discarded once a confirmed record lands on
// the same calendar day, the whole cohort is dropped when the window
// advances, and a plant is forgotten entirely when it is deleted. Server
// state always wins over anything cached here.
type completionCache struct {
	mu      sync.Mutex
	byPlant map[uuid.UUID]forecast.Completions
}

func newCompletionCache() *completionCache {
	return &completionCache{byPlant: make(map[uuid.UUID]forecast.Completions)}
}

// snapshot returns a copy of the plant's pending completions.
func (c *completionCache) snapshot(plantID uuid.UUID) forecast.Completions {
	c.mu.Lock()
	defer c.mu.Unlock()

	src := c.byPlant[plantID]
	if len(src) == 0 {
		return nil
	}
	out := make(forecast.Completions, len(src))
	for idx, comp := range src {
		out[idx] = comp
	}
	return out
}

// put records a local completion for a slot.
func (c *completionCache) put(plantID uuid.UUID, slotIndex int, comp forecast.Completion) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.byPlant[plantID]
	if !ok {
		m = make(forecast.Completions)
		c.byPlant[plantID] = m
	}
	m[slotIndex] = comp
}

// discardConfirmed drops the local completions the confirmed history now
// covers: an entry is invalidated once a server record lands on the same
// calendar day as the local completion. Slot indexes shift when the window
// re-anchors, so the day of the completion itself is the stable key.
func (c *completionCache) discardConfirmed(plantID uuid.UUID, history []domain.WateringRecord, loc *time.Location) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.byPlant[plantID]
	if len(m) == 0 {
		return
	}

	for idx, comp := range m {
		for _, rec := range history {
			if rec.At.IsZero() {
				continue
			}
			if forecast.SameDay(rec.At, comp.CompletedAt, loc) {
				delete(m, idx)
				break
			}
		}
	}
	if len(m) == 0 {
		delete(c.byPlant, plantID)
	}
}

// forget drops all state for a plant. Idempotent.
func (c *completionCache) forget(plantID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.byPlant, plantID)
}
