package finance

import (
	"sync"

	"github.com/gofiber/fiber/v2"

	"github.com/ahazfernando/aussie-ops-financials/internal/feed"
)

// SummaryTracker keeps the latest financial summary current under live
// updates. Every pushed snapshot is refolded from scratch; the fold is
// idempotent so replays and reordering of pushes are harmless.
type SummaryTracker struct {
	mu      sync.RWMutex
	latest  FinancialSummary
	primed  bool
	sub     *feed.Subscription[Transaction]
	done    chan struct{}
	stopped sync.Once
}

// TrackSummary subscribes to the transaction feed and folds each snapshot as
// it arrives. Call Close to detach.
func TrackSummary(f *feed.Feed[Transaction]) *SummaryTracker {
	t := &SummaryTracker{
		sub:  f.Subscribe(),
		done: make(chan struct{}),
	}
	go t.run()
	return t
}

func (t *SummaryTracker) run() {
	defer close(t.done)
	for snapshot := range t.sub.C {
		s := Summarize(snapshot)
		t.mu.Lock()
		t.latest = s
		t.primed = true
		t.mu.Unlock()
	}
}

// Latest returns the most recently folded summary. ok is false until the
// first snapshot has been seen.
func (t *SummaryTracker) Latest() (FinancialSummary, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.latest, t.primed
}

// Close cancels the subscription and waits for the fold loop to drain.
func (t *SummaryTracker) Close() {
	t.stopped.Do(func() {
		t.sub.Cancel()
		<-t.done
	})
}

// LiveSummary serves the last pushed summary without touching the database.
// Until a write has happened in this process it falls back to 404 so callers
// know to hit the computed summary endpoint instead.
func (t *SummaryTracker) LiveSummary(c *fiber.Ctx) error {
	s, ok := t.Latest()
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "no summary snapshot yet")
	}
	return c.JSON(s)
}
