package hunt

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pota-logger/backend/internal/pota"
)

// Publisher delivers spot refreshes to connected browsers.
type Publisher interface {
	HasClients() bool
	BroadcastSpotsUpdated(spots []pota.Spot, total, hunted int, byBand map[string]int)
	BroadcastSpotsError(err error)
}

// Watcher periodically refreshes the annotated spot list and publishes it.
type Watcher struct {
	cron      *cron.Cron
	service   *Service
	publisher Publisher
	interval  time.Duration

	mu      sync.RWMutex
	entryID cron.EntryID
	last    *Summary
	lastRun time.Time
}

// NewWatcher creates a spot watcher. An interval of zero or less disables it.
func NewWatcher(service *Service, publisher Publisher, interval time.Duration) *Watcher {
	return &Watcher{
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		service:   service,
		publisher: publisher,
		interval:  interval,
	}
}

// Start schedules the refresh job.
func (w *Watcher) Start() error {
	if w.interval <= 0 {
		slog.Info("spot watcher disabled")
		return nil
	}

	id, err := w.cron.AddFunc("@every "+w.interval.String(), func() {
		w.Refresh(context.Background())
	})
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.entryID = id
	w.mu.Unlock()

	w.cron.Start()
	slog.Info("spot watcher started", "interval", w.interval)
	return nil
}

// Stop waits for a running refresh to finish and stops the schedule.
func (w *Watcher) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
	slog.Info("spot watcher stopped")
}

// Refresh fetches spots once and publishes the result. Nothing is fetched
// while no browser is connected.
func (w *Watcher) Refresh(ctx context.Context) {
	if !w.publisher.HasClients() {
		return
	}

	spots, err := w.service.Spots(ctx, "", "")
	if err != nil {
		slog.Warn("spot refresh failed", "error", err)
		w.publisher.BroadcastSpotsError(err)
		return
	}

	sum := Summarize(spots)
	w.mu.Lock()
	w.last = &sum
	w.lastRun = time.Now().UTC()
	w.mu.Unlock()

	slog.Debug("spot refresh", "total", sum.Total, "hunted", sum.Hunted)
	w.publisher.BroadcastSpotsUpdated(spots, sum.Total, sum.Hunted, sum.ByBand)
}

// NextRun returns the next scheduled refresh, or nil when not scheduled.
func (w *Watcher) NextRun() *time.Time {
	w.mu.RLock()
	id := w.entryID
	w.mu.RUnlock()

	if id == 0 {
		return nil
	}
	entry := w.cron.Entry(id)
	if entry.Next.IsZero() {
		return nil
	}
	return &entry.Next
}

// LastSummary returns the counts from the most recent successful refresh and
// when it ran. The summary is nil before the first refresh.
func (w *Watcher) LastSummary() (*Summary, time.Time) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.last, w.lastRun
}
