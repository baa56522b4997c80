package persist

import (
	"sync"
	"time"

	"github.com/VictoriaMetrics/metrics"

	"hotelier/lib/store"
)

var (
	snapshotsTotal  = metrics.NewCounter("hotelier_snapshots_total")
	snapshotsFailed = metrics.NewCounter("hotelier_snapshots_failed_total")
)

// Task periodically snapshots the store to disk. A snapshot in flight when
// Stop is called is allowed to finish.
type Task struct {
	dir   string
	store store.IStore

	stop     chan struct{}
	stopOnce sync.Once
	done     sync.WaitGroup
}

// NewTask creates a snapshot task for the given data directory.
func NewTask(dir string, s store.IStore) *Task {
	return &Task{
		dir:   dir,
		store: s,
		stop:  make(chan struct{}),
	}
}

// Start launches the periodic snapshot loop.
func (t *Task) Start(period time.Duration) {
	t.done.Add(1)
	go func() {
		defer t.done.Done()

		ticker := time.NewTicker(period)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				t.RunOnce()
			case <-t.stop:
				return
			}
		}
	}()
	logger.Info().Dur("period", period).Msg("persistence task started")
}

// RunOnce performs a single snapshot. Errors are logged, not propagated: a
// failed snapshot must not take the server down, the next period retries.
func (t *Task) RunOnce() {
	if err := SaveAll(t.dir, t.store); err != nil {
		snapshotsFailed.Inc()
		logger.Error().Err(err).Msg("snapshot failed")
		return
	}
	snapshotsTotal.Inc()
	logger.Debug().Msg("snapshot written")
}

// Stop halts the periodic loop and waits for an in-flight snapshot to
// finish. Safe to call more than once.
func (t *Task) Stop() {
	t.stopOnce.Do(func() { close(t.stop) })
	t.done.Wait()
}
