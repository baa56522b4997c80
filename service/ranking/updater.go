package ranking

import (
	"sync"
	"time"

	"github.com/VictoriaMetrics/metrics"

	"hotelier/lib/entities"
	"hotelier/lib/scoring"
	"hotelier/lib/store"
	"hotelier/service/common"
	"hotelier/service/notify"
)

var logger = common.GetLogger("ranking")

var (
	rankingPasses = metrics.NewCounter("hotelier_ranking_passes_total")
	rankingEvents = metrics.NewCounter("hotelier_ranking_events_total")
)

// topN is how many leading positions of a city ranking are diffed and
// pushed to subscribers.
const topN = 3

// Updater is the ranking engine. Each pass recomputes every reviewed
// hotel's scores, re-sorts each city and compares the leading positions
// with the previous pass, emitting one Event per changed city to every
// sink.
//
// Thread-safety: a single goroutine runs the passes; prevTop is touched by
// that goroutine only. The store handles concurrent access on its side.
type Updater struct {
	store store.IStore
	sinks []notify.ISink

	// now is injectable for tests; the pass timestamp anchors all recency
	// computations so every hotel in a pass decays against the same
	// instant.
	now func() time.Time

	// prevTop maps city to the hotel IDs holding the first positions
	// after the previous pass.
	prevTop map[string][]int

	stop     chan struct{}
	stopOnce sync.Once
	done     sync.WaitGroup
}

// NewUpdater creates a ranking engine over the store. The current order of
// each city's hotel list is taken as the baseline, so the first pass only
// emits events for rankings that actually moved since load.
func NewUpdater(s store.IStore, sinks ...notify.ISink) *Updater {
	u := &Updater{
		store:   s,
		sinks:   sinks,
		now:     time.Now,
		prevTop: make(map[string][]int),
		stop:    make(chan struct{}),
	}
	s.RangeHotelsByCity(func(city string, hotels []entities.Hotel) bool {
		u.prevTop[city] = topIDs(hotels)
		return true
	})
	return u
}

// Start launches the periodic ranking loop.
func (u *Updater) Start(period time.Duration) {
	u.done.Add(1)
	go func() {
		defer u.done.Done()

		ticker := time.NewTicker(period)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				u.RunOnce()
			case <-u.stop:
				return
			}
		}
	}()
	logger.Info().Dur("period", period).Msg("ranking task started")
}

// Stop halts the loop and waits for an in-flight pass to finish. Safe to
// call more than once.
func (u *Updater) Stop() {
	u.stopOnce.Do(func() { close(u.stop) })
	u.done.Wait()
}

// RunOnce performs a single ranking pass over all cities.
func (u *Updater) RunOnce() {
	now := u.now()

	u.store.RangeHotelsByCity(func(city string, hotels []entities.Hotel) bool {
		u.rankCity(city, hotels, now)
		return true
	})

	rankingPasses.Inc()
}

// rankCity recomputes one city, re-sorts it and emits an event when the
// leading positions moved.
func (u *Updater) rankCity(city string, hotels []entities.Hotel, now time.Time) {
	for _, h := range hotels {
		reviews := u.store.ReviewsFor(h.Name, h.City)
		// A hotel nobody reviewed keeps its loaded values.
		score, ok := scoring.AggregateScore(reviews, now)
		if !ok {
			continue
		}
		u.store.SetHotelScores(h.Name, h.City, score, scoring.CategoryAverages(reviews))
	}

	u.store.SortCityByRate(city)

	sorted, loaded := u.store.HotelsIn(city)
	if !loaded {
		return
	}

	newTop := topIDs(sorted)
	oldTop := u.prevTop[city]
	u.prevTop[city] = newTop

	event := notify.Event{City: city}
	if len(newTop) > 0 && (len(oldTop) == 0 || newTop[0] != oldTop[0]) {
		event.TopChanged = true
		event.NewTop = sorted[0].Name
	}
	if !equalIDs(newTop, oldTop) {
		event.Top3Changed = true
		event.Top3 = make([]string, len(newTop))
		for i := range newTop {
			event.Top3[i] = sorted[i].Name
		}
	}

	if !event.TopChanged && !event.Top3Changed {
		return
	}

	logger.Debug().Str("city", city).
		Bool("topChanged", event.TopChanged).
		Bool("top3Changed", event.Top3Changed).
		Msg("ranking changed")
	rankingEvents.Inc()

	for _, sink := range u.sinks {
		sink.Publish(event)
	}
}

// topIDs extracts the hotel IDs of the first topN positions. Identity is
// diffed by ID so renaming-insensitive comparisons stay cheap.
func topIDs(hotels []entities.Hotel) []int {
	n := len(hotels)
	if n > topN {
		n = topN
	}
	ids := make([]int, n)
	for i := 0; i < n; i++ {
		ids[i] = hotels[i].ID
	}
	return ids
}

// equalIDs compares two positional ID lists.
func equalIDs(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
