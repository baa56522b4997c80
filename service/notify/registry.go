package notify

import (
	"github.com/VictoriaMetrics/metrics"
	"github.com/puzpuzpuz/xsync/v3"

	"hotelier/service/common"
)

var logger = common.GetLogger("notify")

var (
	targetedDelivered = metrics.NewCounter("hotelier_targeted_notifications_total")
	targetedDropped   = metrics.NewCounter("hotelier_targeted_notifications_dropped_total")
)

// ISubscriber is the non-owning delivery handle a session hands to the
// registry. Deliver must never block: implementations push into the
// session's inbox queue and return immediately. It returns false when the
// session is no longer accepting deliveries.
type ISubscriber interface {
	// ID identifies the subscriber; re-subscribing the same ID is a no-op.
	ID() uint64

	// Deliver hands one ranking update to the subscriber.
	Deliver(update RankingUpdate) bool
}

// Registry is the targeted push sink: it fans targeted-worthy events out
// to every currently subscribed session handle. Deliveries are
// independent; one dead or slow subscriber never affects the others or the
// ranking pass.
type Registry struct {
	subscribers *xsync.MapOf[uint64, ISubscriber]
}

// NewRegistry creates an empty subscriber registry.
func NewRegistry() *Registry {
	return &Registry{
		subscribers: xsync.NewMapOf[uint64, ISubscriber](),
	}
}

// Subscribe adds a subscriber handle. Subscribing an already subscribed
// handle is a no-op.
func (r *Registry) Subscribe(sub ISubscriber) {
	r.subscribers.LoadOrStore(sub.ID(), sub)
}

// Unsubscribe removes a subscriber. Unsubscribing an unknown or already
// removed subscriber is a no-op.
func (r *Registry) Unsubscribe(sub ISubscriber) {
	r.subscribers.Delete(sub.ID())
}

// Size returns the current number of subscribers.
func (r *Registry) Size() int {
	return r.subscribers.Size()
}

// Publish delivers the event's top-3 payload to every subscriber. Events
// without a top-3 change are ignored. Failed deliveries are counted and
// dropped, never propagated.
func (r *Registry) Publish(event Event) {
	if !event.Top3Changed {
		return
	}

	update := RankingUpdate{City: event.City, Top3: event.Top3}
	r.subscribers.Range(func(id uint64, sub ISubscriber) bool {
		if sub.Deliver(update) {
			targetedDelivered.Inc()
		} else {
			targetedDropped.Inc()
			logger.Debug().Uint64("subscriber", id).Str("city", event.City).
				Msg("dropped update for unreachable subscriber")
		}
		return true
	})
}
