package notify

import "fmt"

// Event is one ranking change detected by a ranking pass. The two flags
// are not mutually exclusive: a new top hotel always changes the top-3 as
// well, so a single event can be both broadcast-worthy and
// targeted-worthy. Each sink picks the part it cares about.
type Event struct {
	// City is the city whose local ranking changed.
	City string

	// NewTop is the name of the new top-ranked hotel. Only meaningful
	// when TopChanged is set.
	NewTop string

	// Top3 holds the names of the (up to) first three hotels in the new
	// ranking, best first. Only meaningful when Top3Changed is set.
	Top3 []string

	// TopChanged is set when the top-ranked hotel differs from the
	// previous pass.
	TopChanged bool

	// Top3Changed is set when any of the first three positions differs
	// from the previous pass.
	Top3Changed bool
}

// RankingUpdate is the payload delivered to each subscribed session when a
// city's top-3 changes.
type RankingUpdate struct {
	City string
	Top3 []string
}

func (u RankingUpdate) String() string {
	return fmt.Sprintf("ranking update for %s: %v", u.City, u.Top3)
}

// ISink consumes ranking events. Publish must not block: the ranking pass
// hands events over fire-and-forget and never waits for delivery.
type ISink interface {
	Publish(event Event)
}
