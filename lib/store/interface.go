package store

import "hotelier/lib/entities"

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IStore is the shared entity store. All methods are safe for concurrent
// invocation from any number of session handlers plus the ranking and
// persistence tasks, and none of them blocks on I/O.
//
// Every accessor returns copies: no internal collection ever escapes the
// store, so callers can only mutate shared state through the mutation
// methods, each of which is atomic at the granularity of one entity (one
// user, one city's hotel list, one hotel's review list).
type IStore interface {
	// GetUser returns the user with the given username.
	GetUser(username string) (user entities.User, loaded bool)

	// PutUserIfAbsent inserts the user if the username is free. It returns
	// false, without overwriting, when the username is already taken.
	PutUserIfAbsent(user entities.User) bool

	// IncrementUserReviews atomically increments the user's review count
	// and rederives the experience level from the new count. It returns
	// the updated user, or loaded=false for an unknown username.
	IncrementUserReviews(username string) (user entities.User, loaded bool)

	// RangeUsers iterates over all users. Returning false from fn stops
	// the iteration.
	RangeUsers(fn func(user entities.User) bool)

	// AddCity registers a city with an empty hotel list. Adding an
	// existing city is a no-op.
	AddCity(city string)

	// HasCity reports whether the city is known.
	HasCity(city string) bool

	// AddHotel appends the hotel to its city's list. It returns false if
	// the hotel's city is unknown.
	AddHotel(hotel entities.Hotel) bool

	// HotelsIn returns a snapshot of the city's hotel list in its current
	// order (descending by rate after a ranking pass). loaded is false for
	// an unknown city; a known city with no hotels yields an empty slice.
	HotelsIn(city string) (hotels []entities.Hotel, loaded bool)

	// FindHotel returns the hotel with the exact name in the city.
	FindHotel(name, city string) (hotel entities.Hotel, loaded bool)

	// SetHotelScores writes a hotel's derived fields (aggregate rate and
	// category means). Only the ranking pass calls this.
	SetHotelScores(name, city string, rate float64, ratings entities.Ratings) bool

	// SortCityByRate stably re-sorts the city's hotel list descending by
	// rate. Hotels with equal rates keep their prior relative order.
	SortCityByRate(city string)

	// RangeHotelsByCity iterates over a snapshot of every city's hotel
	// list.
	RangeHotelsByCity(fn func(city string, hotels []entities.Hotel) bool)

	// AppendReview appends an immutable review to its hotel's list,
	// creating the list on first review.
	AppendReview(review entities.Review)

	// ReviewsFor returns a snapshot of one hotel's review list, oldest
	// first.
	ReviewsFor(hotelName, city string) []entities.Review

	// RangeReviews iterates over a snapshot of every hotel's review list,
	// keyed by the composite hotel key.
	RangeReviews(fn func(key string, reviews []entities.Review) bool)
}
