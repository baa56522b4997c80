package store

import (
	"sort"

	"github.com/puzpuzpuz/xsync/v3"

	"hotelier/lib/entities"
)

// storeImpl holds the three entity maps. The hotel and review lists stored
// as map values are copy-on-write: every mutation builds a fresh slice
// inside a Compute step and swaps it in atomically, so readers always see
// either the old or the new list, never a partial write. The slices handed
// out by the accessors are fresh copies and safe to keep.
type storeImpl struct {
	users        *xsync.MapOf[string, entities.User]
	hotelsByCity *xsync.MapOf[string, []entities.Hotel]
	reviewsByKey *xsync.MapOf[string, []entities.Review]
}

// New creates an empty entity store.
func New() IStore {
	return &storeImpl{
		users:        xsync.NewMapOf[string, entities.User](),
		hotelsByCity: xsync.NewMapOf[string, []entities.Hotel](),
		reviewsByKey: xsync.NewMapOf[string, []entities.Review](),
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) GetUser(username string) (entities.User, bool) {
	return s.users.Load(username)
}

func (s *storeImpl) PutUserIfAbsent(user entities.User) bool {
	_, loaded := s.users.LoadOrStore(user.Username, user)
	return !loaded
}

func (s *storeImpl) IncrementUserReviews(username string) (entities.User, bool) {
	return s.users.Compute(username, func(user entities.User, loaded bool) (entities.User, bool) {
		if !loaded {
			// unknown user, delete the placeholder Compute would create
			return user, true
		}
		user.NumReviews++
		user.ExperienceLevel = entities.TierForCount(user.NumReviews)
		return user, false
	})
}

func (s *storeImpl) RangeUsers(fn func(user entities.User) bool) {
	s.users.Range(func(_ string, user entities.User) bool {
		return fn(user)
	})
}

func (s *storeImpl) AddCity(city string) {
	s.hotelsByCity.LoadOrStore(city, []entities.Hotel{})
}

func (s *storeImpl) HasCity(city string) bool {
	_, loaded := s.hotelsByCity.Load(city)
	return loaded
}

func (s *storeImpl) AddHotel(hotel entities.Hotel) bool {
	known := false
	s.hotelsByCity.Compute(hotel.City, func(hotels []entities.Hotel, loaded bool) ([]entities.Hotel, bool) {
		if !loaded {
			return nil, true
		}
		known = true
		next := make([]entities.Hotel, 0, len(hotels)+1)
		next = append(next, hotels...)
		next = append(next, hotel)
		return next, false
	})
	return known
}

func (s *storeImpl) HotelsIn(city string) ([]entities.Hotel, bool) {
	hotels, loaded := s.hotelsByCity.Load(city)
	if !loaded {
		return nil, false
	}
	return copyHotels(hotels), true
}

func (s *storeImpl) FindHotel(name, city string) (entities.Hotel, bool) {
	hotels, loaded := s.hotelsByCity.Load(city)
	if !loaded {
		return entities.Hotel{}, false
	}
	for _, h := range hotels {
		if h.Name == name {
			return h, true
		}
	}
	return entities.Hotel{}, false
}

func (s *storeImpl) SetHotelScores(name, city string, rate float64, ratings entities.Ratings) bool {
	found := false
	s.hotelsByCity.Compute(city, func(hotels []entities.Hotel, loaded bool) ([]entities.Hotel, bool) {
		if !loaded {
			return nil, true
		}
		next := copyHotels(hotels)
		for i := range next {
			if next[i].Name == name {
				next[i].Rate = rate
				next[i].Ratings = ratings
				found = true
				break
			}
		}
		if !found {
			// nothing changed, keep the old slice
			return hotels, false
		}
		return next, false
	})
	return found
}

func (s *storeImpl) SortCityByRate(city string) {
	s.hotelsByCity.Compute(city, func(hotels []entities.Hotel, loaded bool) ([]entities.Hotel, bool) {
		if !loaded {
			return nil, true
		}
		next := copyHotels(hotels)
		// stable: equal rates keep their prior relative order
		sort.SliceStable(next, func(i, j int) bool {
			return next[i].Rate > next[j].Rate
		})
		return next, false
	})
}

func (s *storeImpl) RangeHotelsByCity(fn func(city string, hotels []entities.Hotel) bool) {
	s.hotelsByCity.Range(func(city string, hotels []entities.Hotel) bool {
		return fn(city, copyHotels(hotels))
	})
}

func (s *storeImpl) AppendReview(review entities.Review) {
	key := entities.HotelKey(review.HotelName, review.City)
	s.reviewsByKey.Compute(key, func(reviews []entities.Review, loaded bool) ([]entities.Review, bool) {
		next := make([]entities.Review, 0, len(reviews)+1)
		next = append(next, reviews...)
		next = append(next, review)
		return next, false
	})
}

func (s *storeImpl) ReviewsFor(hotelName, city string) []entities.Review {
	reviews, loaded := s.reviewsByKey.Load(entities.HotelKey(hotelName, city))
	if !loaded {
		return nil
	}
	return copyReviews(reviews)
}

func (s *storeImpl) RangeReviews(fn func(key string, reviews []entities.Review) bool) {
	s.reviewsByKey.Range(func(key string, reviews []entities.Review) bool {
		return fn(key, copyReviews(reviews))
	})
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

func copyHotels(hotels []entities.Hotel) []entities.Hotel {
	out := make([]entities.Hotel, len(hotels))
	copy(out, hotels)
	return out
}

func copyReviews(reviews []entities.Review) []entities.Review {
	out := make([]entities.Review, len(reviews))
	copy(out, reviews)
	return out
}
