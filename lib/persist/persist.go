package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"hotelier/lib/entities"
	"hotelier/lib/store"
	"hotelier/service/common"
)

var logger = common.GetLogger("persist")

// Snapshot file names inside the data directory. The cities file is read
// only at startup; the other three are rewritten by every snapshot.
const (
	CitiesFile  = "Cities.json"
	HotelsFile  = "Hotels.json"
	UsersFile   = "Users.json"
	ReviewsFile = "Reviews.json"
)

// --------------------------------------------------------------------------
// Startup load
// --------------------------------------------------------------------------

// LoadAll populates the store from the JSON snapshot in dir. Cities and
// hotels are required; missing user or review files are treated as empty
// (first start). After loading, every city's hotel list is sorted
// descending by rate so searches are ordered before the first ranking
// pass.
func LoadAll(dir string, s store.IStore) error {
	var cities []string
	if err := readJSON(filepath.Join(dir, CitiesFile), &cities); err != nil {
		return fmt.Errorf("failed to load cities: %w", err)
	}
	for _, city := range cities {
		s.AddCity(city)
	}

	var hotels []entities.Hotel
	if err := readJSON(filepath.Join(dir, HotelsFile), &hotels); err != nil {
		return fmt.Errorf("failed to load hotels: %w", err)
	}
	for _, hotel := range hotels {
		if !s.AddHotel(hotel) {
			// hotel references a city missing from the cities file
			logger.Warn().Str("hotel", hotel.Name).Str("city", hotel.City).
				Msg("skipping hotel in unknown city")
		}
	}

	var users []entities.User
	if err := readJSON(filepath.Join(dir, UsersFile), &users); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load users: %w", err)
	}
	for _, user := range users {
		s.PutUserIfAbsent(user)
	}

	var reviews []entities.Review
	if err := readJSON(filepath.Join(dir, ReviewsFile), &reviews); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load reviews: %w", err)
	}
	for _, review := range reviews {
		s.AppendReview(review)
	}

	for _, city := range cities {
		s.SortCityByRate(city)
	}

	logger.Info().Int("cities", len(cities)).Int("hotels", len(hotels)).
		Int("users", len(users)).Int("reviews", len(reviews)).
		Msg("loaded data snapshot")
	return nil
}

// --------------------------------------------------------------------------
// Snapshot save
// --------------------------------------------------------------------------

// SaveAll snapshots users, reviews and hotels from the store back to dir.
// Each file is written to a temp file and renamed into place, so a crash
// mid-write never truncates the previous good snapshot.
func SaveAll(dir string, s store.IStore) error {
	users := make([]entities.User, 0)
	s.RangeUsers(func(user entities.User) bool {
		users = append(users, user)
		return true
	})
	if err := writeJSON(filepath.Join(dir, UsersFile), users); err != nil {
		return fmt.Errorf("failed to save users: %w", err)
	}

	reviews := make([]entities.Review, 0)
	s.RangeReviews(func(_ string, list []entities.Review) bool {
		reviews = append(reviews, list...)
		return true
	})
	if err := writeJSON(filepath.Join(dir, ReviewsFile), reviews); err != nil {
		return fmt.Errorf("failed to save reviews: %w", err)
	}

	hotels := make([]entities.Hotel, 0)
	s.RangeHotelsByCity(func(_ string, list []entities.Hotel) bool {
		hotels = append(hotels, list...)
		return true
	})
	if err := writeJSON(filepath.Join(dir, HotelsFile), hotels); err != nil {
		return fmt.Errorf("failed to save hotels: %w", err)
	}

	return nil
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
