package entities

import (
	"fmt"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Client Status
// --------------------------------------------------------------------------

// ClientStatus represents the authentication state of one session.
type ClientStatus int

const (
	StatusNotLogged ClientStatus = iota
	StatusLogged
	StatusExit
)

// String returns the protocol tag for the status. Every response line sent
// to a client starts with this tag so the client can track its own state.
func (s ClientStatus) String() string {
	switch s {
	case StatusNotLogged:
		return "USER_NOT_LOGGED"
	case StatusLogged:
		return "USER_LOGGED"
	case StatusExit:
		return "EXIT"
	default:
		return "UNKNOWN"
	}
}

// --------------------------------------------------------------------------
// Registration Status
// --------------------------------------------------------------------------

// RegistrationStatus is the outcome of a registration attempt.
type RegistrationStatus int

const (
	RegSuccess RegistrationStatus = iota
	RegUsernameTaken
	RegBlankUsername
	RegBlankPassword
	RegTooLong
)

func (s RegistrationStatus) String() string {
	switch s {
	case RegSuccess:
		return "SUCCESS"
	case RegUsernameTaken:
		return "USERNAME_TAKEN"
	case RegBlankUsername:
		return "BLANK_USERNAME"
	case RegBlankPassword:
		return "BLANK_PASSWORD"
	case RegTooLong:
		return "TOO_LONG"
	default:
		return "UNKNOWN"
	}
}

// --------------------------------------------------------------------------
// User
// --------------------------------------------------------------------------

// MaxCredentialLen is the maximum accepted length for usernames and passwords.
const MaxCredentialLen = 32

// User represents a registered user. The experience level is always derived
// from NumReviews via TierForCount and must never be set independently.
type User struct {
	Username        string `json:"username"`
	Salt            string `json:"salt"`
	HashedPassword  string `json:"hashedPassword"`
	ExperienceLevel int    `json:"experienceLevel"`
	NumReviews      int    `json:"numReviews"`
}

// NewUser creates a user with zero reviews and the corresponding tier.
func NewUser(username, salt, hashedPassword string) User {
	return User{
		Username:       username,
		Salt:           salt,
		HashedPassword: hashedPassword,
	}
}

// TierForCount maps a review count to the experience level (0-5).
func TierForCount(numReviews int) int {
	switch {
	case numReviews >= 20:
		return 5
	case numReviews >= 15:
		return 4
	case numReviews >= 10:
		return 3
	case numReviews >= 5:
		return 2
	case numReviews >= 1:
		return 1
	default:
		return 0
	}
}

// badges holds the label for each experience level, indexed by level.
var badges = [...]string{
	"Nessun distintivo",
	"--- Recensore ---",
	"--- Recensore Esperto ---",
	"--- Contributore ---",
	"--- Contributore Esperto ---",
	"--- Contributore Super ---",
}

// BadgeForLevel returns the badge label for an experience level.
func BadgeForLevel(level int) string {
	if level < 0 || level >= len(badges) {
		return badges[0]
	}
	return badges[level]
}

// --------------------------------------------------------------------------
// Ratings
// --------------------------------------------------------------------------

// Ratings holds the four category scores (cleaning, position, services,
// quality). On a review these are integers 0-5; on a hotel they are the
// running means computed by the ranking pass.
type Ratings struct {
	Cleaning float64 `json:"cleaning"`
	Position float64 `json:"position"`
	Services float64 `json:"services"`
	Quality  float64 `json:"quality"`
}

func (r Ratings) String() string {
	return fmt.Sprintf("[%.2f, %.2f, %.2f, %.2f]", r.Cleaning, r.Position, r.Services, r.Quality)
}

// --------------------------------------------------------------------------
// Hotel
// --------------------------------------------------------------------------

// Hotel represents a hotel. Id, Name, Description, City, Phone and Services
// are static and loaded once at startup; Rate and Ratings are derived fields
// written back only by the ranking pass.
type Hotel struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	City        string   `json:"city"`
	Phone       string   `json:"phone"`
	Services    []string `json:"services"`
	Rate        float64  `json:"rate"`
	Ratings     Ratings  `json:"ratings"`
}

func (h Hotel) String() string {
	return fmt.Sprintf("Hotel{id=%d, name=%q, city=%q, rate=%.2f, ratings=%s}",
		h.ID, h.Name, h.City, h.Rate, h.Ratings)
}

// --------------------------------------------------------------------------
// Review
// --------------------------------------------------------------------------

// Review represents one review of a hotel. Reviews are immutable once
// created.
type Review struct {
	HotelName string    `json:"hotelName"`
	City      string    `json:"city"`
	Reviewer  string    `json:"reviewer"`
	Rate      int       `json:"rate"`
	Ratings   Ratings   `json:"ratings"`
	CreatedAt time.Time `json:"createdAt"`
}

// HotelKey builds the composite key used to index reviews by hotel.
// The city never contains an underscore-separated suffix, so splitting on
// the last underscore is unambiguous.
func HotelKey(hotelName, city string) string {
	return hotelName + "_" + city
}

// SplitHotelKey is the inverse of HotelKey.
func SplitHotelKey(key string) (hotelName, city string) {
	i := strings.LastIndex(key, "_")
	if i < 0 {
		return key, ""
	}
	return key[:i], key[i+1:]
}
