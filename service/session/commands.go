package session

import (
	"fmt"
	"strconv"
	"strings"

	"hotelier/lib/entities"
	"hotelier/lib/password"
)

// helpText lists every command of the protocol, one per line.
const helpText = "Supported commands:\n" +
	"  help\n" +
	"  exit\n" +
	"  register <username> <password>\n" +
	"  login <username> <password>\n" +
	"  logout <username>\n" +
	"  searchHotel <hotelName> <city>\n" +
	"  searchAllHotels <city>\n" +
	"  insertReview <hotelName> <city> <rate> <cleaning> <position> <services> <quality>\n" +
	"  showMyBadges\n" +
	"  myRankings"

func (e *Engine) help() {
	e.respond(helpText)
}

// register creates a new account. Valid only before login; the session
// state never changes, whatever the outcome.
func (e *Engine) register(parts []string) {
	if len(parts) != 3 {
		e.respond("Error: usage: register <username> <password>")
		return
	}
	if e.status == entities.StatusLogged {
		e.respond("Error: operation not allowed while logged in")
		return
	}

	username, pass := parts[1], parts[2]
	switch registrationStatus(username, pass) {
	case entities.RegBlankUsername:
		e.respond("Error: username must not be blank")
		return
	case entities.RegBlankPassword:
		e.respond("Error: password must not be blank")
		return
	case entities.RegTooLong:
		e.respond(fmt.Sprintf("Error: username and password must be at most %d characters", entities.MaxCredentialLen))
		return
	}

	salt, err := password.GenerateSalt()
	if err != nil {
		logger.Error().Err(err).Msg("salt generation failed")
		e.respond("Error: registration failed, try again")
		return
	}
	digest, err := password.Hash(pass, salt)
	if err != nil {
		logger.Error().Err(err).Msg("password hashing failed")
		e.respond("Error: registration failed, try again")
		return
	}

	if !e.store.PutUserIfAbsent(entities.NewUser(username, salt, digest)) {
		e.respond("Error: username already taken")
		return
	}
	logger.Info().Str("username", username).Msg("user registered")
	e.respond("Registration successful, you can now login")
}

// registrationStatus validates the credentials of a registration attempt.
func registrationStatus(username, pass string) entities.RegistrationStatus {
	switch {
	case strings.TrimSpace(username) == "":
		return entities.RegBlankUsername
	case strings.TrimSpace(pass) == "":
		return entities.RegBlankPassword
	case len(username) > entities.MaxCredentialLen || len(pass) > entities.MaxCredentialLen:
		return entities.RegTooLong
	default:
		return entities.RegSuccess
	}
}

// login authenticates the user and then synchronously reads the follow-up
// line listing the cities to follow. Unknown cities are silently dropped;
// a non-empty followed set subscribes the session to ranking updates.
func (e *Engine) login(parts []string) {
	if len(parts) != 3 {
		e.respond("Error: usage: login <username> <password>")
		return
	}
	if e.status == entities.StatusLogged {
		e.respond("Error: already logged in")
		return
	}

	username, pass := parts[1], parts[2]
	user, ok := e.store.GetUser(username)
	if !ok {
		e.respond("Error: username not registered")
		return
	}
	if !password.Verify(pass, user.HashedPassword, user.Salt) {
		e.respond("Error: wrong password")
		return
	}

	e.username = username
	e.status = entities.StatusLogged
	// Stale updates from a previous login on this connection are dropped.
	e.inbox.Drain()
	e.respond("Login successful\n" +
		"Enter the cities whose ranking you want to follow " +
		"(all on the next line, separated by spaces)")

	// The protocol requires the city list as the very next line.
	line, err := e.readLine()
	if err != nil {
		logger.Debug().Uint64("session", e.id).Err(err).Msg("city list read failed")
		return
	}
	e.follow(strings.Fields(line))

	if len(e.followed) == 0 {
		e.respond("Followed cities: none")
		return
	}
	e.registry.Subscribe(e)
	// Cities are echoed in the order the user entered them.
	e.respond("Followed cities: " + strings.Join(e.followed, " "))
	logger.Info().Str("username", username).Strs("cities", e.followed).Msg("user logged in")
}

// follow records every requested city the store knows, deduplicated, and
// seeds myRankings with each city's current top hotels.
func (e *Engine) follow(cities []string) {
	seen := make(map[string]struct{}, len(cities))
	for _, city := range cities {
		if _, dup := seen[city]; dup || !e.store.HasCity(city) {
			continue
		}
		seen[city] = struct{}{}
		e.followed = append(e.followed, city)

		hotels, _ := e.store.HotelsIn(city)
		top := make([]string, 0, 3)
		for i := 0; i < len(hotels) && i < 3; i++ {
			top = append(top, hotels[i].Name)
		}
		e.rankings[city] = top
	}
}

// logout unbinds the user. With automatic set (the exit path) no response
// is written, the exit acknowledgment covers it.
func (e *Engine) logout(parts []string, automatic bool) {
	if len(parts) != 2 {
		e.respond("Error: usage: logout <username>")
		return
	}
	if e.status != entities.StatusLogged {
		e.respond("Error: operation not allowed before login")
		return
	}
	if parts[1] != e.username {
		e.respond("Error: wrong username")
		return
	}

	e.registry.Unsubscribe(e)
	e.inbox.Drain()
	logger.Info().Str("username", e.username).Msg("user logged out")
	e.username = ""
	e.followed = nil
	e.rankings = make(map[string][]string)
	e.status = entities.StatusNotLogged

	if !automatic {
		e.respond("Logout successful")
	}
}

// exit ends the session, logging the user out first if needed.
func (e *Engine) exit() {
	if e.status == entities.StatusLogged {
		e.logout([]string{"logout", e.username}, true)
		e.status = entities.StatusExit
		e.respond("Automatic logout\nClosing the session")
		return
	}
	e.status = entities.StatusExit
	e.respond("Closing the session")
}

// searchHotel looks one hotel up by exact name. The name may contain
// spaces, the city is always the last token.
func (e *Engine) searchHotel(parts []string) {
	if len(parts) < 3 {
		e.respond("Error: usage: searchHotel <hotelName> <city>")
		return
	}

	city := parts[len(parts)-1]
	name := strings.Join(parts[1:len(parts)-1], " ")
	if !e.store.HasCity(city) {
		e.respond(fmt.Sprintf("Error: unknown city %s", city))
		return
	}

	hotel, ok := e.store.FindHotel(name, city)
	if !ok {
		e.respond(fmt.Sprintf("Hotel %s not found in %s", name, city))
		return
	}
	e.respond("\n" + formatHotel(hotel))
}

// searchAllHotels lists the city's hotels in their current ranking order.
func (e *Engine) searchAllHotels(parts []string) {
	if len(parts) != 2 {
		e.respond("Error: usage: searchAllHotels <city>")
		return
	}

	city := parts[1]
	if !e.store.HasCity(city) {
		e.respond(fmt.Sprintf("Error: unknown city %s", city))
		return
	}
	hotels, _ := e.store.HotelsIn(city)
	if len(hotels) == 0 {
		e.respond(fmt.Sprintf("No hotels in %s", city))
		return
	}

	entries := make([]string, len(hotels))
	for i, h := range hotels {
		entries[i] = fmt.Sprintf("(%d) %s", i+1, formatHotel(h))
	}
	e.respond("\n" + strings.Join(entries, "\n\n"))
}

// formatHotel renders one hotel as the multi-line block shown to clients.
func formatHotel(h entities.Hotel) string {
	return fmt.Sprintf("%s\n  %q\n  phone=%s\n  services=[%s]\n  rate=%.2f\n  ratings=%s",
		h.Name, h.Description, h.Phone, strings.Join(h.Services, ", "), h.Rate, h.Ratings)
}

// insertReview appends a review for an existing hotel. The five scores are
// the trailing tokens, the city is right before them, the hotel name is
// everything in between.
func (e *Engine) insertReview(parts []string) {
	const usage = "Error: usage: insertReview <hotelName> <city> <rate> <cleaning> <position> <services> <quality>"

	if e.status != entities.StatusLogged {
		e.respond("Error: operation not allowed before login")
		return
	}
	if len(parts) < 8 {
		e.respond(usage)
		return
	}

	scores := make([]int, 5)
	for i := 0; i < 5; i++ {
		n, err := strconv.Atoi(parts[len(parts)-5+i])
		if err != nil {
			e.respond(usage)
			return
		}
		if n < 0 || n > 5 {
			e.respond("Error: every score must be between 0 and 5")
			return
		}
		scores[i] = n
	}

	city := parts[len(parts)-6]
	name := strings.Join(parts[1:len(parts)-6], " ")
	if name == "" {
		e.respond(usage)
		return
	}
	if !e.store.HasCity(city) {
		e.respond(fmt.Sprintf("Error: unknown city %s", city))
		return
	}
	if _, ok := e.store.FindHotel(name, city); !ok {
		e.respond(fmt.Sprintf("Error: no hotel %s in %s", name, city))
		return
	}

	now := e.now()
	for _, review := range e.store.ReviewsFor(name, city) {
		if review.Reviewer == e.username && now.Sub(review.CreatedAt) < e.cooldown {
			e.respond(fmt.Sprintf("Error: you can review the same hotel again after %v", e.cooldown))
			return
		}
	}

	e.store.AppendReview(entities.Review{
		HotelName: name,
		City:      city,
		Reviewer:  e.username,
		Rate:      scores[0],
		Ratings: entities.Ratings{
			Cleaning: float64(scores[1]),
			Position: float64(scores[2]),
			Services: float64(scores[3]),
			Quality:  float64(scores[4]),
		},
		CreatedAt: now,
	})
	if _, ok := e.store.IncrementUserReviews(e.username); !ok {
		logger.Warn().Str("username", e.username).Msg("review count increment for unknown user")
	}
	e.respond("Review inserted successfully")
}

// showMyBadges reports the badge of the bound user's experience tier.
func (e *Engine) showMyBadges(parts []string) {
	if len(parts) != 1 {
		e.respond("Error: usage: showMyBadges")
		return
	}
	if e.status != entities.StatusLogged {
		e.respond("Error: operation not allowed before login")
		return
	}

	user, ok := e.store.GetUser(e.username)
	if !ok {
		e.respond("Error: unknown user")
		return
	}
	e.respond(entities.BadgeForLevel(user.ExperienceLevel))
}

// myRankings reports the last known top hotels of every followed city.
func (e *Engine) myRankings(parts []string) {
	if len(parts) != 1 {
		e.respond("Error: usage: myRankings")
		return
	}
	if e.status != entities.StatusLogged {
		e.respond("Error: operation not allowed before login")
		return
	}
	if len(e.followed) == 0 {
		e.respond("You are not following any city")
		return
	}

	lines := make([]string, 0, len(e.followed))
	for _, city := range e.followedSorted() {
		lines = append(lines, formatRanking(city, e.rankings[city]))
	}
	e.respond(strings.Join(lines, "\n"))
}
