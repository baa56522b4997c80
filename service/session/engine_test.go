package session

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"hotelier/lib/entities"
	"hotelier/lib/password"
	"hotelier/lib/store"
	"hotelier/service/notify"
)

// scriptConn feeds a fixed command script to the engine and captures
// everything it writes back.
type scriptConn struct {
	in  *strings.Reader
	out strings.Builder
}

func newScriptConn(lines ...string) *scriptConn {
	return &scriptConn{in: strings.NewReader(strings.Join(lines, "\n") + "\n")}
}

func (c *scriptConn) Read(p []byte) (int, error)  { return c.in.Read(p) }
func (c *scriptConn) Write(p []byte) (int, error) { return c.out.Write(p) }

func (c *scriptConn) lines() []string {
	return strings.Split(strings.TrimRight(c.out.String(), "\n"), "\n")
}

// newTestStore seeds a store with the city Rome and two hotels.
func newTestStore(t *testing.T) store.IStore {
	t.Helper()
	s := store.New()
	s.AddCity("Rome")
	hotels := []entities.Hotel{
		{ID: 1, Name: "Hotel Roma", City: "Rome", Description: "near the forum",
			Phone: "+39 06 111", Services: []string{"wifi", "parking"}},
		{ID: 2, Name: "Hotel Tevere", City: "Rome", Description: "river view",
			Phone: "+39 06 222", Services: []string{"wifi"}},
	}
	for _, h := range hotels {
		if !s.AddHotel(h) {
			t.Fatalf("failed to add hotel %q", h.Name)
		}
	}
	return s
}

// registerUser puts a ready-made account into the store.
func registerUser(t *testing.T, s store.IStore, username, pass string) {
	t.Helper()
	salt, err := password.GenerateSalt()
	if err != nil {
		t.Fatalf("salt generation failed: %v", err)
	}
	digest, err := password.Hash(pass, salt)
	if err != nil {
		t.Fatalf("hashing failed: %v", err)
	}
	if !s.PutUserIfAbsent(entities.NewUser(username, salt, digest)) {
		t.Fatalf("username %q already taken", username)
	}
}

// runScript runs one engine over the script and returns the response lines.
func runScript(t *testing.T, s store.IStore, reg *notify.Registry, now time.Time, script ...string) []string {
	t.Helper()
	conn := newScriptConn(script...)
	eng := New(1, conn, s, reg, time.Minute)
	eng.now = func() time.Time { return now }
	if err := eng.Run(); err != nil && err != io.EOF {
		t.Fatalf("engine run failed: %v", err)
	}
	return conn.lines()
}

// TestFullScenario drives one session through register, login, review,
// badge display, cooldown rejection and exit, checking every response
// line's state tag and content.
func TestFullScenario(t *testing.T) {
	s := newTestStore(t)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	lines := runScript(t, s, notify.NewRegistry(), now,
		"register alice secret1",
		"login alice secret1",
		"Rome Atlantis",
		"insertReview Hotel Roma Rome 5 5 5 5 5",
		"showMyBadges",
		"insertReview Hotel Roma Rome 5 5 5 5 5",
		"exit",
	)

	want := []string{
		"USER_NOT_LOGGED,Registration successful, you can now login",
		"USER_LOGGED,Login successful" + escapeMarker,
		"USER_LOGGED,Followed cities: Rome",
		"USER_LOGGED,Review inserted successfully",
		"USER_LOGGED," + entities.BadgeForLevel(1),
		"USER_LOGGED,Error: you can review the same hotel again after",
		"EXIT,Automatic logout" + escapeMarker + "Closing the session",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d response lines, got %d: %q", len(want), len(lines), lines)
	}
	for i, prefix := range want {
		if !strings.HasPrefix(lines[i], prefix) {
			t.Errorf("line %d: expected prefix %q, got %q", i, prefix, lines[i])
		}
	}

	user, ok := s.GetUser("alice")
	if !ok {
		t.Fatal("alice not in store")
	}
	if user.NumReviews != 1 || user.ExperienceLevel != 1 {
		t.Errorf("expected 1 review and tier 1, got %d reviews tier %d", user.NumReviews, user.ExperienceLevel)
	}
}

// TestCooldownExpires verifies that the same reviewer may review the same
// hotel again once the cooldown has elapsed.
func TestCooldownExpires(t *testing.T) {
	s := newTestStore(t)
	registerUser(t, s, "alice", "secret1")
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	runScript(t, s, notify.NewRegistry(), base,
		"login alice secret1", "Rome",
		"insertReview Hotel Roma Rome 5 5 5 5 5",
		"exit",
	)
	lines := runScript(t, s, notify.NewRegistry(), base.Add(2*time.Minute),
		"login alice secret1", "Rome",
		"insertReview Hotel Roma Rome 4 4 4 4 4",
		"exit",
	)

	if got := lines[2]; got != "USER_LOGGED,Review inserted successfully" {
		t.Errorf("expected accepted review after cooldown, got %q", got)
	}
	if user, _ := s.GetUser("alice"); user.NumReviews != 2 {
		t.Errorf("expected 2 reviews, got %d", user.NumReviews)
	}
}

// TestFollowedCitiesKeepEntryOrder verifies that the login acknowledgment
// echoes the followed cities in the order the user entered them, with
// duplicates and unknown cities dropped.
func TestFollowedCitiesKeepEntryOrder(t *testing.T) {
	s := newTestStore(t)
	s.AddCity("Milan")
	registerUser(t, s, "alice", "secret1")

	lines := runScript(t, s, notify.NewRegistry(), time.Now(),
		"login alice secret1",
		"Milan Rome Milan Atlantis",
		"exit",
	)

	if got := lines[1]; got != "USER_LOGGED,Followed cities: Milan Rome" {
		t.Errorf("expected entry-order city list, got %q", got)
	}
}

// TestCommandsRequireLogin verifies that mutating and personal commands
// are rejected before login, with an unchanged state tag.
func TestCommandsRequireLogin(t *testing.T) {
	s := newTestStore(t)

	lines := runScript(t, s, notify.NewRegistry(), time.Now(),
		"insertReview Hotel Roma Rome 5 5 5 5 5",
		"showMyBadges",
		"myRankings",
		"logout alice",
		"exit",
	)

	for i := 0; i < 4; i++ {
		if !strings.HasPrefix(lines[i], "USER_NOT_LOGGED,Error: operation not allowed before login") {
			t.Errorf("line %d: expected not-logged error, got %q", i, lines[i])
		}
	}
}

// TestRegisterValidation covers the rejection outcomes of register.
func TestRegisterValidation(t *testing.T) {
	s := newTestStore(t)
	registerUser(t, s, "bob", "pw")
	long := strings.Repeat("x", entities.MaxCredentialLen+1)

	lines := runScript(t, s, notify.NewRegistry(), time.Now(),
		"register bob otherpw",
		fmt.Sprintf("register %s pw", long),
		"register onlyname",
		"exit",
	)

	checks := []string{
		"USER_NOT_LOGGED,Error: username already taken",
		"USER_NOT_LOGGED,Error: username and password must be at most",
		"USER_NOT_LOGGED,Error: usage: register",
	}
	for i, prefix := range checks {
		if !strings.HasPrefix(lines[i], prefix) {
			t.Errorf("line %d: expected prefix %q, got %q", i, prefix, lines[i])
		}
	}
}

// TestSearchCommands exercise the read-only commands, available without
// login: hotel rendering with escaped newlines, unknown city errors and
// the empty-city case.
func TestSearchCommands(t *testing.T) {
	s := newTestStore(t)
	s.AddCity("Milan")

	lines := runScript(t, s, notify.NewRegistry(), time.Now(),
		"searchHotel Hotel Roma Rome",
		"searchHotel Hotel Roma Atlantis",
		"searchAllHotels Rome",
		"searchAllHotels Milan",
		"exit",
	)

	if !strings.Contains(lines[0], "Hotel Roma") || !strings.Contains(lines[0], escapeMarker) {
		t.Errorf("expected escaped hotel block, got %q", lines[0])
	}
	if strings.Contains(lines[0], "\n") {
		t.Error("response must be a single line")
	}
	if !strings.HasPrefix(lines[1], "USER_NOT_LOGGED,Error: unknown city Atlantis") {
		t.Errorf("expected unknown city error, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "(1) ") || !strings.Contains(lines[2], "(2) ") {
		t.Errorf("expected numbered hotel list, got %q", lines[2])
	}
	if !strings.HasPrefix(lines[3], "USER_NOT_LOGGED,No hotels in Milan") {
		t.Errorf("expected empty city message, got %q", lines[3])
	}
}

// TestRankingUpdateDelivery runs the engine over a real pipe, publishes a
// targeted event mid-session and checks that the update is written out
// after the next command, followed by a matching myRankings answer.
func TestRankingUpdateDelivery(t *testing.T) {
	s := newTestStore(t)
	registerUser(t, s, "alice", "secret1")
	reg := notify.NewRegistry()

	srv, cli := net.Pipe()
	defer cli.Close()

	eng := New(1, srv, s, reg, time.Minute)
	done := make(chan struct{})
	go func() {
		defer close(done)
		eng.Run()
		srv.Close()
	}()

	// A dedicated reader keeps a pending read on the pipe at all times,
	// like the real client does, so engine writes never block.
	lines := make(chan string, 16)
	go func() {
		defer close(lines)
		r := bufio.NewReader(cli)
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			lines <- strings.TrimRight(line, "\n")
		}
	}()

	send := func(line string) {
		if _, err := fmt.Fprintln(cli, line); err != nil {
			t.Errorf("send failed: %v", err)
		}
	}
	recv := func() string {
		select {
		case line, ok := <-lines:
			if !ok {
				t.Fatal("connection closed before expected response")
			}
			return line
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for a response")
			return ""
		}
	}

	send("login alice secret1")
	recv()
	send("Rome")
	recv()

	if reg.Size() != 1 {
		t.Fatal("session did not subscribe after following Rome")
	}
	reg.Publish(notify.Event{
		City:        "Rome",
		Top3:        []string{"Hotel Tevere", "Hotel Roma"},
		Top3Changed: true,
	})

	send("help")
	recv()
	update := recv()
	if !strings.Contains(update, "[RANKING] top hotels in Rome") || !strings.Contains(update, "(1) Hotel Tevere") {
		t.Errorf("expected pushed ranking update, got %q", update)
	}

	send("myRankings")
	if got := recv(); !strings.Contains(got, "(1) Hotel Tevere") {
		t.Errorf("expected myRankings to report the delivered top-3, got %q", got)
	}

	send("exit")
	recv()
	<-done

	if reg.Size() != 0 {
		t.Errorf("expected empty registry after exit, got %d", reg.Size())
	}
	if eng.Deliver(notify.RankingUpdate{City: "Rome"}) {
		t.Error("delivery to a finished session must fail")
	}
}
