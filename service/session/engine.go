package session

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/VictoriaMetrics/metrics"

	"hotelier/lib/entities"
	"hotelier/lib/mpsc"
	"hotelier/lib/store"
	"hotelier/service/common"
	"hotelier/service/notify"
)

var logger = common.GetLogger("session")

// escapeMarker replaces embedded newlines in a response content so the
// whole response stays one protocol line. The counterpart substitutes it
// back before display.
const escapeMarker = "*\\n*"

// Engine runs the line protocol of one connection. It owns the session
// state (status, bound username, followed cities, inbox) exclusively; the
// notification registry only ever sees the non-owning ISubscriber side.
//
// Thread-safety: all fields except the inbox are touched only by the
// goroutine running Run. The inbox is the single concurrency point, pushed
// by the notification fan-out and drained here.
type Engine struct {
	id       uint64
	in       *bufio.Reader
	out      io.Writer
	store    store.IStore
	registry *notify.Registry
	cooldown time.Duration

	// now is injectable for cooldown tests.
	now func() time.Time

	status   entities.ClientStatus
	username string
	followed []string
	rankings map[string][]string
	inbox    *mpsc.Queue[notify.RankingUpdate]
}

// New creates the protocol engine for one connection. The id must be
// unique among live sessions, it doubles as the subscriber identity in the
// notification registry.
func New(id uint64, conn io.ReadWriter, s store.IStore, registry *notify.Registry, cooldown time.Duration) *Engine {
	return &Engine{
		id:       id,
		in:       bufio.NewReader(conn),
		out:      conn,
		store:    s,
		registry: registry,
		cooldown: cooldown,
		now:      time.Now,
		status:   entities.StatusNotLogged,
		rankings: make(map[string][]string),
		inbox:    mpsc.New[notify.RankingUpdate](),
	}
}

// --------------------------------------------------------------------------
// Subscriber Side (called by the notification fan-out)
// --------------------------------------------------------------------------

// ID identifies this session in the notification registry.
func (e *Engine) ID() uint64 {
	return e.id
}

// Deliver pushes a ranking update into the inbox without blocking. It
// returns false once the session is gone and its inbox closed.
func (e *Engine) Deliver(update notify.RankingUpdate) bool {
	return e.inbox.Push(&update)
}

// --------------------------------------------------------------------------
// Protocol Loop
// --------------------------------------------------------------------------

// Run processes commands until the client exits or the connection drops.
// The connection itself is owned and closed by the caller.
func (e *Engine) Run() error {
	defer e.teardown()

	for e.status != entities.StatusExit {
		line, err := e.readLine()
		if err != nil {
			if err != io.EOF {
				logger.Debug().Uint64("session", e.id).Err(err).Msg("connection read failed")
			}
			return err
		}

		e.dispatch(strings.Fields(line))

		// Pending ranking updates ride along after the response so the
		// client sees them before it prompts again.
		if e.status == entities.StatusLogged {
			e.drainInbox()
		}
	}
	return nil
}

// dispatch runs one command line. Every path writes exactly one response.
func (e *Engine) dispatch(parts []string) {
	if len(parts) == 0 {
		e.respond("Error: empty command, try help")
		return
	}

	cmd := parts[0]
	metrics.GetOrCreateCounter(fmt.Sprintf(`hotelier_commands_total{command=%q}`, cmd)).Inc()

	switch cmd {
	case "help":
		e.help()
	case "exit":
		e.exit()
	case "register":
		e.register(parts)
	case "login":
		e.login(parts)
	case "logout":
		e.logout(parts, false)
	case "searchHotel":
		e.searchHotel(parts)
	case "searchAllHotels":
		e.searchAllHotels(parts)
	case "insertReview":
		e.insertReview(parts)
	case "showMyBadges":
		e.showMyBadges(parts)
	case "myRankings":
		e.myRankings(parts)
	default:
		e.respond("Error: unknown command, try help")
	}
}

// teardown releases everything the registry or fan-out may still reach.
// Runs on clean exit and on dropped connections alike.
func (e *Engine) teardown() {
	e.registry.Unsubscribe(e)
	e.inbox.Close()
}

// --------------------------------------------------------------------------
// I/O Helpers
// --------------------------------------------------------------------------

// readLine reads the next protocol line, without the trailing newline.
func (e *Engine) readLine() (string, error) {
	line, err := e.in.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// respond writes one response line carrying the current state tag.
// Newlines in the content are escaped so the line stays intact.
func (e *Engine) respond(content string) {
	escaped := strings.ReplaceAll(content, "\n", escapeMarker)
	if _, err := fmt.Fprintf(e.out, "%s,%s\n", e.status, escaped); err != nil {
		logger.Debug().Uint64("session", e.id).Err(err).Msg("connection write failed")
	}
}

// drainInbox writes every pending ranking update as its own response line,
// in arrival order, and remembers each city's latest top-3 for myRankings.
func (e *Engine) drainInbox() {
	for _, update := range e.inbox.Drain() {
		e.rankings[update.City] = update.Top3
		e.respond(formatRanking(update.City, update.Top3))
	}
}

// formatRanking renders one city's top-3 for display.
func formatRanking(city string, top3 []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[RANKING] top hotels in %s:", city)
	for i, name := range top3 {
		fmt.Fprintf(&sb, " (%d) %s", i+1, name)
	}
	return sb.String()
}

// followedSorted returns the followed cities in deterministic order.
func (e *Engine) followedSorted() []string {
	cities := append([]string(nil), e.followed...)
	sort.Strings(cities)
	return cities
}
