package transport

import (
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/VictoriaMetrics/metrics"

	"hotelier/lib/store"
	"hotelier/service/common"
	"hotelier/service/notify"
	"hotelier/service/session"
)

var logger = common.GetLogger("transport")

var (
	connectionsAccepted = metrics.NewCounter("hotelier_connections_accepted_total")

	// liveSessions backs the gauge below. Both live at package level
	// because VictoriaMetrics panics on duplicate metric names, so the
	// registration must not repeat per dispatcher.
	liveSessions      atomic.Int64
	liveSessionsGauge = metrics.NewGauge("hotelier_live_sessions", func() float64 {
		return float64(liveSessions.Load())
	})
)

// Dispatcher owns the TCP listener and runs one session engine per
// accepted connection in its own goroutine.
type Dispatcher struct {
	config   common.ServerConfig
	store    store.IStore
	registry *notify.Registry

	listener net.Listener
	nextID   atomic.Uint64
	closed   atomic.Bool
	sessions sync.WaitGroup
}

// NewDispatcher creates a dispatcher. Serve must be called to start
// accepting.
func NewDispatcher(config common.ServerConfig, s store.IStore, registry *notify.Registry) *Dispatcher {
	return &Dispatcher{
		config:   config,
		store:    s,
		registry: registry,
	}
}

// Serve listens on the configured address and accepts connections until
// Shutdown closes the listener. It blocks for the lifetime of the server.
func (d *Dispatcher) Serve() error {
	listener, err := net.Listen("tcp", d.config.TCPAddr)
	if err != nil {
		return fmt.Errorf("failed to create tcp listener: %w", err)
	}
	d.listener = listener
	logger.Info().Str("addr", d.config.TCPAddr).Msg("accepting connections")

	for {
		conn, err := listener.Accept()
		if err != nil {
			if d.closed.Load() {
				return nil
			}
			return fmt.Errorf("accept failed: %w", err)
		}

		connectionsAccepted.Inc()
		d.sessions.Add(1)
		go d.handle(conn)
	}
}

// Shutdown stops accepting and waits for in-flight sessions, up to the
// configured maximum delay. Sessions still running after that are
// abandoned to die with the process.
func (d *Dispatcher) Shutdown() error {
	d.closed.Store(true)
	if d.listener != nil {
		d.listener.Close()
	}

	done := make(chan struct{})
	go func() {
		d.sessions.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info().Msg("all sessions finished")
		return nil
	case <-time.After(d.config.ShutdownMaxDelay):
		return fmt.Errorf("%d sessions still running after %v", liveSessions.Load(), d.config.ShutdownMaxDelay)
	}
}

// handle runs one connection through a session engine.
func (d *Dispatcher) handle(conn net.Conn) {
	defer d.sessions.Done()
	defer conn.Close()

	liveSessions.Add(1)
	defer liveSessions.Add(-1)

	if err := d.upgrade(conn); err != nil {
		logger.Warn().Err(err).Msg("connection upgrade failed")
	}

	id := d.nextID.Add(1)
	logger.Debug().Uint64("session", id).Str("remote", conn.RemoteAddr().String()).Msg("session started")

	eng := session.New(id, conn, d.store, d.registry, d.config.ReviewCooldown)
	if err := eng.Run(); err != nil {
		logger.Debug().Uint64("session", id).Err(err).Msg("session ended on connection error")
		return
	}
	logger.Debug().Uint64("session", id).Msg("session ended")
}

// upgrade applies the configured TCP socket tuning.
func (d *Dispatcher) upgrade(conn net.Conn) error {
	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return nil
	}

	if err := tcpConn.SetNoDelay(d.config.TCPNoDelay); err != nil {
		return err
	}
	if d.config.TCPKeepAliveSec > 0 {
		if err := tcpConn.SetKeepAlive(true); err != nil {
			return err
		}
		if err := tcpConn.SetKeepAlivePeriod(time.Duration(d.config.TCPKeepAliveSec) * time.Second); err != nil {
			return err
		}
	}
	return nil
}
