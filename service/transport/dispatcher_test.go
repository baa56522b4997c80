package transport

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"hotelier/lib/store"
	"hotelier/service/common"
	"hotelier/service/notify"
)

// startDispatcher serves on an ephemeral port and returns the dialable
// address.
func startDispatcher(t *testing.T) (*Dispatcher, string) {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve port: %v", err)
	}
	addr := listener.Addr().String()
	listener.Close()

	s := store.New()
	s.AddCity("Rome")

	d := NewDispatcher(common.ServerConfig{
		TCPAddr:          addr,
		ShutdownMaxDelay: 2 * time.Second,
		TCPNoDelay:       true,
	}, s, notify.NewRegistry())

	errCh := make(chan error, 1)
	go func() { errCh <- d.Serve() }()

	// Wait for the listener to come up.
	for i := 0; i < 50; i++ {
		conn, err := net.Dial("tcp", addr)
		if err == nil {
			fmt.Fprintln(conn, "exit")
			conn.Close()
			return d, addr
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("dispatcher never came up on %s", addr)
	return nil, ""
}

// TestDispatcherConstructionRepeats verifies that building several
// dispatchers in one process is safe: metric registration must not repeat
// per instance, it panics on duplicate names.
func TestDispatcherConstructionRepeats(t *testing.T) {
	cfg := common.ServerConfig{TCPAddr: "127.0.0.1:0", ShutdownMaxDelay: time.Second}
	for i := 0; i < 3; i++ {
		if d := NewDispatcher(cfg, store.New(), notify.NewRegistry()); d == nil {
			t.Fatal("expected a dispatcher")
		}
	}
}

// TestDispatcherServesSessions verifies that concurrent connections each
// get a working session.
func TestDispatcherServesSessions(t *testing.T) {
	d, addr := startDispatcher(t)
	defer d.Shutdown()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conn, err := net.Dial("tcp", addr)
			if err != nil {
				t.Errorf("dial failed: %v", err)
				return
			}
			defer conn.Close()

			r := bufio.NewReader(conn)
			fmt.Fprintln(conn, "searchAllHotels Rome")
			line, err := r.ReadString('\n')
			if err != nil {
				t.Errorf("read failed: %v", err)
				return
			}
			if !strings.HasPrefix(line, "USER_NOT_LOGGED,No hotels in Rome") {
				t.Errorf("unexpected response %q", line)
			}

			fmt.Fprintln(conn, "exit")
			if line, err = r.ReadString('\n'); err != nil {
				t.Errorf("read failed: %v", err)
				return
			}
			if !strings.HasPrefix(line, "EXIT,") {
				t.Errorf("expected EXIT tag, got %q", line)
			}
		}()
	}
	wg.Wait()
}

// TestDispatcherShutdownWaitsForSessions verifies that Shutdown refuses
// new connections but lets an in-flight session finish.
func TestDispatcherShutdownWaitsForSessions(t *testing.T) {
	d, addr := startDispatcher(t)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()
	r := bufio.NewReader(conn)

	shutdownDone := make(chan error, 1)
	go func() { shutdownDone <- d.Shutdown() }()

	// The established session keeps working while shutdown waits.
	time.Sleep(50 * time.Millisecond)
	fmt.Fprintln(conn, "help")
	if _, err := r.ReadString('\n'); err != nil {
		t.Fatalf("in-flight session died during shutdown: %v", err)
	}

	fmt.Fprintln(conn, "exit")
	r.ReadString('\n')

	if err := <-shutdownDone; err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	if _, err := net.Dial("tcp", addr); err == nil {
		t.Error("expected dial to fail after shutdown")
	}
}
