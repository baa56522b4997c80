// Package transport accepts TCP connections and hands each one to its own
// session engine goroutine. Shutdown is two-phase: close the listener so
// no new connections arrive, then wait a bounded time for in-flight
// sessions to reach their natural end.
package transport
