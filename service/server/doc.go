// Package server boots and runs the whole hotelier server process: entity
// store, data loading, ranking and persistence schedulers, notification
// fan-out, metrics endpoint and the TCP session dispatcher, plus the
// signal-driven shutdown sequence ending in a final snapshot.
package server
