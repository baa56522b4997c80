// Package session implements the line protocol engine run once per
// connection.
//
// A session is a small state machine over the states USER_NOT_LOGGED,
// USER_LOGGED and EXIT. Each command line produces one response line of
// the form <state>,<content>, where newlines inside the content are
// escaped with a literal marker so the response stays a single line. The
// state tag lets the counterpart track its own status without a separate
// query.
//
// While logged in, the session doubles as a notification subscriber: the
// ranking fan-out pushes updates into a lock-free inbox, and the session
// drains and writes them out as extra response lines after each command.
// Commands within one session are strictly ordered; the inbox is the only
// point touched by other goroutines.
package session
