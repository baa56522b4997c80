// Package notify implements the two push channels fed by the ranking
// engine.
//
// The broadcast channel (MulticastSink) announces a change of a city's
// top-ranked hotel as a single UDP datagram to a multicast group, so any
// interested party can listen without ever talking to the server.
//
// The targeted channel (Registry) delivers the full new top-3 of a city to
// every currently subscribed session. Sessions subscribe with a
// non-blocking ISubscriber handle; delivery failures are counted and
// dropped rather than propagated to the ranking pass.
//
// Both channels consume the same Event stream and independently decide
// which events concern them.
package notify
