// Package store provides the concurrent in-memory entity store shared by
// all sessions, the ranking pass and the persistence task.
//
// The store wraps three concurrent maps:
//
//   - users, keyed by username
//   - hotel lists, keyed by city
//   - review lists, keyed by the composite "hotelName_city" key
//
// List values are copy-on-write: mutations build a new slice inside an
// atomic compute step and swap it in whole, so a reader either sees the
// list before the mutation or after it, never in between. This gives
// per-entity atomicity without any global lock; cross-entity invariants
// (the experience tier implied by a user's review count) are maintained by
// deriving them inside the single-entity mutation that changes the count.
//
// No method hands out a reference to an internal collection: accessors
// return fresh copies that the caller may keep or mutate freely.
package store
