// Package entities defines the domain types shared by the store, the
// ranking engine, the session protocol and the persistence layer.
//
// The types mirror the on-disk JSON snapshot format directly (see the
// persist package), so the json tags are part of the durable format and
// must not change without a migration.
//
// Derived data rules:
//
//   - User.ExperienceLevel is a pure function of User.NumReviews
//     (TierForCount) and is recomputed whenever the count changes.
//   - Hotel.Rate and Hotel.Ratings are recomputed only by the periodic
//     ranking pass, never by session handlers.
//   - Review values are immutable once created.
package entities
