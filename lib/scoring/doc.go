// Package scoring implements the pure score computations used by the
// ranking pass: per-category running means, the recency decay factor and
// the aggregate score combining average rate, recency-weighted rate and
// review quantity.
//
// The package holds no state and performs no I/O; all functions take the
// review list and, where time matters, the evaluation instant as explicit
// arguments, so the same inputs always produce the same outputs.
package scoring
