// Package ranking implements the periodic ranking engine.
//
// Each pass walks every city, recomputes the aggregate score and category
// means of every reviewed hotel from its full review list, re-sorts the
// city descending by score and diffs the leading positions against the
// previous pass. A change of the top hotel or of any of the first three
// positions produces one Event per city, handed to the notify sinks.
//
// All recency decay within a pass is anchored to a single timestamp taken
// when the pass starts, so hotels are compared under identical conditions.
package ranking
