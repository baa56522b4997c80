// Package persist is the durability collaborator: it loads the entity
// store from a JSON snapshot directory at startup and writes the store
// back to it periodically and once at shutdown.
//
// The snapshot is four files: Cities.json (the list of known cities, read
// only), Hotels.json, Users.json and Reviews.json. Writes go through a
// temp file plus rename, so the directory always holds a complete
// previous snapshot even if the process dies mid-write. Durability is
// bounded by the snapshot period; that is the accepted guarantee.
package persist
