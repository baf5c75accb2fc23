// Package catalog defines the Catalog value type: a point-in-time snapshot of
// a translation catalog mapping language code and key name to a string value.
//
// A Catalog is a plain value, not a handle to the database or the filesystem.
// Loaders build one, the diff engine compares two, and writers apply a merge
// plan against the store the snapshot was read from. Keeping the type dumb is
// what keeps the diff engine pure and re-runnable after partial failures.
//
// # Identity
//
// Every translation is addressed by an Identity (language code + key name).
// Within one catalog identities are unique. A missing translation is a missing
// identity, never an empty-string sentinel; the empty string is a valid value.
//
// # Namespaces
//
// Key names may carry a namespace prefix separated by ':' (e.g. "auth:login").
// SplitKey and JoinKey are the only functions that interpret that delimiter.
package catalog
