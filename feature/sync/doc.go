// Package sync implements client-side reconciliation of a local translation
// directory against a server branch.
//
// The local directory holds one flat JSON file per language (en.json,
// de.json, ...), each mapping translation keys to values. The directory is
// loaded into a catalog and pushed through the same diff/resolve/merge
// pipeline the server uses for branch merges, so both paths classify and
// apply changes identically.
//
// Conflicts are either forced to the local value (force-local mode) or
// decided one by one on the terminal (interactive mode). Cancelling an
// interactive session leaves the branch untouched.
package sync
