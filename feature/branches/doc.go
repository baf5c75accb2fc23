// Package branches implements server-side branch reconciliation.
//
// A branch holds a translation catalog: for every language, a set of keys
// mapped to their current values. This package exposes the diff/review/merge
// workflow over HTTP on top of the `core/reconcile` engine:
//  1. Diff two branch catalogs into added, removed, and conflicting keys.
//  2. Review conflicts client-side and collect explicit resolutions.
//  3. Merge with those resolutions; the merge refuses to write anything
//     while any conflict is still undecided.
//
// Writes are optimistic: every upsert and delete is conditioned on the value
// observed when the plan was built, so a concurrent edit of the target branch
// aborts the transaction instead of being silently overwritten.
//
// # Components
//
//   - Store: GORM-backed branch and translation persistence.
//   - Service: Orchestrates loading, diffing, and merge execution.
//   - SnapshotArchiver: Archives the target catalog to object storage
//     before a destructive merge; lists, restores, and prunes those copies.
//   - Handler: Exposes HTTP endpoints for listing, diffing, and merging.
//   - Feature: Registers the feature with the application.
//
// # HTTP Endpoints
//
//   - GET  /branches : List branches, optionally filtered by space.
//   - POST /branches : Create a branch.
//   - GET  /branches/:id/catalog : Full catalog of a branch.
//   - GET  /branches/:id/diff/:targetID : Diff two branches.
//   - POST /branches/:id/merge : Merge a source branch into :id.
//   - GET  /branches/:id/archives : List stored snapshots of a branch.
//   - GET  /branches/:id/archives/:name : Restore one stored snapshot.
//   - DELETE /branches/:id/archives/:name : Delete one stored snapshot.
//   - POST /branches/:id/archives/prune : Drop all but the newest snapshots.
package branches
