// Package reconcile implements the catalog diff and merge engine.
//
// It compares two catalog snapshots, classifies every (language, key) pair
// into disjoint change categories, resolves value conflicts through a
// pluggable policy, and materializes the outcome as a merge plan of upserts
// and deletes.
//
// # Pipeline
//
//	Loader -> Diff -> Resolver -> BuildPlan -> Writer
//
// Diff and BuildPlan are pure functions with deterministic, sorted output;
// they hold no state between calls and are safe for concurrent use on
// independent inputs. All I/O, retries, and the optimistic staleness check
// live in Service, which is shared by the branch-to-branch HTTP API and the
// local-directory sync CLI so both call sites behave identically.
//
// # Conflict policy
//
// Every value divergence is a conflict requiring an explicit resolution:
// forced (ForceSource, ForceTarget) or interactive (InteractiveResolver with
// a Prompter). A merge with undecided conflicts fails with *UnresolvedError
// and writes nothing; a cancelled interactive session is a clean no-op.
//
// # Idempotence
//
// Write failures are recovered by re-running the whole pipeline from the
// load step, never by resuming a remembered partial plan. Re-applying an
// already-applied upsert is a no-op on the next diff, so retries are cheap
// and safe.
package reconcile
