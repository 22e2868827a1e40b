// Package patch implements the patch note crawler: it discovers update
// documents on the public news index, parses them into per-entity balance
// changes, and synchronizes new versions into the relational store. Sync is
// incremental and idempotent; already-persisted versions are never refetched
// or duplicated.
package patch
