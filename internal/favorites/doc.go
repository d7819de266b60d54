// Package favorites keeps the per-installation favorites document in sync.
//
// Repository is the adapter over a docstore.Store: one document per
// installation identifier, holding an ordered set of Records keyed by meal id.
// Writes are compare-and-set on the document revision; a conflicting write
// re-reads the document and re-applies the change.
//
// Controller owns the favorite flag shown on a recipe's detail view and
// toggles it pessimistically: the flag only flips after the store confirms.
//
// List owns the favorites view. It mounts one realtime Subscription whose
// pushes replace the whole list, offers a one-shot Refresh, and removes items
// through its own machine with an immediate local filter.
package favorites
