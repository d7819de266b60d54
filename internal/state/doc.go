// Package state provides the request state machines and the observable store
// shared by pantry's feature slices.
//
// # Overview
//
// Every asynchronous operation in pantry (loading meals, loading a recipe,
// reading favorites, loading the theme) is modelled by a Machine. A Machine
// exposes a Request snapshot:
//
//	idle ──Begin──> loading ──Resolve(ok)──> succeeded
//	                   │                         │
//	                   └──Resolve(err)──> failed ─┘──Begin──> loading
//	any ──Clear──> idle
//
// # Transition Rules
//
//   - Begin moves to Loading and clears the previous error.
//   - A successful Resolve stores the payload and clears the error.
//   - A failed Resolve stores a readable message (the machine's fallback when
//     the error has none) and keeps the last payload.
//   - Set applies a pushed payload as a success without taking a ticket.
//   - Clear returns to Idle and discards every in-flight request.
//   - Close tears the machine down; resolutions after Close are dropped.
//
// # Supersession
//
// Machines are fenced: each Begin hands out a ticket with a higher sequence
// number and Resolve ignores any ticket that is no longer the newest. If fetch
// A is issued, then fetch B, and A resolves after B, the machine shows B.
//
// Unfenced machines apply resolutions in arrival order instead, so the request
// that resolves last wins even if it was issued first.
//
// # Store
//
// Store is the one observable container per application instance. Machines
// notify it after each transition; the UI subscribes once and re-reads the
// snapshots it renders:
//
//	store := state.NewStore()
//	meals := state.NewMachine[[]mealdb.Summary](store, state.WithFallback("Failed to load meals"))
//	cancel := store.Subscribe(func() { changed <- struct{}{} })
//	defer cancel()
//
// Payloads are treated as values. Callers replace slices instead of mutating
// them in place, so a Snapshot stays valid after the machine moves on.
package state
