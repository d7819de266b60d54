// Package docstore is pantry's keyed document capability: read, revisioned
// write, and a change feed per document.
//
// Two backends implement Store. Couch talks to CouchDB through kivik and
// watches documents with a continuous _changes feed. Bolt keeps documents in
// a local bbolt file and fans changes out to in-process watchers; it backs the
// offline mode and the tests.
//
// Writes are compare-and-set on the revision string: Put with the revision a
// caller last read succeeds only if nobody wrote in between, otherwise it
// returns ErrConflict and the caller re-reads.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrConflict reports that a Put carried a stale revision.
var ErrConflict = errors.New("document update conflict")

// Snapshot is the state of one document at one revision.
type Snapshot struct {
	ID      string
	Rev     string
	Exists  bool
	Deleted bool
	Body    json.RawMessage
}

// Decode unmarshals the body into dest.
func (s Snapshot) Decode(dest any) error {
	if !s.Exists || len(s.Body) == 0 {
		return errors.New("document does not exist")
	}
	return json.Unmarshal(s.Body, dest)
}

// Change is one element of a watch stream. Err is set when the stream failed;
// the channel closes right after an error.
type Change struct {
	Snapshot Snapshot
	Err      error
}

// Store is the document capability.
type Store interface {
	// Get reads id. A missing document is a Snapshot with Exists false, not an error.
	Get(ctx context.Context, id string) (Snapshot, error)
	// Put writes body as id. rev must be the current revision, or empty to
	// create. It returns the new revision or ErrConflict.
	Put(ctx context.Context, id, rev string, body any) (string, error)
	// Watch streams the current state of id (when it exists) and every later
	// change until ctx is done. The channel is closed when the stream ends.
	Watch(ctx context.Context, id string) (<-chan Change, error)
	// Close releases the backend.
	Close() error
}
