package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

const bucketDocs = "docs"

// Ensure Bolt implements Store at compile time.
var _ Store = (*Bolt)(nil)

// Bolt is a single-process document store in a bbolt file.
type Bolt struct {
	db *bolt.DB

	// writeMu keeps commit order and broadcast order identical.
	writeMu sync.Mutex

	mu       sync.Mutex
	watchers map[string]map[uint64]chan Change
	nextID   uint64
}

type boltRecord struct {
	Rev  string          `json:"rev"`
	Body json.RawMessage `json:"body"`
}

// OpenBolt opens (creating if needed) the document file at path.
func OpenBolt(path string) (*Bolt, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create docstore dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open docstore: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketDocs))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize docstore: %w", err)
	}
	return &Bolt{db: db, watchers: make(map[string]map[uint64]chan Change)}, nil
}

// Get reads id.
func (b *Bolt) Get(ctx context.Context, id string) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	snap := Snapshot{ID: id}
	err := b.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket([]byte(bucketDocs)).Get([]byte(id))
		if raw == nil {
			return nil
		}
		var rec boltRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return fmt.Errorf("decode %s: %w", id, err)
		}
		snap.Rev = rec.Rev
		snap.Exists = true
		snap.Body = append(json.RawMessage(nil), rec.Body...)
		return nil
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("get document: %w", err)
	}
	return snap, nil
}

// Put writes body when rev matches the stored revision.
func (b *Bolt) Put(ctx context.Context, id, rev string, body any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	encoded, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}

	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	var snap Snapshot
	err = b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketDocs))
		current := ""
		if raw := bucket.Get([]byte(id)); raw != nil {
			var rec boltRecord
			if err := json.Unmarshal(raw, &rec); err != nil {
				return fmt.Errorf("decode %s: %w", id, err)
			}
			current = rec.Rev
		}
		if current != rev {
			return ErrConflict
		}
		next := nextRev(current)
		raw, err := json.Marshal(boltRecord{Rev: next, Body: encoded})
		if err != nil {
			return err
		}
		if err := bucket.Put([]byte(id), raw); err != nil {
			return err
		}
		snap = Snapshot{ID: id, Rev: next, Exists: true, Body: encoded}
		return nil
	})
	if err != nil {
		if err == ErrConflict {
			return "", ErrConflict
		}
		return "", fmt.Errorf("put document: %w", err)
	}

	b.broadcast(snap)
	return snap.Rev, nil
}

// Watch streams id's current state and later writes.
func (b *Bolt) Watch(ctx context.Context, id string) (<-chan Change, error) {
	// Register before reading so a write between the two is not lost; a
	// duplicate delivery of the same revision is harmless.
	updates := make(chan Change, 16)
	b.mu.Lock()
	b.nextID++
	wid := b.nextID
	if b.watchers[id] == nil {
		b.watchers[id] = make(map[uint64]chan Change)
	}
	b.watchers[id][wid] = updates
	b.mu.Unlock()

	current, err := b.Get(ctx, id)
	if err != nil {
		b.unregister(id, wid)
		return nil, err
	}

	out := make(chan Change)
	go func() {
		defer close(out)
		defer b.unregister(id, wid)

		if current.Exists {
			select {
			case out <- Change{Snapshot: current}:
			case <-ctx.Done():
				return
			}
		}
		for {
			select {
			case <-ctx.Done():
				return
			case ch, ok := <-updates:
				if !ok {
					return
				}
				select {
				case out <- ch:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Close closes every watcher and the database.
func (b *Bolt) Close() error {
	b.mu.Lock()
	for id, ws := range b.watchers {
		for wid, ch := range ws {
			close(ch)
			delete(ws, wid)
		}
		delete(b.watchers, id)
	}
	b.mu.Unlock()
	return b.db.Close()
}

func (b *Bolt) unregister(id string, wid uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ws, ok := b.watchers[id]; ok {
		if ch, ok := ws[wid]; ok {
			close(ch)
			delete(ws, wid)
		}
		if len(ws) == 0 {
			delete(b.watchers, id)
		}
	}
}

func (b *Bolt) broadcast(snap Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.watchers[snap.ID] {
		select {
		case ch <- Change{Snapshot: snap}:
		default:
			// Slow watcher: drop the oldest pending change, the newest wins.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- Change{Snapshot: snap}:
			default:
			}
		}
	}
}

// nextRev mirrors CouchDB's "<generation>-<hash>" revision shape.
func nextRev(current string) string {
	gen := 0
	if head, _, ok := strings.Cut(current, "-"); ok {
		gen, _ = strconv.Atoi(head)
	}
	return fmt.Sprintf("%d-%s", gen+1, strings.ReplaceAll(uuid.NewString(), "-", ""))
}
