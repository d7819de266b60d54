package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-kivik/kivik/v4"
	_ "github.com/go-kivik/kivik/v4/couchdb" // registers the "couch" driver
)

// Ensure Couch implements Store at compile time.
var _ Store = (*Couch)(nil)

// CouchConfig locates a CouchDB database.
type CouchConfig struct {
	URL      string
	User     string
	Password string
	Database string
}

// Couch is a Store backed by one CouchDB database.
type Couch struct {
	client *kivik.Client
	db     *kivik.DB
}

// longpollMillis bounds how long CouchDB holds an idle longpoll request.
const longpollMillis = 60000

// OpenCouch connects to CouchDB and creates the database when it is missing.
func OpenCouch(ctx context.Context, cfg CouchConfig) (*Couch, error) {
	dsn, err := couchDSN(cfg)
	if err != nil {
		return nil, err
	}
	client, err := kivik.New("couch", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to couchdb: %w", err)
	}

	exists, err := client.DBExists(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("check database existence: %w", err)
	}
	if !exists {
		if err := client.CreateDB(ctx, cfg.Database); err != nil && kivik.HTTPStatus(err) != http.StatusPreconditionFailed {
			return nil, fmt.Errorf("create database: %w", err)
		}
	}

	return &Couch{client: client, db: client.DB(cfg.Database)}, nil
}

// Get reads id.
func (c *Couch) Get(ctx context.Context, id string) (Snapshot, error) {
	var body json.RawMessage
	if err := c.db.Get(ctx, id).ScanDoc(&body); err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return Snapshot{ID: id}, nil
		}
		return Snapshot{}, fmt.Errorf("get document: %w", err)
	}
	return couchSnapshot(id, body, false), nil
}

// Put writes body with rev as the expected current revision.
func (c *Couch) Put(ctx context.Context, id, rev string, body any) (string, error) {
	doc, err := toFields(body)
	if err != nil {
		return "", err
	}
	delete(doc, "_rev")
	if rev != "" {
		doc["_rev"] = rev
	}

	newRev, err := c.db.Put(ctx, id, doc)
	if err != nil {
		if kivik.HTTPStatus(err) == http.StatusConflict {
			return "", ErrConflict
		}
		return "", fmt.Errorf("put document: %w", err)
	}
	return newRev, nil
}

// Watch follows id through the _changes feed. A normal request starting at
// since=0 with a _doc_ids filter delivers the current revision; longpoll
// requests then resume from the last sequence seen.
func (c *Couch) Watch(ctx context.Context, id string) (<-chan Change, error) {
	changes := c.changes(ctx, id, "normal", "0")
	if err := changes.Err(); err != nil {
		_ = changes.Close()
		return nil, fmt.Errorf("open changes feed: %w", err)
	}

	out := make(chan Change)
	go func() {
		defer close(out)
		defer func() {
			// The driver panics on some truncated feeds.
			if r := recover(); r != nil && ctx.Err() == nil {
				send(ctx, out, Change{Err: fmt.Errorf("changes feed: %v", r)})
			}
		}()

		since := "0"
		for {
			next, err := c.drain(ctx, changes, out)
			_ = changes.Close()
			if err != nil {
				if ctx.Err() == nil {
					send(ctx, out, Change{Err: fmt.Errorf("changes feed: %w", err)})
				}
				return
			}
			if ctx.Err() != nil {
				return
			}
			if next != "" {
				since = next
			}
			changes = c.changes(ctx, id, "longpoll", since)
		}
	}()
	return out, nil
}

func (c *Couch) changes(ctx context.Context, id, feed, since string) *kivik.Changes {
	return c.db.Changes(ctx, kivik.Params(map[string]interface{}{
		"feed":         feed,
		"since":        since,
		"include_docs": true,
		"filter":       "_doc_ids",
		"doc_ids":      []string{id},
		"timeout":      longpollMillis,
	}))
}

// drain forwards one batch of the feed and returns the sequence to resume
// from.
func (c *Couch) drain(ctx context.Context, changes *kivik.Changes, out chan<- Change) (string, error) {
	var since string
	for changes.Next() {
		var body json.RawMessage
		if err := changes.ScanDoc(&body); err != nil {
			return "", fmt.Errorf("decode change: %w", err)
		}
		snap := couchSnapshot(changes.ID(), body, changes.Deleted())
		if revs := changes.Changes(); len(revs) > 0 {
			snap.Rev = revs[0]
		}
		if !send(ctx, out, Change{Snapshot: snap}) {
			return "", nil
		}
		if seq := changes.Seq(); seq != "" {
			since = seq
		}
	}
	if err := changes.Err(); err != nil {
		return "", err
	}
	if meta, err := changes.Metadata(); err == nil && meta.LastSeq != "" {
		since = meta.LastSeq
	}
	return since, nil
}

// Close releases the client's connections.
func (c *Couch) Close() error {
	return c.client.Close()
}

func send(ctx context.Context, out chan<- Change, ch Change) bool {
	select {
	case out <- ch:
		return true
	case <-ctx.Done():
		return false
	}
}

func couchSnapshot(id string, body json.RawMessage, deleted bool) Snapshot {
	var meta struct {
		ID  string `json:"_id"`
		Rev string `json:"_rev"`
	}
	_ = json.Unmarshal(body, &meta)
	if meta.ID != "" {
		id = meta.ID
	}
	return Snapshot{
		ID:      id,
		Rev:     meta.Rev,
		Exists:  !deleted && len(body) > 0,
		Deleted: deleted,
		Body:    body,
	}
}

func toFields(body any) (map[string]interface{}, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	fields := map[string]interface{}{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("document must be a JSON object: %w", err)
	}
	return fields, nil
}

func couchDSN(cfg CouchConfig) (string, error) {
	raw := strings.TrimSpace(cfg.URL)
	if raw == "" {
		return "", fmt.Errorf("couchdb url is empty")
	}
	if strings.TrimSpace(cfg.Database) == "" {
		return "", fmt.Errorf("couchdb database is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse couchdb url %q: %w", raw, err)
	}
	if cfg.User != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	}
	return u.String(), nil
}
