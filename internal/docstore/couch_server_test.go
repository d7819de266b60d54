package docstore

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeCouch serves the slice of the CouchDB HTTP API that Couch uses: database
// HEAD/PUT, document GET/PUT and normal or longpoll _changes.
type fakeCouch struct {
	mu           sync.Mutex
	dbs          map[string]bool
	createStatus int // status for database creation; 0 creates it
	docs         map[string]map[string]any
	gens         map[string]int
	log          []fakeChange
	wake         chan struct{}
	feedMode     string // "error" or "truncate" breaks longpoll requests
	creates      int
}

type fakeChange struct {
	seq     int
	id      string
	rev     string
	deleted bool
	doc     map[string]any
}

func newFakeCouch(t *testing.T) (*fakeCouch, *httptest.Server) {
	t.Helper()
	f := &fakeCouch{
		dbs:  map[string]bool{},
		docs: map[string]map[string]any{},
		gens: map[string]int{},
		wake: make(chan struct{}),
	}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeCouch) setFeedMode(mode string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.feedMode = mode
}

func (f *fakeCouch) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/"), "/", 2)
	if len(parts) == 1 || parts[1] == "" {
		f.serveDB(w, r, parts[0])
		return
	}
	if parts[1] == "_changes" {
		f.serveChanges(w, r)
		return
	}
	f.serveDoc(w, r, parts[1])
}

func (f *fakeCouch) serveDB(w http.ResponseWriter, r *http.Request, db string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch r.Method {
	case http.MethodHead:
		if f.dbs[db] {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	case http.MethodPut:
		f.creates++
		if f.createStatus != 0 {
			writeCouchError(w, f.createStatus, "file_exists", "The database could not be created.")
			return
		}
		f.dbs[db] = true
		writeCouchJSON(w, http.StatusCreated, map[string]any{"ok": true})
	default:
		writeCouchError(w, http.StatusMethodNotAllowed, "method_not_allowed", r.Method)
	}
}

func (f *fakeCouch) serveDoc(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		f.mu.Lock()
		doc, ok := f.docs[id]
		f.mu.Unlock()
		if !ok {
			writeCouchError(w, http.StatusNotFound, "not_found", "missing")
			return
		}
		w.Header().Set("ETag", strconv.Quote(doc["_rev"].(string)))
		writeCouchJSON(w, http.StatusOK, doc)

	case http.MethodPut:
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeCouchError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		rev, _ := body["_rev"].(string)
		if rev == "" {
			rev = r.URL.Query().Get("rev")
		}
		newRev, ok := f.put(id, rev, body)
		if !ok {
			writeCouchError(w, http.StatusConflict, "conflict", "Document update conflict.")
			return
		}
		w.Header().Set("ETag", strconv.Quote(newRev))
		writeCouchJSON(w, http.StatusCreated, map[string]any{"ok": true, "id": id, "rev": newRev})

	default:
		writeCouchError(w, http.StatusMethodNotAllowed, "method_not_allowed", r.Method)
	}
}

// put stores body when rev matches the current revision.
func (f *fakeCouch) put(id, rev string, body map[string]any) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	current := ""
	if doc, ok := f.docs[id]; ok {
		current, _ = doc["_rev"].(string)
	}
	if rev != current {
		return "", false
	}
	f.gens[id]++
	newRev := fmt.Sprintf("%d-fake", f.gens[id])
	body["_id"] = id
	body["_rev"] = newRev
	f.docs[id] = body
	f.record(fakeChange{id: id, rev: newRev, doc: body})
	return newRev, true
}

// remove deletes id the way CouchDB does: a new revision marked _deleted.
func (f *fakeCouch) remove(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gens[id]++
	rev := fmt.Sprintf("%d-fake", f.gens[id])
	delete(f.docs, id)
	f.record(fakeChange{id: id, rev: rev, deleted: true,
		doc: map[string]any{"_id": id, "_rev": rev, "_deleted": true}})
}

// record appends a change and wakes waiting longpoll requests. f.mu is held.
func (f *fakeCouch) record(ch fakeChange) {
	ch.seq = len(f.log) + 1
	f.log = append(f.log, ch)
	close(f.wake)
	f.wake = make(chan struct{})
}

func (f *fakeCouch) serveChanges(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	since := parseFakeSeq(q.Get("since"))
	ids := requestedDocIDs(r)

	f.mu.Lock()
	mode := f.feedMode
	f.mu.Unlock()
	if q.Get("feed") == "longpoll" {
		switch mode {
		case "error":
			writeCouchError(w, http.StatusInternalServerError, "unknown_error", "shutting down")
			return
		case "truncate":
			// Promise more than is sent so the connection drops mid-body.
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Content-Length", "4096")
			w.WriteHeader(http.StatusOK)
			_, _ = io.WriteString(w, `{"results":[`)
			return
		}
	}

	rows, last, wake := f.changesSince(since, ids)
	if len(rows) == 0 && q.Get("feed") == "longpoll" {
		select {
		case <-wake:
		case <-r.Context().Done():
			return
		case <-time.After(2 * time.Second):
		}
		rows, last, _ = f.changesSince(since, ids)
	}
	writeCouchJSON(w, http.StatusOK, map[string]any{
		"results":  rows,
		"last_seq": last,
		"pending":  0,
	})
}

// changesSince returns the newest change per document after since.
func (f *fakeCouch) changesSince(since int, ids map[string]bool) ([]map[string]any, string, <-chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()

	latest := map[string]fakeChange{}
	for _, ch := range f.log {
		if ch.seq > since && (ids == nil || ids[ch.id]) {
			latest[ch.id] = ch
		}
	}
	picked := make([]fakeChange, 0, len(latest))
	for _, ch := range latest {
		picked = append(picked, ch)
	}
	sort.Slice(picked, func(i, j int) bool { return picked[i].seq < picked[j].seq })

	rows := make([]map[string]any, 0, len(picked))
	for _, ch := range picked {
		row := map[string]any{
			"seq":     fakeSeq(ch.seq),
			"id":      ch.id,
			"changes": []map[string]string{{"rev": ch.rev}},
			"doc":     ch.doc,
		}
		if ch.deleted {
			row["deleted"] = true
		}
		rows = append(rows, row)
	}
	return rows, fakeSeq(max(since, len(f.log))), f.wake
}

func requestedDocIDs(r *http.Request) map[string]bool {
	var list []string
	if raw := r.URL.Query().Get("doc_ids"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			list = r.URL.Query()["doc_ids"]
		}
	}
	if r.Method == http.MethodPost {
		var body struct {
			DocIDs []string `json:"doc_ids"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil && len(body.DocIDs) > 0 {
			list = body.DocIDs
		}
	}
	if len(list) == 0 {
		return nil
	}
	ids := make(map[string]bool, len(list))
	for _, id := range list {
		ids[id] = true
	}
	return ids
}

func fakeSeq(n int) string {
	return fmt.Sprintf("%d-g1AAAA", n)
}

func parseFakeSeq(s string) int {
	head, _, _ := strings.Cut(s, "-")
	n, err := strconv.Atoi(head)
	if err != nil {
		return 0
	}
	return n
}

func writeCouchJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeCouchError(w http.ResponseWriter, status int, name, reason string) {
	writeCouchJSON(w, status, map[string]string{"error": name, "reason": reason})
}
