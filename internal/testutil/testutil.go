// Package testutil provides an in-memory archival backend for tests: a chi
// router over httptest with a uri-keyed record store, session login, and the
// handful of structured endpoints the toolkit consumes.
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/starford/fonds/internal/aspace"
	"github.com/starford/fonds/internal/models"
)

// SessionToken is the token the fake login endpoint issues.
const SessionToken = "test-session-token"

// Backend is a scriptable stand-in for the archival description backend.
type Backend struct {
	Server *httptest.Server

	mu            sync.Mutex
	records       map[string]json.RawMessage
	trees         map[string]json.RawMessage
	containerRefs map[string][]string
	posts         map[string]int
	deleted       []string
}

// NewBackend starts a fake backend and registers shutdown with t.Cleanup.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{
		records:       make(map[string]json.RawMessage),
		trees:         make(map[string]json.RawMessage),
		containerRefs: make(map[string][]string),
		posts:         make(map[string]int),
	}

	r := chi.NewRouter()
	r.Post("/users/{username}/login", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"session": SessionToken})
	})
	r.Get("/repositories/{repo}/resources/{id}/tree", b.handleTree)
	r.Get("/repositories/{repo}/metadata_for_container/{id}", b.handleContainerMetadata)
	r.NotFound(b.handleRecord)
	r.MethodNotAllowed(b.handleRecord)

	b.Server = httptest.NewServer(r)
	t.Cleanup(b.Server.Close)
	return b
}

// Client logs an aspace client into the fake backend.
func (b *Backend) Client(t *testing.T) *aspace.Client {
	t.Helper()
	c, err := aspace.New(context.Background(), aspace.Config{
		BaseURL:    b.Server.URL,
		Username:   "admin",
		Password:   "admin",
		Repository: 2,
	})
	if err != nil {
		t.Fatalf("testutil: login: %v", err)
	}
	return c
}

// PutRecord stores doc at uri, replacing any previous document.
func (b *Backend) PutRecord(t *testing.T, uri string, doc any) {
	t.Helper()
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("testutil: encode record %s: %v", uri, err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records[uri] = data
}

// SetTree installs the tree projection served for a resource.
func (b *Backend) SetTree(t *testing.T, resourceID int, root models.TreeNode) {
	t.Helper()
	data, err := json.Marshal(root)
	if err != nil {
		t.Fatalf("testutil: encode tree: %v", err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.trees[fmt.Sprintf("/repositories/2/resources/%d/tree", resourceID)] = data
}

// SetContainerRefs scripts the metadata_for_container response for a
// container id.
func (b *Backend) SetContainerRefs(containerID int, archivalObjectURIs ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	uri := fmt.Sprintf("/repositories/2/metadata_for_container/%d", containerID)
	b.containerRefs[uri] = archivalObjectURIs
}

// Record decodes the stored document at uri for assertions.
func (b *Backend) Record(t *testing.T, uri string) *models.Record {
	t.Helper()
	b.mu.Lock()
	data, ok := b.records[uri]
	b.mu.Unlock()
	if !ok {
		t.Fatalf("testutil: no record stored at %s", uri)
	}
	var rec models.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("testutil: decode record %s: %v", uri, err)
	}
	return &rec
}

// Has reports whether a document exists at uri.
func (b *Backend) Has(uri string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.records[uri]
	return ok
}

// PostCount returns how many writes uri has received.
func (b *Backend) PostCount(uri string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.posts[uri]
}

// Deleted returns the uris deleted so far, in order.
func (b *Backend) Deleted() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.deleted...)
}

func (b *Backend) authorized(r *http.Request) bool {
	return r.Header.Get(aspace.SessionHeader) == SessionToken
}

func (b *Backend) handleTree(w http.ResponseWriter, r *http.Request) {
	if !b.authorized(r) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "session required"})
		return
	}
	b.mu.Lock()
	data, ok := b.trees[r.URL.Path]
	b.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "tree not found"})
		return
	}
	writeRaw(w, data)
}

func (b *Backend) handleContainerMetadata(w http.ResponseWriter, r *http.Request) {
	if !b.authorized(r) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "session required"})
		return
	}
	b.mu.Lock()
	uris, ok := b.containerRefs[r.URL.Path]
	b.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "container not found"})
		return
	}
	links := make([]map[string]string, 0, len(uris))
	for _, u := range uris {
		links = append(links, map[string]string{"archival_object_uri": u})
	}
	writeJSON(w, http.StatusOK, map[string]any{"archival_objects": links})
}

// handleRecord is the generic uri-keyed store behind every other route.
func (b *Backend) handleRecord(w http.ResponseWriter, r *http.Request) {
	if !b.authorized(r) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "session required"})
		return
	}
	uri := r.URL.Path

	switch r.Method {
	case http.MethodGet:
		b.mu.Lock()
		data, ok := b.records[uri]
		b.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
			return
		}
		writeRaw(w, data)

	case http.MethodPost:
		var doc json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		b.mu.Lock()
		b.records[uri] = doc
		b.posts[uri]++
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]string{"status": "Updated", "uri": uri})

	case http.MethodDelete:
		b.mu.Lock()
		_, ok := b.records[uri]
		if ok {
			delete(b.records, uri)
			b.deleted = append(b.deleted, uri)
		}
		b.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "Deleted", "uri": uri})

	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRaw(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
