// Package eadwatch watches a drop directory for EAD finding-aid files and
// imports each one as a new resource through the backend's converter plugin.
package eadwatch

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/fonds/internal/progress"
)

// Importer is the slice of the backend client the watcher needs.
type Importer interface {
	ConvertEAD(ctx context.Context, ead io.Reader) (json.RawMessage, error)
	CreateResource(ctx context.Context, body json.RawMessage) (string, error)
}

// Watcher imports EAD files dropped into a directory. Files are keyed by
// content digest so rewrites of identical content are imported once.
type Watcher struct {
	client   Importer
	dropDir  string
	log      *slog.Logger
	progress *progress.Broker

	imported map[string]string // path -> content digest
}

// New builds a watcher over dropDir. A nil logger falls back to
// slog.Default.
func New(client Importer, dropDir string, logger *slog.Logger, broker *progress.Broker) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		client:   client,
		dropDir:  dropDir,
		log:      logger,
		progress: broker,
		imported: make(map[string]string),
	}
}

// Run processes drop-directory events until ctx is cancelled. Files already
// present at startup are imported first, then fsnotify events drive the
// rest. Write events are settled briefly before reading so partially
// written drops are not imported mid-copy.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("eadwatch: start watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dropDir); err != nil {
		return fmt.Errorf("eadwatch: watch %s: %w", w.dropDir, err)
	}

	w.log.Info("eadwatch: started", slog.String("dir", w.dropDir))
	w.importExisting(ctx)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("eadwatch: stopped")
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !isEADFile(ev.Name) {
				continue
			}
			settle(ctx, 200*time.Millisecond)
			if err := w.importFile(ctx, ev.Name); err != nil {
				w.log.Warn("eadwatch: import failed",
					slog.String("path", ev.Name),
					slog.String("error", err.Error()))
			}

		case watchErr, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Error("eadwatch: error", slog.String("error", watchErr.Error()))
		}
	}
}

// importExisting sweeps files already sitting in the drop directory.
func (w *Watcher) importExisting(ctx context.Context) {
	entries, err := os.ReadDir(w.dropDir)
	if err != nil {
		w.log.Warn("eadwatch: read drop dir failed", slog.String("error", err.Error()))
		return
	}
	for _, e := range entries {
		if e.IsDir() || !isEADFile(e.Name()) {
			continue
		}
		path := filepath.Join(w.dropDir, e.Name())
		if err := w.importFile(ctx, path); err != nil {
			w.log.Warn("eadwatch: import failed",
				slog.String("path", path),
				slog.String("error", err.Error()))
		}
	}
}

// importFile converts one EAD file and creates the resulting resource,
// skipping content already imported under the same path.
func (w *Watcher) importFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	digest := sum(data)
	if w.imported[path] == digest {
		w.log.Debug("eadwatch: unchanged, skipping", slog.String("path", path))
		return nil
	}

	converted, err := w.client.ConvertEAD(ctx, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}
	body, err := firstDocument(converted)
	if err != nil {
		return err
	}
	uri, err := w.client.CreateResource(ctx, body)
	if err != nil {
		return fmt.Errorf("create resource: %w", err)
	}

	w.imported[path] = digest
	w.log.Info("eadwatch: imported resource",
		slog.String("path", path),
		slog.String("uri", uri))
	w.progress.Publish(progress.Event{Op: progress.OpEADImport, URI: uri, Detail: filepath.Base(path)})
	return nil
}

// firstDocument unwraps the converter response, which arrives either as a
// single document or as an array holding one document per finding aid.
func firstDocument(raw json.RawMessage) (json.RawMessage, error) {
	trimmed := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(trimmed, "[") {
		return raw, nil
	}
	var docs []json.RawMessage
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("decode converted documents: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("converter returned no documents")
	}
	return docs[0], nil
}

func isEADFile(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".xml")
}

func sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// settle waits out a short quiet period, returning early on cancellation.
func settle(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
