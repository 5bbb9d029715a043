// Package bulk implements the multi-node maintenance operations: container
// merges, restriction-unpublishing sweeps, and orphan association cleanup.
//
// Every operation here is a best-effort sequence of independent full-record
// writes. The backend offers no transaction around them: a failure mid-sweep
// propagates immediately and leaves the already-written records written.
// Callers that need to recover re-run the operation; each step is
// conditional on current record state, so re-running is safe.
package bulk

import (
	"log/slog"

	"github.com/starford/fonds/internal/aspace"
	"github.com/starford/fonds/internal/progress"
)

// ChangeEntry is one line of the ordered change log a sweep returns.
type ChangeEntry struct {
	URI         string `json:"uri"`
	Title       string `json:"title"`
	Restriction string `json:"restriction"`
}

// Service runs bulk maintenance against one backend connection. Operations
// are strictly sequential: one in-flight round trip at a time, writes in
// tree pre-order.
type Service struct {
	client   *aspace.Client
	log      *slog.Logger
	progress *progress.Broker
}

// NewService creates a bulk maintenance service. The broker may be nil when
// no live progress is wanted.
func NewService(client *aspace.Client, logger *slog.Logger, broker *progress.Broker) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, log: logger, progress: broker}
}
