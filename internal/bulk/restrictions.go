package bulk

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/starford/fonds/internal/apperr"
	"github.com/starford/fonds/internal/display"
	"github.com/starford/fonds/internal/models"
	"github.com/starford/fonds/internal/progress"
	"github.com/starford/fonds/internal/tree"
)

// UnpublishExpiredRestrictions sweeps every descendant of a resource and
// unpublishes published access-restriction notes whose embedded normalized
// end date has passed. It returns an ordered log of every note it
// unpublished.
//
// The date comparison is lexical, which is exact for the fixed-width
// zero-padded ISO form the backend normalizes to.
func (s *Service) UnpublishExpiredRestrictions(ctx context.Context, resourceID int) ([]ChangeEntry, error) {
	today := time.Now().Format("2006-01-02")
	return s.sweepRestrictions(ctx, resourceID, progress.OpExpiry, func(text string) bool {
		normal, ok := display.RestrictionEndDate(text)
		return ok && normal < today
	})
}

// UnpublishRestrictionsByText sweeps every descendant of a resource and
// unpublishes published access-restriction notes whose formatted text
// exactly equals restrictionText. An empty restrictionText performs no
// scan and reports apperr.ErrNoRestrictionText.
func (s *Service) UnpublishRestrictionsByText(ctx context.Context, resourceID int, restrictionText string) ([]ChangeEntry, error) {
	if restrictionText == "" {
		return nil, apperr.ErrNoRestrictionText
	}
	return s.sweepRestrictions(ctx, resourceID, progress.OpTextMatch, func(text string) bool {
		return text == restrictionText
	})
}

// sweepRestrictions is the shared shape of both sweeps: flatten the tree,
// fetch each node, unpublish matching published accessrestrict notes, and
// write each changed record back exactly once.
func (s *Service) sweepRestrictions(ctx context.Context, resourceID int, op string, shouldUnpublish func(text string) bool) ([]ChangeEntry, error) {
	root, err := s.client.ResourceTree(ctx, resourceID)
	if err != nil {
		return nil, fmt.Errorf("bulk: fetch tree for resource %d: %w", resourceID, err)
	}
	uris := tree.FlattenURIs(root.Children)

	changeLog := []ChangeEntry{}
	for _, uri := range uris {
		rec, err := s.client.RecordByURI(ctx, uri)
		if err != nil {
			// Abort, keeping the log of mutations already applied.
			return changeLog, fmt.Errorf("bulk: fetch %s: %w", uri, err)
		}

		changed := false
		for i := range rec.Notes {
			note := &rec.Notes[i]
			if note.Type != models.NoteTypeAccessRestrict || !note.Publish {
				continue
			}
			text := display.FormatNote(*note)
			if !shouldUnpublish(text) {
				continue
			}
			note.Publish = false
			changed = true
			changeLog = append(changeLog, ChangeEntry{URI: uri, Title: rec.DisplayString, Restriction: text})
			s.log.Info("unpublished restriction",
				slog.String("op", op),
				slog.String("uri", uri))
			s.progress.Publish(progress.Event{Op: op, URI: uri, Detail: text})
		}

		if changed {
			if err := s.client.UpdateRecord(ctx, uri, rec); err != nil {
				return changeLog, fmt.Errorf("bulk: write %s: %w", uri, err)
			}
		}
	}
	return changeLog, nil
}
