package bulk

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/starford/fonds/internal/progress"
)

// MergeTopContainers repoints every instance referencing the source
// container at the target container, then deletes the source. On success the
// source has no remaining referencing instances and no longer exists.
//
// The repoint-and-write loop is not atomic: failing partway leaves the
// already-repointed objects repointed and the source undeleted. That is the
// intended policy; the source is only deleted after every referencing object
// has been processed.
func (s *Service) MergeTopContainers(ctx context.Context, sourceID, targetID int) error {
	meta, err := s.client.MetadataForContainer(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("bulk: list objects for container %d: %w", sourceID, err)
	}

	sourceURI := s.client.TopContainerURI(sourceID)
	targetURI := s.client.TopContainerURI(targetID)

	for _, link := range meta.ArchivalObjects {
		rec, err := s.client.RecordByURI(ctx, link.ArchivalObjectURI)
		if err != nil {
			return fmt.Errorf("bulk: fetch %s: %w", link.ArchivalObjectURI, err)
		}
		repointed := 0
		for i := range rec.Instances {
			inst := &rec.Instances[i]
			if inst.SubContainer != nil && inst.SubContainer.TopContainer != nil &&
				inst.SubContainer.TopContainer.Ref == sourceURI {
				inst.SubContainer.TopContainer.Ref = targetURI
				repointed++
			}
		}
		if err := s.client.UpdateRecord(ctx, link.ArchivalObjectURI, rec); err != nil {
			return fmt.Errorf("bulk: write %s: %w", link.ArchivalObjectURI, err)
		}
		s.log.Info("repointed container instances",
			slog.String("uri", link.ArchivalObjectURI),
			slog.Int("instances", repointed))
		s.progress.Publish(progress.Event{Op: progress.OpMerge, URI: link.ArchivalObjectURI, Detail: "repointed"})
	}

	if err := s.client.Delete(ctx, sourceURI); err != nil {
		return fmt.Errorf("bulk: delete source container %s: %w", sourceURI, err)
	}
	s.log.Info("merged top container",
		slog.String("source", sourceURI),
		slog.String("target", targetURI))
	return nil
}
