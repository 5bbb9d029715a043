package bulk

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/starford/fonds/internal/models"
	"github.com/starford/fonds/internal/progress"
	"github.com/starford/fonds/internal/tree"
)

// RemoveResourceAssociations deletes the digital objects and top containers
// attached to a resource's descendants, provided the resource is their sole
// owner: a digital object with exactly one linked instance, a top container
// collected by exactly one resource. Shared objects are silently skipped so
// other collections keep their attachments.
func (s *Service) RemoveResourceAssociations(ctx context.Context, resourceID int) error {
	root, err := s.client.ResourceTree(ctx, resourceID)
	if err != nil {
		return fmt.Errorf("bulk: fetch tree for resource %d: %w", resourceID, err)
	}
	nodeURIs := tree.FindNodesWithInstances(root.Children, "")

	// De-duplicated in first-reference order: a container attached to many
	// descendants is considered once.
	seen := map[string]bool{}
	var targets []string
	for _, uri := range nodeURIs {
		rec, err := s.client.RecordByURI(ctx, uri)
		if err != nil {
			return fmt.Errorf("bulk: fetch %s: %w", uri, err)
		}
		for _, ref := range instanceRefs(rec, "") {
			if seen[ref] {
				continue
			}
			seen[ref] = true
			targets = append(targets, ref)
		}
	}

	for _, uri := range targets {
		if err := s.deleteIfSoleOwner(ctx, uri); err != nil {
			return err
		}
	}
	return nil
}

// deleteIfSoleOwner fetches a referenced object and deletes it only when no
// other record shares it.
func (s *Service) deleteIfSoleOwner(ctx context.Context, uri string) error {
	rec, err := s.client.RecordByURI(ctx, uri)
	if err != nil {
		return fmt.Errorf("bulk: fetch %s: %w", uri, err)
	}

	var sole bool
	switch {
	case strings.Contains(uri, "digital_objects"):
		sole = len(rec.LinkedInstances) == 1
	case strings.Contains(uri, "top_containers"):
		sole = len(rec.Collection) == 1
	default:
		return nil
	}
	if !sole {
		return nil
	}

	if err := s.client.Delete(ctx, uri); err != nil {
		return fmt.Errorf("bulk: delete %s: %w", uri, err)
	}
	s.log.Info("deleted orphaned association", slog.String("uri", uri))
	s.progress.Publish(progress.Event{Op: progress.OpCleanup, URI: uri, Detail: "deleted"})
	return nil
}

// instanceRefs resolves a record's instances to target uris, optionally
// filtered by instance type.
func instanceRefs(rec *models.Record, instanceType string) []string {
	var refs []string
	for _, inst := range rec.Instances {
		if instanceType != "" && inst.InstanceType != instanceType {
			continue
		}
		if ref := inst.TargetRef(); ref != "" {
			refs = append(refs, ref)
		}
	}
	return refs
}
