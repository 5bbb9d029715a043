// Package hierarchy reconstructs display metadata that lives spread across a
// record's ancestor chain. Every step up the chain is one backend fetch;
// nothing is cached between calls.
package hierarchy

import (
	"context"
	"fmt"
	"strings"

	"github.com/starford/fonds/internal/apperr"
	"github.com/starford/fonds/internal/display"
	"github.com/starford/fonds/internal/models"
)

// DefaultDelimiter separates ancestor titles in a hierarchy string.
const DefaultDelimiter = ">"

// Fetcher is the single record lookup the resolver needs. *aspace.Client
// satisfies it.
type Fetcher interface {
	RecordByURI(ctx context.Context, uri string) (*models.Record, error)
}

// Resolver walks parent references upward, composing per-record formatting
// along the way.
type Resolver struct {
	fetch Fetcher
}

// NewResolver returns a resolver over the given fetcher.
func NewResolver(f Fetcher) *Resolver {
	return &Resolver{fetch: f}
}

// DisplayString synthesizes the human-readable label for a record. Title
// wins; dates are appended when present. A dateless title stands alone. A
// titleless dated record renders its dates, optionally prefixed by the
// parent's stored display string (not recomputed) when addParentTitle is
// set. A record with neither yields the empty string.
func (r *Resolver) DisplayString(ctx context.Context, rec *models.Record, addParentTitle bool) (string, error) {
	hasTitle := rec.Title != ""
	hasDates := len(rec.Dates) > 0

	switch {
	case hasTitle && hasDates:
		return display.SanitizeTitle(rec.Title) + ", " + display.FormatDates(rec.Dates), nil
	case hasTitle:
		return display.SanitizeTitle(rec.Title), nil
	case hasDates:
		if addParentTitle && rec.Parent != nil && rec.Parent.Ref != "" {
			parent, err := r.fetch.RecordByURI(ctx, rec.Parent.Ref)
			if err != nil {
				return "", err
			}
			return display.SanitizeTitle(parent.DisplayString) + ", " + display.FormatDates(rec.Dates), nil
		}
		return display.FormatDates(rec.Dates), nil
	}
	return "", nil
}

// Build walks the parent chain to the root and joins each ancestor's display
// string, oldest first, with " <delimiter> ". A record with no parent yields
// the empty string. The walk keeps a visited set: the backend promises
// acyclic chains but does not enforce them, and a cycle here means looping
// forever on network calls.
func (r *Resolver) Build(ctx context.Context, rec *models.Record, delimiter string) (string, error) {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}

	visited := map[string]bool{rec.URI: true}
	var titles []string
	node := rec

	for node.Parent != nil && node.Parent.Ref != "" {
		ref := node.Parent.Ref
		if visited[ref] {
			return "", fmt.Errorf("hierarchy: walking parents of %s at %s: %w", rec.URI, ref, apperr.ErrCycleDetected)
		}
		visited[ref] = true

		parent, err := r.fetch.RecordByURI(ctx, ref)
		if err != nil {
			return "", err
		}
		title, err := r.DisplayString(ctx, parent, false)
		if err != nil {
			return "", err
		}
		titles = append(titles, title)
		node = parent
	}

	if len(titles) == 0 {
		return "", nil
	}
	for i, j := 0, len(titles)-1; i < j; i, j = i+1, j-1 {
		titles[i], titles[j] = titles[j], titles[i]
	}
	return strings.Join(titles, " "+delimiter+" "), nil
}

// MostProximateDate formats the dates of the record itself, or of the
// nearest ancestor that has any. A fully dateless chain yields the empty
// string.
func (r *Resolver) MostProximateDate(ctx context.Context, rec *models.Record) (string, error) {
	visited := map[string]bool{rec.URI: true}
	node := rec

	for len(node.Dates) == 0 && node.Parent != nil && node.Parent.Ref != "" {
		ref := node.Parent.Ref
		if visited[ref] {
			return "", fmt.Errorf("hierarchy: walking parents of %s at %s: %w", rec.URI, ref, apperr.ErrCycleDetected)
		}
		visited[ref] = true

		parent, err := r.fetch.RecordByURI(ctx, ref)
		if err != nil {
			return "", err
		}
		node = parent
	}
	return display.FormatDates(node.Dates), nil
}
