package hierarchy

import (
	"context"
	"strings"

	"github.com/starford/fonds/internal/display"
	"github.com/starford/fonds/internal/models"
)

// Agent link roles with dedicated lookups.
const (
	RoleSource  = "source"
	RoleCreator = "creator"
)

// AgentsByRole returns the agent uris linked to the record with the given
// role, in link order.
func AgentsByRole(rec *models.Record, role string) []string {
	var refs []string
	for _, link := range rec.LinkedAgents {
		if link.Role == role {
			refs = append(refs, link.Ref)
		}
	}
	return refs
}

// FirstAgentByRole fetches the first agent linked with the given role and
// returns its punctuated heading, or empty string when no link matches. Only
// the first matching agent is surfaced.
func (r *Resolver) FirstAgentByRole(ctx context.Context, rec *models.Record, role string) (string, error) {
	refs := AgentsByRole(rec, role)
	if len(refs) == 0 {
		return "", nil
	}
	agent, err := r.fetch.RecordByURI(ctx, refs[0])
	if err != nil {
		return "", err
	}
	return display.VerifyPunctuation(agent.Title), nil
}

// AccessionSource returns the heading of an accession's source agent.
func (r *Resolver) AccessionSource(ctx context.Context, accession *models.Record) (string, error) {
	return r.FirstAgentByRole(ctx, accession, RoleSource)
}

// ResourceCreator returns the heading of a resource's creator agent.
func (r *Resolver) ResourceCreator(ctx context.Context, resource *models.Record) (string, error) {
	return r.FirstAgentByRole(ctx, resource, RoleCreator)
}

// LinkedAgents fetches every linked agent and returns its display name with
// subdivision terms applied, in link order.
func (r *Resolver) LinkedAgents(ctx context.Context, rec *models.Record) ([]string, error) {
	names := make([]string, 0, len(rec.LinkedAgents))
	for _, link := range rec.LinkedAgents {
		agent, err := r.fetch.RecordByURI(ctx, link.Ref)
		if err != nil {
			return nil, err
		}
		names = append(names, display.AgentDisplayName(agent.Title, link.Terms))
	}
	return names, nil
}

// LinkedSubjects fetches every linked subject heading, skipping subjects
// whose leading term type is in ignoreTypes.
func (r *Resolver) LinkedSubjects(ctx context.Context, rec *models.Record, ignoreTypes []string) ([]string, error) {
	var headings []string
	for _, ref := range rec.Subjects {
		subject, err := r.fetch.RecordByURI(ctx, ref.Ref)
		if err != nil {
			return nil, err
		}
		if len(subject.Terms) > 0 && contains(ignoreTypes, subject.Terms[0].TermType) {
			continue
		}
		headings = append(headings, display.VerifyPunctuation(subject.Title))
	}
	return headings, nil
}

// DigitalObjectLinks fetches each digital-object instance and returns its
// access link: the first file version's uri, falling back to the object
// identifier. A non-empty matchPattern keeps only links containing it.
func (r *Resolver) DigitalObjectLinks(ctx context.Context, rec *models.Record, matchPattern string) ([]string, error) {
	var links []string
	for _, inst := range rec.Instances {
		if inst.InstanceType != models.InstanceTypeDigitalObject || inst.DigitalObject == nil {
			continue
		}
		obj, err := r.fetch.RecordByURI(ctx, inst.DigitalObject.Ref)
		if err != nil {
			return nil, err
		}
		link := obj.DigitalObjectID
		if len(obj.FileVersions) > 0 {
			link = obj.FileVersions[0].FileURI
		}
		if matchPattern == "" || strings.Contains(link, matchPattern) {
			links = append(links, link)
		}
	}
	return links, nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
