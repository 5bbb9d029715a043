package aspace

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/starford/fonds/internal/apperr"
	"github.com/starford/fonds/internal/models"
)

// RecordByURI fetches any record by its backend uri.
func (c *Client) RecordByURI(ctx context.Context, uri string) (*models.Record, error) {
	var rec models.Record
	if err := c.GetJSON(ctx, uri, nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Resource fetches a collection-description record by numeric id.
func (c *Client) Resource(ctx context.Context, id int) (*models.Record, error) {
	return c.RecordByURI(ctx, fmt.Sprintf("%s/resources/%d", c.repo, id))
}

// ResourceIDs lists every resource id in the repository.
func (c *Client) ResourceIDs(ctx context.Context) ([]int, error) {
	params := url.Values{}
	params.Set("all_ids", "true")
	var ids []int
	if err := c.GetJSON(ctx, c.repo+"/resources", params, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// ArchivalObject fetches an archival object by numeric id.
func (c *Client) ArchivalObject(ctx context.Context, id int) (*models.Record, error) {
	return c.RecordByURI(ctx, fmt.Sprintf("%s/archival_objects/%d", c.repo, id))
}

// Accession fetches an accession record by numeric id.
func (c *Client) Accession(ctx context.Context, id int) (*models.Record, error) {
	return c.RecordByURI(ctx, fmt.Sprintf("%s/accessions/%d", c.repo, id))
}

// DigitalObject fetches a digital object by numeric id.
func (c *Client) DigitalObject(ctx context.Context, id int) (*models.Record, error) {
	return c.RecordByURI(ctx, fmt.Sprintf("%s/digital_objects/%d", c.repo, id))
}

// TopContainer fetches a top container by numeric id.
func (c *Client) TopContainer(ctx context.Context, id int) (*models.Record, error) {
	return c.RecordByURI(ctx, c.TopContainerURI(id))
}

// TopContainerURI returns the repository-scoped uri for a container id.
func (c *Client) TopContainerURI(id int) string {
	return fmt.Sprintf("%s/top_containers/%d", c.repo, id)
}

// TopContainerByBarcode looks a container up by barcode.
func (c *Client) TopContainerByBarcode(ctx context.Context, barcode string) (*models.Record, error) {
	params := url.Values{}
	params.Set("barcode", barcode)
	var rec models.Record
	if err := c.GetJSON(ctx, c.repo+"/find_by_barcode/container", params, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Subject fetches a subject record by numeric id.
func (c *Client) Subject(ctx context.Context, id int) (*models.Record, error) {
	return c.RecordByURI(ctx, fmt.Sprintf("/subjects/%d", id))
}

// ResourceTree fetches the whole lightweight tree projection for a resource
// in a single call.
func (c *Client) ResourceTree(ctx context.Context, id int) (*models.TreeNode, error) {
	var root models.TreeNode
	uri := fmt.Sprintf("%s/resources/%d/tree", c.repo, id)
	if err := c.GetJSON(ctx, uri, nil, &root); err != nil {
		return nil, err
	}
	return &root, nil
}

// MetadataForContainer lists the archival objects referencing a top
// container.
func (c *Client) MetadataForContainer(ctx context.Context, id int) (*models.ContainerMetadata, error) {
	var meta models.ContainerMetadata
	uri := fmt.Sprintf("%s/metadata_for_container/%d", c.repo, id)
	if err := c.GetJSON(ctx, uri, nil, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// UpdateRecord writes rec back to uri as a full-document overwrite. The uri
// must match the uri inside the record; mismatches are refused before any
// network traffic.
func (c *Client) UpdateRecord(ctx context.Context, uri string, rec *models.Record) error {
	if uri != rec.URI {
		return fmt.Errorf("aspace: update %s with record %s: %w", uri, rec.URI, apperr.ErrURIMismatch)
	}
	return c.PostJSON(ctx, uri, rec, nil)
}

// UnpublishObject flips publish to false on the record at uri. It reports
// whether a write happened: an already-unpublished record is left alone.
func (c *Client) UnpublishObject(ctx context.Context, uri string) (bool, error) {
	rec, err := c.RecordByURI(ctx, uri)
	if err != nil {
		return false, err
	}
	if !rec.IsPublished() {
		return false, nil
	}
	published := false
	rec.Publish = &published
	if err := c.UpdateRecord(ctx, uri, rec); err != nil {
		return false, err
	}
	return true, nil
}

// FindByID resolves an archival object through the find_by_id endpoint.
// Exactly one match is required; zero or several is an error.
func (c *Client) FindByID(ctx context.Context, idType, idValue string) (string, error) {
	params := url.Values{}
	params.Set(idType+"[]", idValue)
	var matches models.IDMatches
	if err := c.GetJSON(ctx, c.repo+"/find_by_id/archival_objects", params, &matches); err != nil {
		return "", err
	}
	if len(matches.ArchivalObjects) != 1 {
		return "", fmt.Errorf("aspace: resolving %s %s: %d archival objects returned", idType, idValue, len(matches.ArchivalObjects))
	}
	return matches.ArchivalObjects[0].Ref, nil
}

// ResolveComponentID resolves a component id to an archival object uri.
func (c *Client) ResolveComponentID(ctx context.Context, componentID string) (string, error) {
	return c.FindByID(ctx, "component_id", componentID)
}

// ResolveRefID resolves an EAD ref id to an archival object uri. The
// exporter's "aspace_" prefix is stripped first.
func (c *Client) ResolveRefID(ctx context.Context, refID string) (string, error) {
	return c.FindByID(ctx, "ref_id", strings.TrimPrefix(refID, "aspace_"))
}

// TransferArchivalObject moves an archival object to another resource. The
// transfer event the backend records as a side effect is deleted, matching
// local practice of not keeping transfer events.
func (c *Client) TransferArchivalObject(ctx context.Context, archivalObjectURI, resourceURI string) error {
	params := url.Values{}
	params.Set("target_resource", resourceURI)
	params.Set("component", archivalObjectURI)
	data, err := c.request(ctx, http.MethodPost, c.repo+"/component_transfers", params, nil, http.StatusOK)
	if err != nil {
		return err
	}
	var resp struct {
		Event string `json:"event"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return &ProtocolError{StatusCode: http.StatusOK, Err: err}
	}
	if resp.Event != "" {
		return c.Delete(ctx, resp.Event)
	}
	return nil
}

// CreateTopContainer creates a container and returns its uri.
func (c *Client) CreateTopContainer(ctx context.Context, containerType, indicator, barcode string) (string, error) {
	body := map[string]any{
		"jsonmodel_type": "top_container",
		"type":           containerType,
		"indicator":      indicator,
	}
	if barcode != "" {
		body["barcode"] = barcode
	}
	var resp struct {
		URI string `json:"uri"`
	}
	if err := c.PostJSON(ctx, c.repo+"/top_containers", body, &resp); err != nil {
		return "", err
	}
	return resp.URI, nil
}

// NewDigitalObjectBody assembles a digital object document with one file
// version and an access note. A random identifier is generated when none is
// supplied.
func NewDigitalObjectBody(title, link, identifier string, publish bool, noteContent string) map[string]any {
	if identifier == "" {
		identifier = uuid.NewString()
	}
	if noteContent == "" {
		noteContent = "access item"
	}
	return map[string]any{
		"title":             title,
		"digital_object_id": identifier,
		"publish":           publish,
		"notes": []map[string]any{{
			"jsonmodel_type": "note_digital_object",
			"type":           "note",
			"content":        []string{noteContent},
			"publish":        true,
		}},
		"file_versions": []map[string]any{{
			"file_uri":                link,
			"xlink_show_attribute":    "new",
			"xlink_actuate_attribute": "onRequest",
		}},
	}
}

// CreateDigitalObject posts a digital object document and returns its uri.
func (c *Client) CreateDigitalObject(ctx context.Context, body map[string]any) (string, error) {
	var resp struct {
		URI string `json:"uri"`
	}
	if err := c.PostJSON(ctx, c.repo+"/digital_objects", body, &resp); err != nil {
		return "", err
	}
	return resp.URI, nil
}

// ConvertEAD runs an EAD finding aid through the backend's
// jsonmodel_from_format plugin and returns the resulting resource document.
func (c *Client) ConvertEAD(ctx context.Context, ead io.Reader) (json.RawMessage, error) {
	return c.PostRaw(ctx, "/plugins/jsonmodel_from_format/resource/ead", "text/html; charset=utf-8", ead)
}

// CreateResource posts a resource document and returns its uri.
func (c *Client) CreateResource(ctx context.Context, body json.RawMessage) (string, error) {
	var resp struct {
		URI string `json:"uri"`
	}
	if err := c.PostJSON(ctx, c.repo+"/resources", body, &resp); err != nil {
		return "", err
	}
	return resp.URI, nil
}

// Enumeration fetches a controlled-value list by id. The document is kept
// raw so updates round-trip untouched fields.
func (c *Client) Enumeration(ctx context.Context, id int) (map[string]any, error) {
	var enum map[string]any
	if err := c.GetJSON(ctx, fmt.Sprintf("/config/enumerations/%d", id), nil, &enum); err != nil {
		return nil, err
	}
	return enum, nil
}

// AddEnumerationValues appends any missing values to a controlled-value
// list. No write happens when every value is already present.
func (c *Client) AddEnumerationValues(ctx context.Context, id int, values []string) error {
	enum, err := c.Enumeration(ctx, id)
	if err != nil {
		return err
	}
	existing := map[string]bool{}
	if current, ok := enum["values"].([]any); ok {
		for _, v := range current {
			if s, ok := v.(string); ok {
				existing[s] = true
			}
		}
	}
	var toAdd []any
	for _, v := range values {
		if !existing[v] {
			toAdd = append(toAdd, v)
		}
	}
	if len(toAdd) == 0 {
		return nil
	}
	current, _ := enum["values"].([]any)
	enum["values"] = append(current, toAdd...)
	return c.PostJSON(ctx, fmt.Sprintf("/config/enumerations/%d", id), enum, nil)
}

// ResourceLink builds a staff-interface link for a resource.
func (c *Client) ResourceLink(resourceID int) string {
	return fmt.Sprintf("%s/resources/%d", c.frontendURL, resourceID)
}

// ArchivalObjectLink builds a staff-interface link that opens the resource
// tree at a specific archival object.
func (c *Client) ArchivalObjectLink(resourceID int, archivalObjectURI string) string {
	parts := strings.Split(archivalObjectURI, "/")
	objectID := parts[len(parts)-1]
	return fmt.Sprintf("%s/resources/%d#tree::archival_object_%s", c.frontendURL, resourceID, objectID)
}
