// Package models defines the record projections consumed from the archival
// description backend. All types are read projections: nothing here is
// persisted locally, and a record is only ever written back as the whole
// document it was fetched as.
package models

import "encoding/json"

// Date types recognised by the date formatter. Entries of any other type are
// ignored for display purposes.
const (
	DateTypeInclusive = "inclusive"
	DateTypeBulk      = "bulk"
)

// Instance types linking an archival object to physical or digital holdings.
const (
	InstanceTypeDigitalObject = "digital_object"
	InstanceTypeTopContainer  = "top_container"
)

// Ref is a weak reference to another record by uri.
type Ref struct {
	Ref string `json:"ref,omitempty"`

	extra map[string]json.RawMessage
}

// Record is the full representation of a backend record: archival object,
// resource, top container, digital object, or agent. The field set is the
// union of what the toolkit reads across those types; absent fields stay
// zero-valued and are omitted on encode.
type Record struct {
	URI             string         `json:"uri,omitempty"`
	Title           string         `json:"title,omitempty"`
	DisplayString   string         `json:"display_string,omitempty"`
	Publish         *bool          `json:"publish,omitempty"`
	Dates           []DateEntry    `json:"dates,omitempty"`
	Notes           []Note         `json:"notes,omitempty"`
	Extents         []Extent       `json:"extents,omitempty"`
	Instances       []Instance     `json:"instances,omitempty"`
	Parent          *Ref           `json:"parent,omitempty"`
	Resource        *Ref           `json:"resource,omitempty"`
	LinkedAgents    []AgentLink    `json:"linked_agents,omitempty"`
	Subjects        []Ref          `json:"subjects,omitempty"`
	Terms           []Term         `json:"terms,omitempty"`
	LinkedInstances []Ref          `json:"linked_instances,omitempty"`
	Collection      []Ref          `json:"collection,omitempty"`
	FileVersions    []FileVersion  `json:"file_versions,omitempty"`
	DigitalObjectID string         `json:"digital_object_id,omitempty"`
	Indicator       string         `json:"indicator,omitempty"`
	Barcode         string         `json:"barcode,omitempty"`
	EADID           string         `json:"ead_id,omitempty"`
	ID0             string         `json:"id_0,omitempty"`
	UserDefined     map[string]any `json:"user_defined,omitempty"`

	extra map[string]json.RawMessage
}

// IsPublished reports whether the record carries publish: true.
func (r *Record) IsPublished() bool {
	return r.Publish != nil && *r.Publish
}

// DateEntry is one dated span on a record.
type DateEntry struct {
	DateType   string `json:"date_type,omitempty"`
	Expression string `json:"expression,omitempty"`
	Begin      string `json:"begin,omitempty"`
	End        string `json:"end,omitempty"`

	extra map[string]json.RawMessage
}

// Text returns the effective display expression for the entry: the stored
// expression verbatim when present, otherwise "begin-end", otherwise begin
// alone, otherwise empty.
func (d DateEntry) Text() string {
	switch {
	case d.Expression != "":
		return d.Expression
	case d.Begin != "" && d.End != "":
		return d.Begin + "-" + d.End
	default:
		return d.Begin
	}
}

// Extent describes one physical extent statement.
type Extent struct {
	Number           string `json:"number,omitempty"`
	ExtentType       string `json:"extent_type,omitempty"`
	ContainerSummary string `json:"container_summary,omitempty"`
	PhysicalDetails  string `json:"physical_details,omitempty"`
	Dimensions       string `json:"dimensions,omitempty"`

	extra map[string]json.RawMessage
}

// Instance attaches an archival object to a digital object or a top
// container, discriminated by InstanceType.
type Instance struct {
	InstanceType  string        `json:"instance_type,omitempty"`
	DigitalObject *Ref          `json:"digital_object,omitempty"`
	SubContainer  *SubContainer `json:"sub_container,omitempty"`

	extra map[string]json.RawMessage
}

// TargetRef returns the uri of the object the instance points at, or empty
// when the instance carries neither target shape.
func (i Instance) TargetRef() string {
	switch {
	case i.InstanceType == InstanceTypeDigitalObject && i.DigitalObject != nil:
		return i.DigitalObject.Ref
	case i.SubContainer != nil && i.SubContainer.TopContainer != nil:
		return i.SubContainer.TopContainer.Ref
	}
	return ""
}

// SubContainer holds the top-container reference plus child locator fields.
type SubContainer struct {
	TopContainer *Ref `json:"top_container,omitempty"`

	extra map[string]json.RawMessage
}

// AgentLink links a record to an agent with a role.
type AgentLink struct {
	Ref   string `json:"ref,omitempty"`
	Role  string `json:"role,omitempty"`
	Terms []Term `json:"terms,omitempty"`

	extra map[string]json.RawMessage
}

// Term is a controlled-vocabulary term on a subject or agent link.
type Term struct {
	Term     string `json:"term,omitempty"`
	TermType string `json:"term_type,omitempty"`

	extra map[string]json.RawMessage
}

// FileVersion is one access link on a digital object.
type FileVersion struct {
	FileURI string `json:"file_uri,omitempty"`

	extra map[string]json.RawMessage
}

// ContainerMetadata is the metadata_for_container response shape.
type ContainerMetadata struct {
	ArchivalObjects []ContainerLink `json:"archival_objects"`
}

// ContainerLink is one archival object referencing a top container.
type ContainerLink struct {
	ArchivalObjectURI string `json:"archival_object_uri"`
}

// IDMatches is the find_by_id response shape.
type IDMatches struct {
	ArchivalObjects []Ref `json:"archival_objects"`
}
