package models

import "encoding/json"

// Note jsonmodel variants. The backend discriminates note shape by
// jsonmodel_type: single-part notes carry content strings directly,
// multi-part notes nest them inside subnotes.
const (
	NoteSinglePart = "note_singlepart"
	NoteMultiPart  = "note_multipart"
)

// NoteTypeAccessRestrict marks access-restriction notes, the subject of the
// restriction-expiry and text-match sweeps.
const NoteTypeAccessRestrict = "accessrestrict"

// Note is one descriptive note on a record.
//
// Publish deliberately has no omitempty: an unpublished note must write
// publish: false back to the backend, not drop the key.
type Note struct {
	Type          string    `json:"type,omitempty"`
	JSONModelType string    `json:"jsonmodel_type,omitempty"`
	Publish       bool      `json:"publish"`
	Content       []string  `json:"content,omitempty"`
	Subnotes      []Subnote `json:"subnotes,omitempty"`

	extra map[string]json.RawMessage
}

// Subnote is one part of a multi-part note.
type Subnote struct {
	JSONModelType string `json:"jsonmodel_type,omitempty"`
	Content       string `json:"content,omitempty"`
	Publish       bool   `json:"publish"`

	extra map[string]json.RawMessage
}
