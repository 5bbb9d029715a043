// Package display turns single-record fields into human-readable strings.
// Everything here is pure: no fetching, no mutation.
package display

import (
	"encoding/xml"
	"regexp"
	"strings"

	"github.com/starford/fonds/internal/models"
)

var markupRe = regexp.MustCompile(`<.*?>`)

// SanitizeTitle strips embedded markup tags and surrounding whitespace.
func SanitizeTitle(title string) string {
	return strings.TrimSpace(markupRe.ReplaceAllString(title, ""))
}

// FormatDates renders a record's date entries as one display expression.
// Inclusive entries are comma-joined; when any bulk entry exists, the first
// bulk expression is appended as " (bulk ...)". Only the first bulk entry is
// surfaced; later ones are a data-entry artifact downstream consumers never
// display. Entries of other date types are ignored.
func FormatDates(dates []models.DateEntry) string {
	if len(dates) == 0 {
		return ""
	}
	var inclusive []string
	var bulk []string
	for _, d := range dates {
		switch d.DateType {
		case models.DateTypeInclusive:
			if text := strings.TrimSpace(d.Text()); text != "" {
				inclusive = append(inclusive, text)
			}
		case models.DateTypeBulk:
			bulk = append(bulk, strings.TrimSpace(d.Text()))
		}
	}
	out := strings.Join(inclusive, ", ")
	if len(bulk) > 0 {
		out += " (bulk " + bulk[0] + ")"
	}
	return out
}

// FormatExtents renders extent statements as "<number> <type> (<summary;
// details; dimensions>)" joined by "; ". Empty parenthetical parts are
// dropped.
func FormatExtents(extents []models.Extent) string {
	if len(extents) == 0 {
		return ""
	}
	parts := make([]string, 0, len(extents))
	for _, e := range extents {
		s := e.Number + " " + e.ExtentType
		var parens []string
		for _, p := range []string{e.ContainerSummary, e.PhysicalDetails, e.Dimensions} {
			if p != "" {
				parens = append(parens, p)
			}
		}
		if len(parens) > 0 {
			s += " (" + strings.Join(parens, "; ") + ")"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "; ")
}

// FormatNote returns the display text of a note: the first content string of
// a single-part note, or the first subnote's content of a multi-part note.
// Repeated contents beyond the first are not surfaced.
func FormatNote(n models.Note) string {
	switch n.JSONModelType {
	case models.NoteSinglePart:
		if len(n.Content) > 0 {
			return n.Content[0]
		}
	case models.NoteMultiPart:
		if len(n.Subnotes) > 0 {
			return n.Subnotes[0].Content
		}
	}
	return ""
}

// NotesByType returns the record's notes matching the exact type, in record
// order. No match yields an empty slice.
func NotesByType(rec *models.Record, noteType string) []models.Note {
	matched := []models.Note{}
	for _, n := range rec.Notes {
		if n.Type == noteType {
			matched = append(matched, n)
		}
	}
	return matched
}

// FirstNoteByType formats the first note of the given type, or empty string
// when the record has none.
func FirstNoteByType(rec *models.Record, noteType string) string {
	for _, n := range rec.Notes {
		if n.Type == noteType {
			return FormatNote(n)
		}
	}
	return ""
}

// restrictionBody matches the wrapped accessrestrict markup shape: expiry
// dates are direct <date> children carrying a normalized ISO date attribute.
type restrictionBody struct {
	Dates []struct {
		Normal string `xml:"normal,attr"`
	} `xml:"date"`
}

// RestrictionEndDate extracts the normalized YYYY-MM-DD expiry attribute from
// an access-restriction note's embedded markup. Content that does not parse
// as well-formed markup, or that carries no dated element, yields ok=false.
func RestrictionEndDate(content string) (string, bool) {
	var body restrictionBody
	wrapped := "<accessrestrict>" + content + "</accessrestrict>"
	if err := xml.Unmarshal([]byte(wrapped), &body); err != nil {
		return "", false
	}
	if len(body.Dates) == 0 || body.Dates[0].Normal == "" {
		return "", false
	}
	return body.Dates[0].Normal, true
}
