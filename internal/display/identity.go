package display

import (
	"regexp"
	"strings"

	"github.com/starford/fonds/internal/models"
)

var collectionIDRe = regexp.MustCompile(`^[\d\.]+`)

// VerifyPunctuation appends a terminal period to a subject or agent heading
// unless it already ends in closing punctuation.
func VerifyPunctuation(heading string) string {
	if strings.HasSuffix(heading, ".") || strings.HasSuffix(heading, ")") || strings.HasSuffix(heading, "-") {
		return heading
	}
	return heading + "."
}

// CollectionID derives the local collection identifier from a resource
// record: the tail of the EAD id when set, otherwise the leading numeric run
// of the first identifier field.
func CollectionID(rec *models.Record) string {
	if rec.EADID != "" {
		parts := strings.Split(rec.EADID, "-")
		if len(parts) > 2 {
			return strings.Join(parts[2:], "-")
		}
		return ""
	}
	identifier := strings.TrimSpace(rec.ID0)
	if m := collectionIDRe.FindString(identifier); m != "" {
		return m
	}
	return ""
}

// AgentDisplayName joins an agent heading with its subdivision terms. A
// trailing period on the bare heading is dropped before joining so the
// punctuation lands once, at the end.
func AgentDisplayName(heading string, terms []models.Term) string {
	if len(terms) == 0 {
		return VerifyPunctuation(heading)
	}
	parts := []string{strings.TrimSuffix(heading, ".")}
	for _, t := range terms {
		parts = append(parts, t.Term)
	}
	return VerifyPunctuation(strings.Join(parts, " -- "))
}

// Classifications collects the local classification codes stashed in the
// user-defined enumeration slots, in slot order.
func Classifications(rec *models.Record) []string {
	var out []string
	for _, field := range []string{"enum_1", "enum_2", "enum_3"} {
		if v, ok := rec.UserDefined[field].(string); ok && v != "" {
			out = append(out, v)
		}
	}
	return out
}
