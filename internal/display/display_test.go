package display

import (
	"testing"

	"github.com/starford/fonds/internal/models"
)

func TestFormatDates_BeginEndSynthesis(t *testing.T) {
	dates := []models.DateEntry{{DateType: models.DateTypeInclusive, Begin: "1900", End: "1910"}}
	if got := FormatDates(dates); got != "1900-1910" {
		t.Errorf("FormatDates = %q, want %q", got, "1900-1910")
	}
}

func TestFormatDates_InclusiveAndBulk(t *testing.T) {
	dates := []models.DateEntry{
		{DateType: models.DateTypeInclusive, Expression: "1900-1950"},
		{DateType: models.DateTypeBulk, Expression: "1920-1930"},
		{DateType: models.DateTypeBulk, Expression: "1940"},
	}
	want := "1900-1950 (bulk 1920-1930)"
	if got := FormatDates(dates); got != want {
		t.Errorf("FormatDates = %q, want %q", got, want)
	}
}

func TestFormatDates_MultipleInclusive(t *testing.T) {
	dates := []models.DateEntry{
		{DateType: models.DateTypeInclusive, Expression: " 1900 "},
		{DateType: models.DateTypeInclusive, Begin: "1955"},
		{DateType: "single", Expression: "1970"},
	}
	if got := FormatDates(dates); got != "1900, 1955" {
		t.Errorf("FormatDates = %q, want %q", got, "1900, 1955")
	}
}

func TestFormatDates_Empty(t *testing.T) {
	if got := FormatDates(nil); got != "" {
		t.Errorf("FormatDates(nil) = %q, want empty", got)
	}
}

func TestFormatExtents(t *testing.T) {
	extents := []models.Extent{{Number: "3", ExtentType: "boxes", Dimensions: "10x12"}}
	if got := FormatExtents(extents); got != "3 boxes (10x12)" {
		t.Errorf("FormatExtents = %q, want %q", got, "3 boxes (10x12)")
	}
}

func TestFormatExtents_NoOptionalFields(t *testing.T) {
	extents := []models.Extent{{Number: "3", ExtentType: "boxes"}}
	if got := FormatExtents(extents); got != "3 boxes" {
		t.Errorf("FormatExtents = %q, want %q", got, "3 boxes")
	}
}

func TestFormatExtents_MultipleWithParenthetical(t *testing.T) {
	extents := []models.Extent{
		{Number: "2", ExtentType: "linear feet", ContainerSummary: "2 boxes", PhysicalDetails: "photographs"},
		{Number: "1", ExtentType: "oversize folder"},
	}
	want := "2 linear feet (2 boxes; photographs); 1 oversize folder"
	if got := FormatExtents(extents); got != want {
		t.Errorf("FormatExtents = %q, want %q", got, want)
	}
}

func TestSanitizeTitle(t *testing.T) {
	if got := SanitizeTitle("  <title render=\"italic\">Annual Report</title> "); got != "Annual Report" {
		t.Errorf("SanitizeTitle = %q", got)
	}
	if got := SanitizeTitle("Plain"); got != "Plain" {
		t.Errorf("SanitizeTitle = %q", got)
	}
}

func TestFormatNote_Variants(t *testing.T) {
	single := models.Note{JSONModelType: models.NoteSinglePart, Content: []string{"first", "second"}}
	if got := FormatNote(single); got != "first" {
		t.Errorf("single-part FormatNote = %q", got)
	}
	multi := models.Note{JSONModelType: models.NoteMultiPart, Subnotes: []models.Subnote{{Content: "part one"}, {Content: "part two"}}}
	if got := FormatNote(multi); got != "part one" {
		t.Errorf("multi-part FormatNote = %q", got)
	}
	if got := FormatNote(models.Note{JSONModelType: models.NoteSinglePart}); got != "" {
		t.Errorf("empty single-part FormatNote = %q", got)
	}
}

func TestNotesByType(t *testing.T) {
	rec := &models.Record{Notes: []models.Note{
		{Type: "accessrestrict", JSONModelType: models.NoteSinglePart, Content: []string{"closed"}},
		{Type: "scopecontent", JSONModelType: models.NoteSinglePart, Content: []string{"scope"}},
		{Type: "accessrestrict", JSONModelType: models.NoteSinglePart, Content: []string{"also closed"}},
	}}
	got := NotesByType(rec, "accessrestrict")
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Content[0] != "closed" || got[1].Content[0] != "also closed" {
		t.Errorf("order not preserved: %v", got)
	}
	if empty := NotesByType(rec, "userestrict"); empty == nil || len(empty) != 0 {
		t.Errorf("no match should be empty slice, got %v", empty)
	}
}

func TestFirstNoteByType(t *testing.T) {
	rec := &models.Record{Notes: []models.Note{
		{Type: "scopecontent", JSONModelType: models.NoteSinglePart, Content: []string{"scope"}},
	}}
	if got := FirstNoteByType(rec, "scopecontent"); got != "scope" {
		t.Errorf("FirstNoteByType = %q", got)
	}
	if got := FirstNoteByType(rec, "absent"); got != "" {
		t.Errorf("FirstNoteByType absent = %q", got)
	}
}

func TestRestrictionEndDate(t *testing.T) {
	content := `Restricted until <date type="timestamp" normal="2030-01-01">January 2030</date>.`
	normal, ok := RestrictionEndDate(content)
	if !ok || normal != "2030-01-01" {
		t.Errorf("RestrictionEndDate = %q, %v", normal, ok)
	}
}

func TestRestrictionEndDate_NoDateOrMalformed(t *testing.T) {
	if _, ok := RestrictionEndDate("No markup at all."); ok {
		t.Error("expected ok=false without a date element")
	}
	if _, ok := RestrictionEndDate("<date normal=\"2030-01-01\">unclosed"); ok {
		t.Error("expected ok=false on malformed markup")
	}
}

func TestVerifyPunctuation(t *testing.T) {
	cases := map[string]string{
		"Smith, John":         "Smith, John.",
		"Smith, John.":        "Smith, John.",
		"Papers (collection)": "Papers (collection)",
		"1990-":               "1990-",
	}
	for in, want := range cases {
		if got := VerifyPunctuation(in); got != want {
			t.Errorf("VerifyPunctuation(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCollectionID(t *testing.T) {
	fromEAD := &models.Record{EADID: "us-mich-12345", ID0: "99"}
	if got := CollectionID(fromEAD); got != "12345" {
		t.Errorf("ead_id CollectionID = %q", got)
	}
	fromID := &models.Record{ID0: " 851907.2 Aa 1 "}
	if got := CollectionID(fromID); got != "851907.2" {
		t.Errorf("id_0 CollectionID = %q", got)
	}
	none := &models.Record{ID0: "Aa 1"}
	if got := CollectionID(none); got != "" {
		t.Errorf("nonnumeric CollectionID = %q", got)
	}
}

func TestAgentDisplayName(t *testing.T) {
	plain := AgentDisplayName("Smith, John", nil)
	if plain != "Smith, John." {
		t.Errorf("plain = %q", plain)
	}
	withTerms := AgentDisplayName("Smith, John.", []models.Term{{Term: "Correspondence"}})
	if withTerms != "Smith, John -- Correspondence." {
		t.Errorf("with terms = %q", withTerms)
	}
}
