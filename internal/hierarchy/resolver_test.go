package hierarchy_test

import (
	"context"
	"errors"
	"testing"

	"github.com/starford/fonds/internal/apperr"
	"github.com/starford/fonds/internal/hierarchy"
	"github.com/starford/fonds/internal/models"
	"github.com/starford/fonds/internal/testutil"
)

func TestBuild_ChainOldestFirst(t *testing.T) {
	b := testutil.NewBackend(t)
	r := hierarchy.NewResolver(b.Client(t))
	ctx := context.Background()

	b.PutRecord(t, "/ao/c", &models.Record{URI: "/ao/c", Title: "Series C"})
	b.PutRecord(t, "/ao/b", &models.Record{URI: "/ao/b", Title: "Subseries B", Parent: &models.Ref{Ref: "/ao/c"}})
	a := &models.Record{URI: "/ao/a", Title: "Item A", Parent: &models.Ref{Ref: "/ao/b"}}

	got, err := r.Build(ctx, a, "")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got != "Series C > Subseries B" {
		t.Errorf("hierarchy = %q", got)
	}
}

func TestBuild_CustomDelimiterAndDates(t *testing.T) {
	b := testutil.NewBackend(t)
	r := hierarchy.NewResolver(b.Client(t))

	b.PutRecord(t, "/ao/parent", &models.Record{
		URI:   "/ao/parent",
		Title: "Correspondence",
		Dates: []models.DateEntry{{DateType: models.DateTypeInclusive, Begin: "1900", End: "1910"}},
	})
	child := &models.Record{URI: "/ao/child", Parent: &models.Ref{Ref: "/ao/parent"}}

	got, err := r.Build(context.Background(), child, "/")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got != "Correspondence, 1900-1910" {
		t.Errorf("hierarchy = %q", got)
	}
}

func TestBuild_RootAlone(t *testing.T) {
	b := testutil.NewBackend(t)
	r := hierarchy.NewResolver(b.Client(t))

	got, err := r.Build(context.Background(), &models.Record{URI: "/ao/root", Title: "Root"}, "")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got != "" {
		t.Errorf("root hierarchy = %q, want empty", got)
	}
}

func TestBuild_CycleDetected(t *testing.T) {
	b := testutil.NewBackend(t)
	r := hierarchy.NewResolver(b.Client(t))

	b.PutRecord(t, "/ao/1", &models.Record{URI: "/ao/1", Title: "One", Parent: &models.Ref{Ref: "/ao/2"}})
	b.PutRecord(t, "/ao/2", &models.Record{URI: "/ao/2", Title: "Two", Parent: &models.Ref{Ref: "/ao/1"}})
	start := &models.Record{URI: "/ao/1", Title: "One", Parent: &models.Ref{Ref: "/ao/2"}}

	_, err := r.Build(context.Background(), start, "")
	if !errors.Is(err, apperr.ErrCycleDetected) {
		t.Fatalf("err = %v, want ErrCycleDetected", err)
	}
}

func TestDisplayString_Priorities(t *testing.T) {
	b := testutil.NewBackend(t)
	r := hierarchy.NewResolver(b.Client(t))
	ctx := context.Background()

	dates := []models.DateEntry{{DateType: models.DateTypeInclusive, Expression: "1950"}}

	both := &models.Record{Title: "<emph>Letters</emph>", Dates: dates}
	if got, _ := r.DisplayString(ctx, both, false); got != "Letters, 1950" {
		t.Errorf("title+dates = %q", got)
	}

	titleOnly := &models.Record{Title: " Letters "}
	if got, _ := r.DisplayString(ctx, titleOnly, false); got != "Letters" {
		t.Errorf("title only = %q", got)
	}

	datesOnly := &models.Record{Dates: dates}
	if got, _ := r.DisplayString(ctx, datesOnly, false); got != "1950" {
		t.Errorf("dates only = %q", got)
	}

	neither := &models.Record{}
	if got, _ := r.DisplayString(ctx, neither, false); got != "" {
		t.Errorf("neither = %q", got)
	}
}

func TestDisplayString_AddParentTitleUsesStoredDisplayString(t *testing.T) {
	b := testutil.NewBackend(t)
	r := hierarchy.NewResolver(b.Client(t))

	// The stored display_string is used as-is (markup stripped), not
	// recomputed from the parent's own title and dates.
	b.PutRecord(t, "/ao/parent", &models.Record{
		URI:           "/ao/parent",
		Title:         "Ignored",
		DisplayString: "Minutes, <date>1880-1900</date>",
	})
	child := &models.Record{
		URI:    "/ao/child",
		Dates:  []models.DateEntry{{DateType: models.DateTypeInclusive, Expression: "1885"}},
		Parent: &models.Ref{Ref: "/ao/parent"},
	}

	got, err := r.DisplayString(context.Background(), child, true)
	if err != nil {
		t.Fatalf("DisplayString: %v", err)
	}
	if got != "Minutes, 1880-1900, 1885" {
		t.Errorf("display = %q", got)
	}
}

func TestMostProximateDate(t *testing.T) {
	b := testutil.NewBackend(t)
	r := hierarchy.NewResolver(b.Client(t))
	ctx := context.Background()

	b.PutRecord(t, "/ao/grandparent", &models.Record{
		URI:   "/ao/grandparent",
		Dates: []models.DateEntry{{DateType: models.DateTypeInclusive, Expression: "1870-1890"}},
	})
	b.PutRecord(t, "/ao/parent", &models.Record{URI: "/ao/parent", Parent: &models.Ref{Ref: "/ao/grandparent"}})
	child := &models.Record{URI: "/ao/child", Parent: &models.Ref{Ref: "/ao/parent"}}

	got, err := r.MostProximateDate(ctx, child)
	if err != nil {
		t.Fatalf("MostProximateDate: %v", err)
	}
	if got != "1870-1890" {
		t.Errorf("date = %q", got)
	}

	// A dateless root yields the empty string.
	b.PutRecord(t, "/ao/bare", &models.Record{URI: "/ao/bare"})
	bare := &models.Record{URI: "/ao/orphan", Parent: &models.Ref{Ref: "/ao/bare"}}
	if got, err := r.MostProximateDate(ctx, bare); err != nil || got != "" {
		t.Errorf("dateless chain = %q, err = %v", got, err)
	}
}

func TestFirstAgentByRole(t *testing.T) {
	b := testutil.NewBackend(t)
	r := hierarchy.NewResolver(b.Client(t))
	ctx := context.Background()

	b.PutRecord(t, "/agents/people/1", &models.Record{URI: "/agents/people/1", Title: "Smith, John"})
	accession := &models.Record{LinkedAgents: []models.AgentLink{
		{Ref: "/agents/people/2", Role: "creator"},
		{Ref: "/agents/people/1", Role: "source"},
	}}

	got, err := r.AccessionSource(ctx, accession)
	if err != nil {
		t.Fatalf("AccessionSource: %v", err)
	}
	if got != "Smith, John." {
		t.Errorf("source = %q", got)
	}

	noSource := &models.Record{}
	if got, err := r.AccessionSource(ctx, noSource); err != nil || got != "" {
		t.Errorf("no source = %q, err = %v", got, err)
	}
}

func TestLinkedSubjects_IgnoreTypes(t *testing.T) {
	b := testutil.NewBackend(t)
	r := hierarchy.NewResolver(b.Client(t))

	b.PutRecord(t, "/subjects/1", &models.Record{URI: "/subjects/1", Title: "Education", Terms: []models.Term{{Term: "Education", TermType: "topical"}}})
	b.PutRecord(t, "/subjects/2", &models.Record{URI: "/subjects/2", Title: "Michigan", Terms: []models.Term{{Term: "Michigan", TermType: "geographic"}}})
	rec := &models.Record{Subjects: []models.Ref{{Ref: "/subjects/1"}, {Ref: "/subjects/2"}}}

	got, err := r.LinkedSubjects(context.Background(), rec, []string{"geographic"})
	if err != nil {
		t.Fatalf("LinkedSubjects: %v", err)
	}
	if len(got) != 1 || got[0] != "Education." {
		t.Errorf("subjects = %v", got)
	}
}

func TestDigitalObjectLinks(t *testing.T) {
	b := testutil.NewBackend(t)
	r := hierarchy.NewResolver(b.Client(t))

	b.PutRecord(t, "/do/1", &models.Record{
		URI:          "/do/1",
		FileVersions: []models.FileVersion{{FileURI: "https://cdn.example.edu/item1"}},
	})
	b.PutRecord(t, "/do/2", &models.Record{URI: "/do/2", DigitalObjectID: "ident-2"})
	rec := &models.Record{Instances: []models.Instance{
		{InstanceType: models.InstanceTypeDigitalObject, DigitalObject: &models.Ref{Ref: "/do/1"}},
		{InstanceType: models.InstanceTypeDigitalObject, DigitalObject: &models.Ref{Ref: "/do/2"}},
		{InstanceType: "mixed_materials", SubContainer: &models.SubContainer{TopContainer: &models.Ref{Ref: "/tc/1"}}},
	}}

	all, err := r.DigitalObjectLinks(context.Background(), rec, "")
	if err != nil {
		t.Fatalf("DigitalObjectLinks: %v", err)
	}
	if len(all) != 2 || all[0] != "https://cdn.example.edu/item1" || all[1] != "ident-2" {
		t.Errorf("links = %v", all)
	}

	filtered, err := r.DigitalObjectLinks(context.Background(), rec, "cdn.example.edu")
	if err != nil {
		t.Fatalf("filtered DigitalObjectLinks: %v", err)
	}
	if len(filtered) != 1 {
		t.Errorf("filtered links = %v", filtered)
	}
}
