package auditlog

import (
	"os"
	"testing"

	"github.com/starford/fonds/internal/bulk"
	"github.com/starford/fonds/internal/progress"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "fonds-audit-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM runs`).Scan(&count); err != nil {
		t.Fatalf("runs table missing: %v", err)
	}
	if err := db.conn.QueryRow(`SELECT count(*) FROM changes`).Scan(&count); err != nil {
		t.Fatalf("changes table missing: %v", err)
	}
}

func TestAppendAndRecent(t *testing.T) {
	db := testDB(t)

	entries := []bulk.ChangeEntry{
		{URI: "/repositories/2/archival_objects/1", Title: "Box 1", Restriction: "Closed."},
		{URI: "/repositories/2/archival_objects/2", Title: "Box 2", Restriction: "Closed."},
	}
	if _, err := db.Append(progress.OpExpiry, 7, entries); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if _, err := db.Append(progress.OpTextMatch, 7, nil); err != nil {
		t.Fatalf("Append empty run: %v", err)
	}

	runs, err := db.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	// Most recent first.
	if runs[0].Op != progress.OpTextMatch || len(runs[0].Changes) != 0 {
		t.Errorf("newest run = %+v", runs[0])
	}
	if runs[1].Op != progress.OpExpiry || runs[1].Resource != 7 {
		t.Errorf("older run = %+v", runs[1])
	}
	if len(runs[1].Changes) != 2 || runs[1].Changes[0].URI != entries[0].URI {
		t.Errorf("changes = %+v", runs[1].Changes)
	}
}

func TestRecentLimit(t *testing.T) {
	db := testDB(t)
	for i := 0; i < 5; i++ {
		if _, err := db.Append(progress.OpCleanup, i, nil); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	runs, err := db.Recent(3)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 3 {
		t.Errorf("got %d runs, want 3", len(runs))
	}
	if runs[0].Resource != 4 {
		t.Errorf("newest run resource = %d, want 4", runs[0].Resource)
	}
}
