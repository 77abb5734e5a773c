package store

import (
	"database/sql"
	"path/filepath"
	"slices"
	"testing"

	"github.com/roach88/journey/internal/engine"
	"github.com/roach88/journey/internal/ir"
)

// createTestStore opens a fresh file-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// testEvents is a small timeline touching every node field: two tracks,
// an untracked event, an attributed deployment and a recurrence.
func testEvents() []ir.Event {
	return []ir.Event{
		{State: "CodeCommit", Occurrences: []string{"2024-03-01T10:00:00Z"}, Track: ir.StrPtr("main")},
		{State: "CodeBuild", Occurrences: []string{"2024-03-01T10:05:00Z"}, Track: ir.StrPtr("main"), ArtifactTag: ir.StrPtr("svc:1.4.2-2024-03-01-abc")},
		{State: "Review", Occurrences: []string{}},
		{State: "ProdDeployment", Occurrences: []string{"2024-03-01T11:00:00Z"}, Metadata: ir.StrPtr("release 1.4.2-2024-03-01-abc")},
		{State: "CodeCommit", Occurrences: []string{"2024-03-02T09:00:00Z"}, Track: ir.StrPtr("main")},
	}
}

// createTestRun builds testEvents under policy and wraps it in a Run.
func createTestRun(t *testing.T, policy engine.RecurrencePolicy, source string) Run {
	t.Helper()
	return createTestRunWith(t, source, engine.WithPolicy(policy))
}

// createTestRunWith builds testEvents with arbitrary builder options.
func createTestRunWith(t *testing.T, source string, opts ...engine.Option) Run {
	t.Helper()
	events := testEvents()
	for i := range events {
		events[i].Index = i
	}
	g := engine.New(opts...).Build(events)
	run, err := NewRun(source, events, g, []byte(`[{"state":"CodeCommit"}]`))
	if err != nil {
		t.Fatalf("NewRun() failed: %v", err)
	}
	return run
}

func getTableColumns(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		t.Fatalf("failed to get columns for %s: %v", table, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("scan column: %v", err)
		}
		columns = append(columns, name)
	}
	return columns
}

func getTableIndexes(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='index' AND tbl_name=?", table)
	if err != nil {
		t.Fatalf("failed to get indexes for %s: %v", table, err)
	}
	defer rows.Close()

	var indexes []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("scan index: %v", err)
		}
		indexes = append(indexes, name)
	}
	return indexes
}

func contains(list []string, s string) bool {
	return slices.Contains(list, s)
}
