package journal

import (
	"path/filepath"
	"testing"
	"time"
)

func openMemory(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestOpenCreatesTable(t *testing.T) {
	j := openMemory(t)

	var name string
	err := j.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='commands'").Scan(&name)
	if err != nil {
		t.Fatalf("commands table not created: %v", err)
	}
}

func TestRecordAndRecent(t *testing.T) {
	j := openMemory(t)
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	entries := []Entry{
		{Command: "look", Acknowledged: true, SubmittedAt: base, AnsweredAt: base.Add(time.Millisecond)},
		{Command: "foo", Acknowledged: false, Error: `not acknowledged (got "Failure")`, SubmittedAt: base.Add(time.Second), AnsweredAt: base.Add(time.Second)},
		{Command: "wait", Acknowledged: true, SubmittedAt: base.Add(2 * time.Second), AnsweredAt: base.Add(2 * time.Second)},
	}
	for _, e := range entries {
		if _, err := j.Record(e); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	got, err := j.Recent(2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Command != "wait" || got[1].Command != "foo" {
		t.Errorf("expected newest first, got %q, %q", got[0].Command, got[1].Command)
	}
	if got[1].Acknowledged || got[1].Error == "" {
		t.Errorf("failure not preserved: %+v", got[1])
	}
	if !got[0].SubmittedAt.Equal(base.Add(2 * time.Second)) {
		t.Errorf("SubmittedAt = %v", got[0].SubmittedAt)
	}
}

func TestRecentEmpty(t *testing.T) {
	j := openMemory(t)
	got, err := j.Recent(10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no entries, got %d", len(got))
	}
}

func TestFileJournalPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	now := time.Now()
	if _, err := j.Record(Entry{Command: "dig", Acknowledged: true, SubmittedAt: now, AnsweredAt: now}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	j.Close()

	j, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer j.Close()

	got, err := j.Recent(1)
	if err != nil || len(got) != 1 || got[0].Command != "dig" {
		t.Errorf("Recent after reopen = %+v, %v", got, err)
	}
}
