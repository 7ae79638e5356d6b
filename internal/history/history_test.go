// File path: internal/history/history_test.go
package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAppendAndRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := store.Append(ctx, Record{
			RequestID:   "req",
			Workspace:   "ws1",
			Provider:    "groq",
			Model:       "llama-3.1-70b-versatile",
			DocType:     "QUOTATION",
			Requirement: "Quotation for a website",
			Bundle:      `{"doc_type":"QUOTATION"}`,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	if err := store.Append(ctx, Record{
		RequestID: "req", Workspace: "ws2", Provider: "openai", Model: "gpt-4o-mini",
		DocType: "TAX_INVOICE", Requirement: "Invoice", Bundle: `{}`, CreatedAt: base,
	}); err != nil {
		t.Fatalf("append other workspace: %v", err)
	}

	records, err := store.Recent(ctx, "ws1", 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if !records[0].CreatedAt.After(records[1].CreatedAt) {
		t.Fatalf("records not newest first: %+v", records)
	}
	if records[0].Provider != "groq" || records[0].DocType != "QUOTATION" {
		t.Fatalf("unexpected record: %+v", records[0])
	}
}

func TestRecentLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := store.Append(ctx, Record{
			RequestID: "req", Workspace: "ws", Provider: "groq", Model: "m",
			DocType: "QUOTATION", Requirement: "r", Bundle: `{}`,
		}); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	records, err := store.Recent(ctx, "ws", 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(records))
	}
}

func TestRecentEmptyWorkspace(t *testing.T) {
	store := openTestStore(t)
	records, err := store.Recent(context.Background(), "nobody", 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for blank path")
	}
}
