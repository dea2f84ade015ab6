package kv

import (
	"context"
	"path/filepath"
	"testing"

	"discovery/internal/config"
)

func TestOpenMemory(t *testing.T) {
	s, closeFn, err := Open(context.Background(), &config.Config{StoreBackend: config.BackendMemory})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer closeFn()
	if _, ok := s.(*Memory); !ok {
		t.Errorf("got %T, want *Memory", s)
	}
}

func TestOpenSQLite(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		StoreBackend: config.BackendSQLite,
		SQLitePath:   filepath.Join(t.TempDir(), "open.db"),
	}

	s, closeFn, err := Open(ctx, cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Set(ctx, "saved-items", []byte(`{"version":1}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, closeFn, err = Open(ctx, cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer closeFn()
	got, ok, err := s.Get(ctx, "saved-items")
	if err != nil || !ok || string(got) != `{"version":1}` {
		t.Errorf("after reopen: got %s ok=%v err=%v", got, ok, err)
	}
}

func TestOpenS3RequiresCredentials(t *testing.T) {
	_, _, err := Open(context.Background(), &config.Config{StoreBackend: config.BackendS3, S3Bucket: "b"})
	if err == nil {
		t.Error("expected error without S3 credentials")
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, _, err := Open(context.Background(), &config.Config{StoreBackend: "floppy"}); err == nil {
		t.Error("expected error for unknown backend")
	}
}
