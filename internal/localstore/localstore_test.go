package localstore

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/trentd187/proof/internal/store"
)

func newTestStore(t *testing.T, maxBytes int) *Store {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "proof-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	s, err := New(filepath.Join(tempDir, "nested", "proof.db"), maxBytes)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore(t *testing.T) {
	s := newTestStore(t, 0)
	ctx := context.Background()

	t.Run("fresh database has no document", func(t *testing.T) {
		doc, found, err := s.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if found || doc != nil {
			t.Errorf("expected nothing, got %q", doc)
		}
	})

	t.Run("save then load", func(t *testing.T) {
		if err := s.Save(ctx, []byte(`{"capsuleRevealed":false}`)); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if err := s.Save(ctx, []byte(`{"capsuleRevealed":true}`)); err != nil {
			t.Fatalf("second Save failed: %v", err)
		}
		doc, found, err := s.Load(ctx)
		if err != nil || !found {
			t.Fatalf("Load: found=%v err=%v", found, err)
		}
		if !bytes.Equal(doc, []byte(`{"capsuleRevealed":true}`)) {
			t.Errorf("got %q", doc)
		}
	})
}

func TestStoreQuota(t *testing.T) {
	s := newTestStore(t, 16)
	ctx := context.Background()

	if err := s.Save(ctx, []byte("small")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	err := s.Save(ctx, bytes.Repeat([]byte("x"), 17))
	if !errors.Is(err, store.ErrQuotaExceeded) {
		t.Fatalf("err = %v, want ErrQuotaExceeded", err)
	}
	doc, _, _ := s.Load(ctx)
	if string(doc) != "small" {
		t.Errorf("rejected save overwrote the document: %q", doc)
	}
}
