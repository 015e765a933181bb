// Package storagetest holds behaviour checks shared by every storage.Store
// implementation.
package storagetest

import (
	"context"
	"testing"

	"lumina/internal/storage"
)

// Run exercises the Store contract against s.
func Run(t *testing.T, s storage.Store) {
	t.Helper()
	ctx := context.Background()

	if _, found, err := s.Get(ctx, storage.ProfileKey); err != nil || found {
		t.Fatalf("empty store: found=%v err=%v", found, err)
	}

	if err := s.Set(ctx, storage.ProfileKey, `{"name":"a"}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(ctx, storage.ProfileKey, `{"name":"b"}`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := s.Set(ctx, storage.TransactionsKey, `[]`); err != nil {
		t.Fatalf("set second key: %v", err)
	}

	v, found, err := s.Get(ctx, storage.ProfileKey)
	if err != nil || !found || v != `{"name":"b"}` {
		t.Fatalf("get after overwrite: v=%q found=%v err=%v", v, found, err)
	}

	if err := s.Delete(ctx, storage.ProfileKey); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found, _ := s.Get(ctx, storage.ProfileKey); found {
		t.Fatalf("key still present after delete")
	}
	if err := s.Delete(ctx, storage.ProfileKey); err != nil {
		t.Fatalf("deleting an absent key must not fail: %v", err)
	}

	if v, found, _ := s.Get(ctx, storage.TransactionsKey); !found || v != `[]` {
		t.Fatalf("unrelated key affected by delete: v=%q found=%v", v, found)
	}
}
