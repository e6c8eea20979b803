package middleware

import (
	"context"
	"testing"
)

func TestRequestHashDeterministic(t *testing.T) {
	hash1 := RequestHash([]byte("POST /companies/c1/runs/2025-04/close"))
	hash2 := RequestHash([]byte("POST /companies/c1/runs/2025-04/close"))
	hash3 := RequestHash([]byte("POST /companies/c1/runs/2025-05/close"))

	if hash1 != hash2 {
		t.Fatal("expected deterministic hash")
	}
	if hash1 == hash3 {
		t.Fatal("expected different hash for different request")
	}
}

func TestNilStoreIsPassThrough(t *testing.T) {
	var store *IdempotencyStore

	stored, found, err := store.Check(context.Background(), "c1", "u1", "runs.close", "key", "hash")
	if err != nil || found || stored != nil {
		t.Fatalf("nil store Check = (%v, %v, %v), want miss", stored, found, err)
	}
	if err := store.Save(context.Background(), "c1", "u1", "runs.close", "key", "hash", nil); err != nil {
		t.Fatalf("nil store Save failed: %v", err)
	}
}
