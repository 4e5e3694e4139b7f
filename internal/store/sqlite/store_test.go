package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := range 3 {
		_, err := store.Record(ctx, Entry{
			Agent:     "abc",
			Method:    "GET",
			Path:      fmt.Sprintf("/posts/%d", i),
			Status:    200,
			Kind:      "success",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	got, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if got[0].Path != "/posts/2" || got[1].Path != "/posts/1" {
		t.Fatalf("expected newest first, got %q then %q", got[0].Path, got[1].Path)
	}
	if got[0].ID == "" || !got[0].CreatedAt.Equal(base.Add(2*time.Minute)) {
		t.Fatalf("unexpected entry %+v", got[0])
	}
}

func TestAttachChallenge(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	id, err := store.Record(ctx, Entry{Agent: "abc", Method: "POST", Path: "/posts", Status: 201, Kind: "success"})
	if err != nil {
		t.Fatal(err)
	}
	if err := store.AttachChallenge(ctx, id, "X1"); err != nil {
		t.Fatal(err)
	}
	got, err := store.Recent(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got[0].ChallengeCode != "X1" {
		t.Fatalf("got %q, want X1", got[0].ChallengeCode)
	}
	if err := store.AttachChallenge(ctx, "missing", "X2"); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("got %v, want ErrEntryNotFound", err)
	}
}

func TestPrune(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, age := range []time.Duration{48 * time.Hour, 36 * time.Hour, time.Hour} {
		if _, err := store.Record(ctx, Entry{Agent: "a", Method: "GET", Path: "/feed", Kind: "success", CreatedAt: now.Add(-age)}); err != nil {
			t.Fatal(err)
		}
	}
	n, err := store.Prune(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("pruned %d, want 2", n)
	}
	left, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 1 {
		t.Fatalf("got %d entries left, want 1", len(left))
	}
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	a := Fingerprint("moltbook_key_1")
	if a == "moltbook_key_1" || len(a) != 16 {
		t.Fatalf("unexpected fingerprint %q", a)
	}
	if a != Fingerprint(" moltbook_key_1 ") {
		t.Fatal("fingerprint must ignore surrounding whitespace")
	}
	if a == Fingerprint("moltbook_key_2") {
		t.Fatal("different keys must differ")
	}
	if Fingerprint("") != "anonymous" {
		t.Fatal("empty key must be anonymous")
	}
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "path", "history.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("expected db file to exist at %s: %v", dbPath, err)
	}
}

func BenchmarkRecord(b *testing.B) {
	store, err := Open(filepath.Join(b.TempDir(), "bench.db"))
	if err != nil {
		b.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	for b.Loop() {
		if _, err := store.Record(ctx, Entry{Agent: "a", Method: "GET", Path: "/feed", Status: 200, Kind: "success"}); err != nil {
			b.Fatal(err)
		}
	}
}
