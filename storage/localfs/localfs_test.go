package localfs

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/multiformats/go-multihash"

	"github.com/fiddotdev/hub-go/cidutil"
	"github.com/fiddotdev/hub-go/storage"
	"github.com/fiddotdev/hub-go/storage/testkit"
)

func TestLocalFS_Conformance(t *testing.T) {
	testkit.RunCASConformance(t, func(t *testing.T) storage.CAS {
		t.Helper()
		cas, err := New(t.TempDir())
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		return cas
	})
}

func TestLocalFS_RejectMutationByOverwrite(t *testing.T) {
	ctx := context.Background()
	cas, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	orig := []byte("original")
	id, err := cas.Put(ctx, orig)
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// Corrupt the stored object out-of-band.
	path := cas.pathFor(id)
	if err := os.Chmod(path, 0o644); err != nil {
		t.Fatalf("Chmod failed: %v", err)
	}
	if err := os.WriteFile(path, []byte("corrupted"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := cas.Get(ctx, id); err != storage.ErrCIDMismatch {
		t.Fatalf("Get mismatch: got %v want %v", err, storage.ErrCIDMismatch)
	}
	if _, err := cas.Put(ctx, orig); err != storage.ErrImmutable {
		t.Fatalf("Put after corruption: got %v want %v", err, storage.ErrImmutable)
	}

	wantID, err := cidutil.Sum(orig)
	if err != nil {
		t.Fatalf("Sum failed: %v", err)
	}
	if id != wantID {
		t.Fatalf("unexpected CID: got %s want %s", id, wantID)
	}
}

func TestLocalFS_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	cas, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	id, err := cas.Put(context.Background(), []byte("payload"))
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	entries, err := os.ReadDir(filepath.Dir(cas.pathFor(id)))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != id.String() {
		t.Fatalf("unexpected shard contents: %v", entries)
	}
}

func TestLocalFS_ShardsByDigest(t *testing.T) {
	dir := t.TempDir()
	cas, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	shards := map[string]bool{}
	for i := 0; i < 64; i++ {
		id, err := cas.Put(context.Background(), []byte(fmt.Sprintf("object-%d", i)))
		if err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		dm, err := multihash.Decode(id.Hash())
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		want := filepath.Join(dir, hex.EncodeToString(dm.Digest[:1]), id.String())
		if got := cas.pathFor(id); got != want {
			t.Fatalf("pathFor = %s, want %s", got, want)
		}
		shards[filepath.Base(filepath.Dir(want))] = true
	}
	// 64 uniform digests over 256 shards all colliding is vanishingly unlikely.
	if len(shards) < 16 {
		t.Fatalf("objects spread over only %d shards", len(shards))
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != len(shards) {
		t.Fatalf("root has %d entries, want %d shard dirs", len(entries), len(shards))
	}
}

func TestLocalFS_CanceledContext(t *testing.T) {
	cas, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := cas.Put(ctx, []byte("x")); err != context.Canceled {
		t.Fatalf("Put: got %v want context.Canceled", err)
	}
}
