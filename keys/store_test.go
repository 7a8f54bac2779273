package keys

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestKeyStore_InitDeriveExportList(t *testing.T) {
	ks, err := NewKeyStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewKeyStore: %v", err)
	}
	root := testRoot()

	pub, path, err := ks.Init("alice", root, false)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if want, _ := PublicKeyHex(root); pub != want {
		t.Fatalf("Init pub = %s, want %s", pub, want)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("key file mode = %v", info.Mode().Perm())
	}

	if _, _, err := ks.Init("alice", root, false); err == nil {
		t.Fatalf("expected Init without overwrite to fail on existing key")
	}
	if _, _, err := ks.Init("alice", root, true); err != nil {
		t.Fatalf("Init overwrite: %v", err)
	}

	appPub, _, err := ks.Derive("alice", "casts", false)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if _, _, err := ks.Derive("alice", "reactions", false); err != nil {
		t.Fatalf("Derive: %v", err)
	}

	exported, err := ks.Export("alice", "casts")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if exported != appPub {
		t.Fatalf("Export = %s, want %s", exported, appPub)
	}

	seed, err := ks.Load("", "alice", "casts", "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	derived, _ := DeriveSignerSeed(root, "casts")
	if !bytes.Equal(seed, derived) {
		t.Fatalf("stored app seed does not match derivation")
	}

	entries, err := ks.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "alice" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
	if got := entries[0].Apps; len(got) != 2 || got[0] != "casts" || got[1] != "reactions" {
		t.Fatalf("unexpected apps: %v", got)
	}
}

func TestKeyStore_LoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	ks := &KeyStore{Directory: dir}
	root := testRoot()

	seed, err := ks.Load("0x"+"42424242424242424242424242424242"+"42424242424242424242424242424242", "ignored", "", "")
	if err != nil {
		t.Fatalf("Load hex: %v", err)
	}
	if seed[0] != 0x42 {
		t.Fatalf("inline seed not used")
	}

	keyFile := filepath.Join(dir, "signer.key")
	if err := saveSeed(keyFile, root, false); err != nil {
		t.Fatalf("saveSeed: %v", err)
	}
	seed, err = ks.Load("", "", "", keyFile)
	if err != nil {
		t.Fatalf("Load file: %v", err)
	}
	if !bytes.Equal(seed, root) {
		t.Fatalf("key file seed mismatch")
	}

	if _, err := ks.Load("", "", "", ""); !errors.Is(err, ErrNoSigner) {
		t.Fatalf("expected ErrNoSigner, got %v", err)
	}
	if _, err := ks.Load("", "../etc", "", ""); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
	if _, err := ks.Load("abcd", "", "", ""); !errors.Is(err, ErrInvalidSeed) {
		t.Fatalf("expected ErrInvalidSeed, got %v", err)
	}
}

func TestKeyStore_ListMissingDirectory(t *testing.T) {
	ks := &KeyStore{Directory: filepath.Join(t.TempDir(), "missing")}
	entries, err := ks.List()
	if err != nil || entries != nil {
		t.Fatalf("List = %v, %v", entries, err)
	}
}
