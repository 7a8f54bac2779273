package storage_test

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"errors"
	"sync"
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fiddotdev/hub-go/cidutil"
	"github.com/fiddotdev/hub-go/message"
	"github.com/fiddotdev/hub-go/protocol"
	"github.com/fiddotdev/hub-go/storage"
	"github.com/fiddotdev/hub-go/storage/localfs"
	"github.com/fiddotdev/hub-go/storage/testkit"
)

type memCAS struct {
	mu   sync.Mutex
	objs map[cid.Cid][]byte
	puts int
}

func newMemCAS() *memCAS { return &memCAS{objs: map[cid.Cid][]byte{}} }

func (m *memCAS) Put(_ context.Context, b []byte) (cid.Cid, error) {
	id, err := cidutil.Sum(b)
	if err != nil {
		return cid.Undef, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	if existing, ok := m.objs[id]; ok && !bytes.Equal(existing, b) {
		return cid.Undef, storage.ErrImmutable
	}
	m.objs[id] = append([]byte(nil), b...)
	return id, nil
}

func (m *memCAS) Get(_ context.Context, id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, storage.ErrInvalidCID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objs[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), b...), nil
}

func (m *memCAS) Has(_ context.Context, id cid.Cid) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objs[id]
	return ok, nil
}

// lyingCAS reports a fixed CID regardless of the bytes written.
type lyingCAS struct{ *memCAS }

func (l *lyingCAS) Put(context.Context, []byte) (cid.Cid, error) {
	return cidutil.Sum([]byte("something else"))
}

func TestMemCAS_Conformance(t *testing.T) {
	testkit.RunCASConformance(t, func(t *testing.T) storage.CAS { return newMemCAS() })
}

func TestMultiCAS_Fallback(t *testing.T) {
	ctx := context.Background()
	primary, secondary := newMemCAS(), newMemCAS()
	id, err := secondary.Put(ctx, []byte("only in secondary"))
	require.NoError(t, err)

	m := storage.MultiCAS{Adapters: []storage.CAS{primary, secondary}}
	got, err := m.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []byte("only in secondary"), got)

	ok, err := m.Has(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = m.Put(ctx, []byte("new"))
	require.NoError(t, err)
	assert.Equal(t, 1, primary.puts)
	assert.Equal(t, 1, secondary.puts)

	missing, _ := cidutil.Sum([]byte("missing"))
	_, err = m.Get(ctx, missing)
	assert.True(t, storage.IsNotFound(err))

	_, err = storage.MultiCAS{}.Put(ctx, []byte("x"))
	assert.ErrorIs(t, err, storage.ErrNoBackends)
}

func TestReplicatingCAS_PutAll(t *testing.T) {
	ctx := context.Background()
	a, b := newMemCAS(), newMemCAS()
	r := storage.ReplicatingCAS{Backends: []storage.NamedCAS{{Name: "a", CAS: a}, {Name: "b", CAS: b}}}

	id, per, err := r.PutAll(ctx, []byte("replicated"))
	require.NoError(t, err)
	assert.Equal(t, id, per["a"])
	assert.Equal(t, id, per["b"])
	for _, cas := range []*memCAS{a, b} {
		ok, err := cas.Has(ctx, id)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	bad := storage.ReplicatingCAS{Backends: []storage.NamedCAS{{Name: "a", CAS: newMemCAS()}, {Name: "liar", CAS: &lyingCAS{memCAS: newMemCAS()}}}}
	_, _, err = bad.PutAll(ctx, []byte("replicated"))
	assert.ErrorIs(t, err, storage.ErrCIDMismatch)
}

func signedMessage(t *testing.T, text string) *protocol.Message {
	t.Helper()
	signer, err := message.NewEd25519Signer(ed25519.NewKeyFromSeed(bytes.Repeat([]byte{3}, ed25519.SeedSize)))
	require.NoError(t, err)
	ts := uint32(100)
	msg, err := message.MakeCastAdd(&protocol.CastAddBody{Text: text}, message.MessageDataOptions{
		FID: 7, Network: protocol.NetworkDevnet, Timestamp: &ts,
	}, signer)
	require.NoError(t, err)
	return msg
}

func TestMessageStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	cas, err := localfs.New(t.TempDir())
	require.NoError(t, err)
	store := storage.NewMessageStore(cas)

	msg := signedMessage(t, "archived")
	id, err := store.Put(ctx, msg)
	require.NoError(t, err)

	ok, err := store.Has(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, msg.Hash, got.Hash)
	assert.Equal(t, msg.Signature, got.Signature)
	assert.Equal(t, "archived", got.Data.Body.(*protocol.CastAddBody).Text)

	again, err := store.Put(ctx, msg)
	require.NoError(t, err)
	assert.Equal(t, id, again)
}

func TestMessageStore_RefusesUnverified(t *testing.T) {
	store := storage.NewMessageStore(newMemCAS())
	msg := signedMessage(t, "tampered")
	msg.Data.FID = 8

	_, err := store.Put(context.Background(), msg)
	require.Error(t, err)
	assert.True(t, message.IsKind(err, message.KindVerification))
}

func TestMessageStore_DetectsCorruptObjects(t *testing.T) {
	ctx := context.Background()
	cas := newMemCAS()
	store := storage.NewMessageStore(cas)

	garbage, err := cas.Put(ctx, []byte{0xff, 0xff, 0xff})
	require.NoError(t, err)
	_, err = store.Get(ctx, garbage)
	assert.ErrorIs(t, err, storage.ErrCorrupt)

	// A well-formed message whose signature was stripped.
	msg := signedMessage(t, "x")
	msg.Signature = nil
	b, err := msg.MarshalBinary()
	require.NoError(t, err)
	unsigned, err := cas.Put(ctx, b)
	require.NoError(t, err)
	_, err = store.Get(ctx, unsigned)
	assert.ErrorIs(t, err, storage.ErrCorrupt)

	var nilStore *storage.MessageStore
	_, err = nilStore.Get(ctx, unsigned)
	assert.True(t, errors.Is(err, storage.ErrNoBackends))
}

func TestCIDUtil_Parse(t *testing.T) {
	id, err := cidutil.Sum([]byte("x"))
	require.NoError(t, err)
	parsed, err := cidutil.Parse(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = cidutil.Parse("not-a-cid")
	assert.Error(t, err)

	v0 := cid.NewCidV0(id.Hash())
	_, err = cidutil.Parse(v0.String())
	assert.ErrorIs(t, err, cidutil.ErrUnsupportedCID)
}
