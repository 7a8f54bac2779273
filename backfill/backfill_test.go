package backfill

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ipfs/go-cid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fiddotdev/hub-go/cidutil"
	"github.com/fiddotdev/hub-go/message"
	"github.com/fiddotdev/hub-go/protocol"
)

type fakeHub struct {
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	mu       sync.Mutex
	texts    []string
	reject   string
}

func (h *fakeHub) SubmitMessage(ctx context.Context, msg *protocol.Message) (*protocol.Message, error) {
	n := h.inFlight.Add(1)
	defer h.inFlight.Add(-1)
	for {
		seen := h.maxSeen.Load()
		if n <= seen || h.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	time.Sleep(2 * time.Millisecond)

	text := msg.Data.Body.(*protocol.CastAddBody).Text
	if text == h.reject {
		return nil, errors.New("rejected")
	}
	h.mu.Lock()
	h.texts = append(h.texts, text)
	h.mu.Unlock()
	return msg, nil
}

type memArchive struct {
	mu   sync.Mutex
	msgs map[cid.Cid]*protocol.Message
}

func (a *memArchive) Put(_ context.Context, msg *protocol.Message) (cid.Cid, error) {
	b, err := msg.MarshalBinary()
	if err != nil {
		return cid.Undef, err
	}
	id, err := cidutil.Sum(b)
	if err != nil {
		return cid.Undef, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.msgs[id] = msg
	return id, nil
}

func testJob(t *testing.T) Job {
	t.Helper()
	signer, err := message.NewEd25519Signer(ed25519.NewKeyFromSeed(bytes.Repeat([]byte{9}, ed25519.SeedSize)))
	require.NoError(t, err)
	log := logrus.New()
	log.SetOutput(io.Discard)
	return Job{FID: 1117, Network: protocol.NetworkMainnet, Signer: signer, Workers: 3, Log: log}
}

func TestRun_OrderAndOutcomes(t *testing.T) {
	job := testJob(t)
	hub := &fakeHub{reject: "bad"}
	archive := &memArchive{msgs: map[cid.Cid]*protocol.Message{}}
	job.Submitter = hub
	job.Archiver = archive

	texts := []string{"a", "b", "bad", "d", "e", "f", "g", "h"}
	results, err := Run(context.Background(), job, CastItems(texts))
	require.NoError(t, err)
	require.Len(t, results, len(texts))

	for i, r := range results {
		assert.Equal(t, i, r.Index)
		require.NotNil(t, r.Message, "item %d", i)
		assert.Equal(t, texts[i], r.Message.Data.Body.(*protocol.CastAddBody).Text)
		assert.NoError(t, message.VerifyMessage(r.Message))
		assert.True(t, r.CID.Defined())
		if texts[i] == "bad" {
			assert.Error(t, r.Err)
			assert.False(t, r.Submitted)
		} else {
			assert.NoError(t, r.Err)
			assert.True(t, r.Submitted)
		}
	}

	s := Summarize(results)
	assert.Equal(t, Stats{Built: 8, Submitted: 7, Archived: 8, Failed: 1}, s)
	assert.Len(t, archive.msgs, 8)
	assert.LessOrEqual(t, int(hub.maxSeen.Load()), job.Workers)
}

func TestRun_ItemErrorsDoNotStopRun(t *testing.T) {
	job := testJob(t)
	future := uint32(1 << 31)
	items := []Item{
		{Type: protocol.MessageTypeCastAdd, Body: &protocol.CastAddBody{Text: "ok"}},
		{Type: protocol.MessageTypeCastAdd, Body: nil},
		{Type: protocol.MessageTypeCastAdd, Body: &protocol.CastAddBody{Text: "later"}, Timestamp: &future},
	}
	results, err := Run(context.Background(), job, items)
	require.NoError(t, err)

	assert.NoError(t, results[0].Err)
	assert.True(t, message.IsKind(results[1].Err, message.KindInvalidBody))
	assert.True(t, message.IsKind(results[2].Err, message.KindTimestampInFuture))
	assert.Nil(t, results[2].Message)
}

func TestRun_Canceled(t *testing.T) {
	job := testJob(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := Run(ctx, job, CastItems([]string{"a", "b"}))
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 2)
	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
}

func TestRun_NoSigner(t *testing.T) {
	_, err := Run(context.Background(), Job{}, nil)
	assert.ErrorIs(t, err, ErrNoSigner)
}
