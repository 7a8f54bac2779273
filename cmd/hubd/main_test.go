package main

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/fiddotdev/hub-go/cidutil"
	"github.com/fiddotdev/hub-go/hubclient"
	"github.com/fiddotdev/hub-go/message"
	"github.com/fiddotdev/hub-go/protocol"
	"github.com/fiddotdev/hub-go/storage/localfs"
)

// syncBuffer guards the log buffer shared with the server goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func TestRunServesAndStops(t *testing.T) {
	t.Setenv("HUBCTL_CONFIG", "")
	archive := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ready := make(chan net.Addr, 1)
	done := make(chan int, 1)
	var logs syncBuffer
	go func() {
		done <- run(ctx, []string{"--listen", "127.0.0.1:0", "--nickname", "ci", "--archive-dir", archive}, &logs, ready)
	}()

	var addr net.Addr
	select {
	case addr = <-ready:
	case code := <-done:
		t.Fatalf("hubd exited early with %d", code)
	case <-time.After(10 * time.Second):
		t.Fatalf("hubd did not start")
	}

	client, err := hubclient.Dial(addr.String(), hubclient.DialOptions{Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()

	signer, err := message.NewEd25519Signer(ed25519.NewKeyFromSeed(bytes.Repeat([]byte{5}, ed25519.SeedSize)))
	if err != nil {
		t.Fatalf("NewEd25519Signer: %v", err)
	}
	ts := uint32(1000)
	msg, err := message.MakeCastAdd(&protocol.CastAddBody{Text: "served"}, message.MessageDataOptions{
		FID: 11, Network: protocol.NetworkDevnet, Timestamp: &ts,
	}, signer)
	if err != nil {
		t.Fatalf("MakeCastAdd: %v", err)
	}
	if _, err := client.SubmitMessage(ctx, msg); err != nil {
		t.Fatalf("SubmitMessage: %v", err)
	}

	info, err := client.GetInfo(ctx, true)
	if err != nil {
		t.Fatalf("GetInfo: %v", err)
	}
	if info.Nickname != "ci" || info.DBStats == nil || info.DBStats.NumMessages != 1 {
		t.Fatalf("unexpected info: %+v", info)
	}

	b, err := msg.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	id, err := cidutil.Sum(b)
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	cas, err := localfs.New(archive)
	if err != nil {
		t.Fatalf("localfs.New: %v", err)
	}
	if ok, err := cas.Has(ctx, id); err != nil || !ok {
		t.Fatalf("accepted message not archived: %v %v", ok, err)
	}

	cancel()
	select {
	case code := <-done:
		if code != 0 {
			t.Fatalf("hubd exit code = %d", code)
		}
	case <-time.After(10 * time.Second):
		t.Fatalf("hubd did not stop")
	}
}

func TestRunRejectsBadFlags(t *testing.T) {
	t.Setenv("HUBCTL_CONFIG", "")
	var logs syncBuffer
	if code := run(context.Background(), []string{"--nope"}, &logs, nil); code != 2 {
		t.Fatalf("code = %d", code)
	}
}
