// Package backfill builds, signs and optionally submits or archives many
// messages concurrently on a bounded worker pool.
package backfill

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ipfs/go-cid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/fiddotdev/hub-go/hexutil"
	"github.com/fiddotdev/hub-go/message"
	"github.com/fiddotdev/hub-go/protocol"
)

var ErrNoSigner = errors.New("backfill: job has no signer")

// Submitter sends a signed message to a hub. *hubclient.Client satisfies it.
type Submitter interface {
	SubmitMessage(ctx context.Context, msg *protocol.Message) (*protocol.Message, error)
}

// Archiver records a signed message. *storage.MessageStore satisfies it.
type Archiver interface {
	Put(ctx context.Context, msg *protocol.Message) (cid.Cid, error)
}

// Item is one message to build. A nil Timestamp means the current time.
type Item struct {
	Type      protocol.MessageType
	Body      protocol.Body
	Timestamp *uint32
}

// Job carries the settings shared by every item. Signer must be safe for
// concurrent use; message.Ed25519Signer is.
type Job struct {
	FID     uint64
	Network protocol.Network
	Signer  message.Signer
	// Workers bounds concurrency; values below 1 mean 1.
	Workers int

	Submitter Submitter
	Archiver  Archiver
	Log       logrus.FieldLogger
}

// Result reports what happened to the item at Index.
type Result struct {
	Index     int
	Message   *protocol.Message
	CID       cid.Cid
	Submitted bool
	Err       error
}

// Run processes items and returns one Result per item, in input order.
// Item failures are reported in their Result and do not stop the run; the
// returned error is non-nil only when ctx ends first or the job is unusable.
func Run(ctx context.Context, job Job, items []Item) ([]Result, error) {
	if job.Signer == nil {
		return nil, ErrNoSigner
	}
	workers := job.Workers
	if workers < 1 {
		workers = 1
	}
	log := job.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	runID := uuid.NewString()
	log = log.WithFields(logrus.Fields{"run": runID, "fid": job.FID})
	start := time.Now()
	log.WithFields(logrus.Fields{"items": len(items), "workers": workers}).Info("backfill started")

	results := make([]Result, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range items {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			results[i] = job.process(gctx, i, items[i], log)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		for i := range results {
			if results[i].Message == nil && results[i].Err == nil {
				results[i] = Result{Index: i, Err: err}
			}
		}
		log.WithError(err).Warn("backfill interrupted")
		return results, err
	}

	s := Summarize(results)
	log.WithFields(logrus.Fields{
		"built":     s.Built,
		"submitted": s.Submitted,
		"archived":  s.Archived,
		"failed":    s.Failed,
		"elapsed":   time.Since(start).String(),
	}).Info("backfill finished")
	return results, nil
}

func (job Job) process(ctx context.Context, i int, it Item, log logrus.FieldLogger) Result {
	res := Result{Index: i}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	data, err := message.MakeMessageData(it.Body, it.Type, message.MessageDataOptions{
		FID:       job.FID,
		Network:   job.Network,
		Timestamp: it.Timestamp,
	})
	if err != nil {
		res.Err = err
		return res
	}
	if _, err := message.ValidateMessageData(data); err != nil {
		res.Err = err
		return res
	}
	msg, err := message.MakeMessage(data, job.Signer)
	if err != nil {
		res.Err = err
		return res
	}
	res.Message = msg
	entry := log.WithFields(logrus.Fields{"index": i, "hash": hexutil.BytesToHex(msg.Hash)})

	if job.Archiver != nil {
		id, err := job.Archiver.Put(ctx, msg)
		if err != nil {
			entry.WithError(err).Warn("archive failed")
			res.Err = err
			return res
		}
		res.CID = id
	}
	if job.Submitter != nil {
		if _, err := job.Submitter.SubmitMessage(ctx, msg); err != nil {
			entry.WithError(err).Warn("submit failed")
			res.Err = err
			return res
		}
		res.Submitted = true
	}
	entry.Debug("item done")
	return res
}

// Stats counts outcomes across a run.
type Stats struct {
	Built     int
	Submitted int
	Archived  int
	Failed    int
}

func Summarize(results []Result) Stats {
	var s Stats
	for _, r := range results {
		if r.Message != nil {
			s.Built++
		}
		if r.Submitted {
			s.Submitted++
		}
		if r.CID.Defined() {
			s.Archived++
		}
		if r.Err != nil {
			s.Failed++
		}
	}
	return s
}

// CastItems turns each text into a cast-add item.
func CastItems(texts []string) []Item {
	items := make([]Item, 0, len(texts))
	for _, text := range texts {
		items = append(items, Item{
			Type: protocol.MessageTypeCastAdd,
			Body: &protocol.CastAddBody{Text: text},
		})
	}
	return items
}
