// Package devhub is an in-process stand-in for a hub, for local development
// and tests. It applies envelope checks to submitted messages and archives
// the ones it accepts. It keeps no CRDT state and does not gossip.
package devhub

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/fiddotdev/hub-go/hexutil"
	"github.com/fiddotdev/hub-go/hubclient"
	"github.com/fiddotdev/hub-go/message"
	"github.com/fiddotdev/hub-go/protocol"
	"github.com/fiddotdev/hub-go/storage"
)

const Version = "devhub-0.1"

type Server struct {
	hubclient.UnimplementedHubServiceServer

	// Store archives accepted messages when set.
	Store    *storage.MessageStore
	Nickname string
	Log      logrus.FieldLogger

	// Now overrides the protocol clock in tests.
	Now func() (int64, error)

	accepted atomic.Uint64
}

func (s *Server) SubmitMessage(ctx context.Context, msg *protocol.Message) (*protocol.Message, error) {
	if s == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing server")
	}
	now, err := s.clock()
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	log := s.logger()

	if _, err := message.ValidateMessage(msg, now); err != nil {
		log.WithField("rule", message.RuleID(err)).WithError(err).Info("message rejected")
		return nil, mapErr(err)
	}
	if !message.BodyMatchesType(msg.Data) {
		log.WithField("type", msg.Data.Type.String()).Info("message rejected: body does not match type")
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("body does not match message type %s", msg.Data.Type))
	}

	fields := logrus.Fields{
		"fid":  msg.Data.FID,
		"type": msg.Data.Type.String(),
		"hash": hexutil.BytesToHex(msg.Hash),
	}
	if s.Store != nil {
		id, err := s.Store.Put(ctx, msg)
		if err != nil {
			log.WithFields(fields).WithError(err).Error("archive failed")
			return nil, mapErr(err)
		}
		fields["cid"] = id.String()
	}
	s.accepted.Add(1)
	log.WithFields(fields).Info("message accepted")
	return msg, nil
}

func (s *Server) GetInfo(_ context.Context, req *protocol.HubInfoRequest) (*protocol.HubInfoResponse, error) {
	resp := &protocol.HubInfoResponse{Version: Version, Nickname: s.Nickname}
	if req.DBStats {
		resp.DBStats = &protocol.DBStats{NumMessages: s.accepted.Load()}
	}
	return resp, nil
}

// Accepted returns how many messages have been accepted so far.
func (s *Server) Accepted() uint64 { return s.accepted.Load() }

func (s *Server) clock() (int64, error) {
	if s.Now != nil {
		return s.Now()
	}
	return message.Now()
}

func (s *Server) logger() logrus.FieldLogger {
	if s.Log == nil {
		return logrus.StandardLogger()
	}
	return s.Log
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	var me *message.Error
	if errors.As(err, &me) {
		switch me.Kind {
		case message.KindTimestampUnavailable, message.KindInternal:
			return status.Error(codes.Internal, err.Error())
		default:
			return status.Error(codes.InvalidArgument, me.RuleID+": "+err.Error())
		}
	}
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, storage.ErrImmutable), errors.Is(err, storage.ErrCIDMismatch):
		return status.Error(codes.DataLoss, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
