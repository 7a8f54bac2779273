package hubclient

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/fiddotdev/hub-go/hexutil"
	"github.com/fiddotdev/hub-go/protocol"
)

// Client talks to a single hub. It never retries.
type Client struct {
	cc     *grpc.ClientConn
	client HubServiceClient

	// Timeout applies per RPC when non-zero.
	Timeout time.Duration
	Log     logrus.FieldLogger
}

type DialOptions struct {
	// Timeout applies to the initial dial when non-zero.
	Timeout time.Duration

	// MaxMsgBytes sets both send/recv max sizes when non-zero.
	MaxMsgBytes int

	// TLS dials with system roots instead of plaintext.
	TLS bool

	Log logrus.FieldLogger
}

func Dial(target string, opts DialOptions) (*Client, error) {
	creds := insecure.NewCredentials()
	if opts.TLS {
		creds = credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
	}
	dialOpts := []grpc.DialOption{grpc.WithTransportCredentials(creds)}
	if opts.MaxMsgBytes > 0 {
		dialOpts = append(dialOpts,
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(opts.MaxMsgBytes),
				grpc.MaxCallSendMsgSize(opts.MaxMsgBytes),
			),
		)
	}

	ctx := context.Background()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cc, err := grpc.DialContext(ctx, target, dialOpts...)
	if err != nil {
		return nil, mapRPC(err)
	}
	c := NewFromConn(cc, opts.Log)
	c.logger().WithFields(logrus.Fields{"target": target, "tls": opts.TLS}).Debug("hub connection created")
	return c, nil
}

// NewFromConn wraps an existing connection (e.g. a bufconn in tests).
func NewFromConn(cc *grpc.ClientConn, log logrus.FieldLogger) *Client {
	return &Client{cc: cc, client: NewHubServiceClient(cc), Log: log}
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

// SubmitMessage sends a signed message and returns the hub's echo of it.
func (c *Client) SubmitMessage(ctx context.Context, msg *protocol.Message) (*protocol.Message, error) {
	if msg == nil {
		return nil, protocol.ErrNilMessage
	}
	ctx, cancel := c.rpcContext(ctx)
	defer cancel()

	fields := logrus.Fields{"hash": hexutil.BytesToHex(msg.Hash)}
	if msg.Data != nil {
		fields["fid"] = msg.Data.FID
		fields["type"] = msg.Data.Type.String()
	}
	log := c.logger().WithFields(fields)

	out, err := c.client.SubmitMessage(ctx, msg)
	if err != nil {
		err = mapRPC(err)
		log.WithError(err).Warn("submit failed")
		return nil, err
	}
	log.Info("message submitted")
	return out, nil
}

// GetInfo queries hub metadata, with database counters when dbStats is set.
func (c *Client) GetInfo(ctx context.Context, dbStats bool) (*protocol.HubInfoResponse, error) {
	ctx, cancel := c.rpcContext(ctx)
	defer cancel()

	out, err := c.client.GetInfo(ctx, &protocol.HubInfoRequest{DBStats: dbStats})
	if err != nil {
		err = mapRPC(err)
		c.logger().WithError(err).Warn("get info failed")
		return nil, err
	}
	c.logger().WithFields(logrus.Fields{"version": out.Version, "syncing": out.IsSyncing}).Debug("hub info received")
	return out, nil
}

func (c *Client) rpcContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.Timeout)
}

func (c *Client) logger() logrus.FieldLogger {
	if c.Log == nil {
		return logrus.StandardLogger()
	}
	return c.Log
}
