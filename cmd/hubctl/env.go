package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fiddotdev/hub-go/config"
	"github.com/fiddotdev/hub-go/hexutil"
	"github.com/fiddotdev/hub-go/hubclient"
	"github.com/fiddotdev/hub-go/keys"
	"github.com/fiddotdev/hub-go/message"
	"github.com/fiddotdev/hub-go/protocol"
	"github.com/fiddotdev/hub-go/storage"
)

// errUsage marks flag problems that should exit 2.
var errUsage = errors.New("usage")

// common holds the flags every subcommand accepts.
type common struct {
	configPath string
	logLevel   string

	cfg *config.Config
	log *logrus.Logger
}

func addCommon(fs *flag.FlagSet) *common {
	c := &common{}
	fs.StringVar(&c.configPath, "config", os.Getenv("HUBCTL_CONFIG"), "YAML config file")
	fs.StringVar(&c.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	return c
}

// load reads the config and builds the stderr logger. Call after fs.Parse.
func (c *common) load(errOut io.Writer) error {
	cfg, err := config.LoadOrDefaults(c.configPath)
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	log, err := cfg.Log.NewLogger(errOut)
	if err != nil {
		return err
	}
	c.cfg, c.log = cfg, log
	return nil
}

// signerFlags select who signs and how the envelope is stamped. Unset flags
// fall back to the config's signer section.
type signerFlags struct {
	fid       uint64
	network   string
	seedHex   string
	keyFile   string
	name      string
	app       string
	keystore  string
	timestamp int64
}

func addSignerFlags(fs *flag.FlagSet) *signerFlags {
	s := &signerFlags{}
	fs.Uint64Var(&s.fid, "fid", 0, "Farcaster ID of the author")
	fs.StringVar(&s.network, "network", "", "Network: mainnet, testnet or devnet")
	fs.StringVar(&s.seedHex, "seed-hex", "", "Ed25519 signer seed as 64 hex chars")
	fs.StringVar(&s.keyFile, "key-file", "", "Path to a hex seed file")
	fs.StringVar(&s.name, "signer", "", "Key name in the keystore")
	fs.StringVar(&s.app, "app", "", "Derived app key under --signer")
	fs.StringVar(&s.keystore, "keystore", "", "Keystore directory (default ~/.hubctl/keys)")
	fs.Int64Var(&s.timestamp, "timestamp", -1, "Explicit Farcaster timestamp in seconds (default now)")
	return s
}

func (s *signerFlags) resolve(cfg *config.Config) (message.MessageDataOptions, message.Signer, error) {
	var opts message.MessageDataOptions
	sc := cfg.Signer
	if s.fid != 0 {
		sc.FID = s.fid
	}
	if s.network != "" {
		sc.Network = s.network
	}
	if s.seedHex != "" || s.keyFile != "" || s.name != "" {
		sc.Key, sc.KeyFile, sc.KeyName, sc.App = s.seedHex, s.keyFile, s.name, s.app
	}
	if s.keystore != "" {
		sc.KeystoreDir = s.keystore
	}
	if sc.FID == 0 {
		return opts, nil, fmt.Errorf("%w: missing --fid", errUsage)
	}
	network, err := sc.ParseNetwork()
	if err != nil {
		return opts, nil, fmt.Errorf("%w: %v", errUsage, err)
	}
	opts.FID = sc.FID
	opts.Network = network
	if s.timestamp >= 0 {
		if s.timestamp > int64(^uint32(0)) {
			return opts, nil, fmt.Errorf("%w: --timestamp out of range", errUsage)
		}
		ts := uint32(s.timestamp)
		opts.Timestamp = &ts
	}

	ks, err := keys.NewKeyStore(sc.KeystoreDir)
	if err != nil {
		return opts, nil, err
	}
	seed, err := ks.Load(sc.Key, sc.KeyName, sc.App, sc.KeyFile)
	if err != nil {
		if errors.Is(err, keys.ErrNoSigner) {
			return opts, nil, fmt.Errorf("%w: provide --seed-hex, --key-file or --signer", errUsage)
		}
		return opts, nil, err
	}
	signer, err := keys.SignerFromSeed(seed)
	if err != nil {
		return opts, nil, err
	}
	return opts, signer, nil
}

type hubFlags struct {
	target string
	tls    bool
}

func addHubFlags(fs *flag.FlagSet) *hubFlags {
	h := &hubFlags{}
	fs.StringVar(&h.target, "hub", "", "Hub gRPC address host:port (default from config)")
	fs.BoolVar(&h.tls, "tls", false, "Use TLS to reach the hub")
	return h
}

func (h *hubFlags) dial(cfg *config.Config, log logrus.FieldLogger) (*hubclient.Client, error) {
	target := cfg.Hub.Target
	if h.target != "" {
		target = h.target
	}
	client, err := hubclient.Dial(target, hubclient.DialOptions{
		Timeout:     cfg.Hub.DialTimeout,
		MaxMsgBytes: cfg.Hub.MaxMsgBytes,
		TLS:         cfg.Hub.TLS || h.tls,
		Log:         log,
	})
	if err != nil {
		return nil, fmt.Errorf("dial hub %s: %w", target, err)
	}
	client.Timeout = cfg.Hub.RPCTimeout
	return client, nil
}

// outputFlags decide what happens to a freshly signed message besides printing it.
type outputFlags struct {
	submit     bool
	archiveDir string
	hub        *hubFlags
}

func addOutputFlags(fs *flag.FlagSet) *outputFlags {
	o := &outputFlags{hub: addHubFlags(fs)}
	fs.BoolVar(&o.submit, "submit", false, "Submit the message to the hub")
	fs.StringVar(&o.archiveDir, "archive-dir", "", "Archive the message in this directory (default from config)")
	return o
}

// openArchive opens --archive-dir when given, else the configured archive.
// It returns nil when neither is set.
func openArchive(dir string, cfg *config.Config) (*storage.MessageStore, error) {
	if dir != "" {
		return config.ArchiveConfig{Dir: dir, WritePolicy: config.WritePolicyFirst}.Open()
	}
	return cfg.Archive.Open()
}

// emit prints msg and then archives and/or submits it as requested.
func (o *outputFlags) emit(ctx context.Context, c *common, msg *protocol.Message, out io.Writer) error {
	b, err := msg.MarshalBinary()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, hexutil.BytesToHex(b))

	log := c.log.WithField("hash", hexutil.BytesToHex(msg.Hash))
	store, err := openArchive(o.archiveDir, c.cfg)
	if err != nil {
		return err
	}
	if store != nil {
		id, err := store.Put(ctx, msg)
		if err != nil {
			return fmt.Errorf("archive: %w", err)
		}
		log.WithField("cid", id.String()).Info("message archived")
	}
	if o.submit {
		client, err := o.hub.dial(c.cfg, c.log)
		if err != nil {
			return err
		}
		defer client.Close()
		if _, err := client.SubmitMessage(ctx, msg); err != nil {
			return fmt.Errorf("submit: %w", err)
		}
	}
	return nil
}

// decodeMessageArg parses a hex-encoded Message from a positional argument
// ("-" reads stdin).
func decodeMessageArg(arg string) (*protocol.Message, error) {
	if arg == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, err
		}
		arg = string(b)
	}
	b, err := hexutil.HexToBytes(strings.TrimSpace(arg))
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	msg := new(protocol.Message)
	if err := msg.UnmarshalBinary(b); err != nil {
		return nil, err
	}
	return msg, nil
}

// exitCode reports err on errOut and maps it to a process exit code.
func exitCode(errOut io.Writer, prefix string, err error) int {
	if err == nil {
		return 0
	}
	fmt.Fprintf(errOut, "%s: %v\n", prefix, err)
	if errors.Is(err, errUsage) {
		return 2
	}
	return 1
}
