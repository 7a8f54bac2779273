package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/fiddotdev/hub-go/cidutil"
	"github.com/fiddotdev/hub-go/hexutil"
	"github.com/fiddotdev/hub-go/message"
	"github.com/fiddotdev/hub-go/protocol"
)

// messageSummary is the YAML view printed by verify and archive get.
type messageSummary struct {
	Type      string `yaml:"type"`
	FID       uint64 `yaml:"fid"`
	Network   string `yaml:"network"`
	Timestamp uint32 `yaml:"timestamp"`
	Hash      string `yaml:"hash"`
	Signer    string `yaml:"signer"`
	Valid     bool   `yaml:"valid"`
}

func summarize(msg *protocol.Message) messageSummary {
	s := messageSummary{Hash: hexutil.BytesToHex(msg.Hash), Signer: hexutil.BytesToHex(msg.Signer)}
	if msg.Data != nil {
		s.Type = msg.Data.Type.String()
		s.FID = msg.Data.FID
		s.Network = msg.Data.Network.String()
		s.Timestamp = msg.Data.Timestamp
	}
	return s
}

func writeYAML(out io.Writer, v any) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// oneArg parses fs and requires exactly one positional argument.
func oneArg(fs *flag.FlagSet, args []string, what string) (string, bool) {
	if err := fs.Parse(args); err != nil {
		return "", false
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(fs.Output(), "expected exactly one %s argument\n", what)
		return "", false
	}
	return fs.Arg(0), true
}

func cmdValidate(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(errOut)
	now := fs.Int64("now", -1, "Validate against this Farcaster time in seconds (default current)")
	arg, ok := oneArg(fs, args, "<message-hex>")
	if !ok {
		return 2
	}
	msg, err := decodeMessageArg(arg)
	if err != nil {
		return exitCode(errOut, "validate", err)
	}
	at := *now
	if at < 0 {
		if at, err = message.Now(); err != nil {
			return exitCode(errOut, "validate", err)
		}
	}

	failures := message.ValidateMessageDataAll(msg.Data, at)
	if err := message.VerifyMessage(msg); err != nil {
		failures = append(failures, err)
	}
	if msg.Data != nil && !message.BodyMatchesType(msg.Data) {
		failures = append(failures, fmt.Errorf("body does not match message type %s", msg.Data.Type))
	}
	if len(failures) == 0 {
		fmt.Fprintln(out, "OK")
		return 0
	}
	for _, f := range failures {
		if id := message.RuleID(f); id != "" {
			fmt.Fprintf(out, "FAIL %s: %v\n", id, f)
		} else {
			fmt.Fprintf(out, "FAIL %v\n", f)
		}
	}
	return 1
}

func cmdVerify(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(errOut)
	arg, ok := oneArg(fs, args, "<message-hex>")
	if !ok {
		return 2
	}
	msg, err := decodeMessageArg(arg)
	if err != nil {
		return exitCode(errOut, "verify", err)
	}
	summary := summarize(msg)
	verr := message.VerifyMessage(msg)
	summary.Valid = verr == nil
	if err := writeYAML(out, summary); err != nil {
		return exitCode(errOut, "verify", err)
	}
	if verr != nil {
		fmt.Fprintf(errOut, "verify: %s: %v\n", message.RuleID(verr), verr)
		return 1
	}
	return 0
}

func cmdSubmit(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("submit", flag.ContinueOnError)
	fs.SetOutput(errOut)
	c := addCommon(fs)
	hf := addHubFlags(fs)
	arg, ok := oneArg(fs, args, "<message-hex>")
	if !ok {
		return 2
	}
	if err := c.load(errOut); err != nil {
		return exitCode(errOut, "submit", err)
	}
	msg, err := decodeMessageArg(arg)
	if err != nil {
		return exitCode(errOut, "submit", err)
	}
	client, err := hf.dial(c.cfg, c.log)
	if err != nil {
		return exitCode(errOut, "submit", err)
	}
	defer client.Close()

	accepted, err := client.SubmitMessage(context.Background(), msg)
	if err != nil {
		return exitCode(errOut, "submit", err)
	}
	fmt.Fprintln(out, hexutil.BytesToHex(accepted.Hash))
	return 0
}

// hubInfo is the YAML view of a GetInfo response.
type hubInfo struct {
	Version        string   `yaml:"version"`
	Nickname       string   `yaml:"nickname"`
	IsSyncing      bool     `yaml:"is_syncing"`
	RootHash       string   `yaml:"root_hash,omitempty"`
	PeerID         string   `yaml:"peer_id,omitempty"`
	HubOperatorFID uint64   `yaml:"hub_operator_fid,omitempty"`
	DBStats        *dbStats `yaml:"db_stats,omitempty"`
}

type dbStats struct {
	NumMessages    uint64 `yaml:"num_messages"`
	NumFIDEvents   uint64 `yaml:"num_fid_events"`
	NumFnameEvents uint64 `yaml:"num_fname_events"`
}

func cmdInfo(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	fs.SetOutput(errOut)
	c := addCommon(fs)
	hf := addHubFlags(fs)
	withStats := fs.Bool("db-stats", false, "Include database statistics")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if err := c.load(errOut); err != nil {
		return exitCode(errOut, "info", err)
	}
	client, err := hf.dial(c.cfg, c.log)
	if err != nil {
		return exitCode(errOut, "info", err)
	}
	defer client.Close()

	resp, err := client.GetInfo(context.Background(), *withStats)
	if err != nil {
		return exitCode(errOut, "info", err)
	}
	view := hubInfo{
		Version:        resp.Version,
		Nickname:       resp.Nickname,
		IsSyncing:      resp.IsSyncing,
		RootHash:       resp.RootHash,
		PeerID:         resp.PeerID,
		HubOperatorFID: resp.HubOperatorFID,
	}
	if resp.DBStats != nil {
		view.DBStats = &dbStats{
			NumMessages:    resp.DBStats.NumMessages,
			NumFIDEvents:   resp.DBStats.NumFIDEvents,
			NumFnameEvents: resp.DBStats.NumFnameEvents,
		}
	}
	if err := writeYAML(out, view); err != nil {
		return exitCode(errOut, "info", err)
	}
	return 0
}

func cmdArchive(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "archive subcommand required: get, put")
		return 2
	}
	switch args[0] {
	case "get":
		return cmdArchiveGet(args[1:], out, errOut)
	case "put":
		return cmdArchivePut(args[1:], out, errOut)
	default:
		fmt.Fprintf(errOut, "unknown archive subcommand: %s\n", args[0])
		return 2
	}
}

func cmdArchiveGet(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("archive get", flag.ContinueOnError)
	fs.SetOutput(errOut)
	c := addCommon(fs)
	dir := fs.String("archive-dir", "", "Archive directory (default from config)")
	asYAML := fs.Bool("summary", false, "Print a YAML summary instead of hex")
	arg, ok := oneArg(fs, args, "<cid>")
	if !ok {
		return 2
	}
	if err := c.load(errOut); err != nil {
		return exitCode(errOut, "archive get", err)
	}
	id, err := cidutil.Parse(arg)
	if err != nil {
		return exitCode(errOut, "archive get", err)
	}
	store, err := openArchive(*dir, c.cfg)
	if err != nil {
		return exitCode(errOut, "archive get", err)
	}
	if store == nil {
		fmt.Fprintln(errOut, "no archive configured; pass --archive-dir")
		return 2
	}

	msg, err := store.Get(context.Background(), id)
	if err != nil {
		return exitCode(errOut, "archive get", err)
	}
	if *asYAML {
		summary := summarize(msg)
		summary.Valid = true
		if err := writeYAML(out, summary); err != nil {
			return exitCode(errOut, "archive get", err)
		}
		return 0
	}
	b, err := msg.MarshalBinary()
	if err != nil {
		return exitCode(errOut, "archive get", err)
	}
	fmt.Fprintln(out, hexutil.BytesToHex(b))
	return 0
}

func cmdArchivePut(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("archive put", flag.ContinueOnError)
	fs.SetOutput(errOut)
	c := addCommon(fs)
	dir := fs.String("archive-dir", "", "Archive directory (default from config)")
	arg, ok := oneArg(fs, args, "<message-hex>")
	if !ok {
		return 2
	}
	if err := c.load(errOut); err != nil {
		return exitCode(errOut, "archive put", err)
	}
	msg, err := decodeMessageArg(arg)
	if err != nil {
		return exitCode(errOut, "archive put", err)
	}
	store, err := openArchive(*dir, c.cfg)
	if err != nil {
		return exitCode(errOut, "archive put", err)
	}
	if store == nil {
		fmt.Fprintln(errOut, "no archive configured; pass --archive-dir")
		return 2
	}
	id, err := store.Put(context.Background(), msg)
	if err != nil {
		return exitCode(errOut, "archive put", err)
	}
	fmt.Fprintln(out, id.String())
	return 0
}
