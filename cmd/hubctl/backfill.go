package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/fiddotdev/hub-go/backfill"
	"github.com/fiddotdev/hub-go/hexutil"
)

// readLines returns the non-blank lines of path ("-" reads stdin).
func readLines(path string) ([]string, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, sc.Err()
}

func cmdBackfill(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("backfill", flag.ContinueOnError)
	fs.SetOutput(errOut)
	c := addCommon(fs)
	sf := addSignerFlags(fs)
	of := addOutputFlags(fs)
	textsPath := fs.String("texts", "", "File with one cast text per line (- for stdin)")
	workers := fs.Int("workers", 0, "Concurrent workers (default from config)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *textsPath == "" {
		fmt.Fprintln(errOut, "missing --texts")
		return 2
	}
	if err := c.load(errOut); err != nil {
		return exitCode(errOut, "backfill", err)
	}
	opts, signer, err := sf.resolve(c.cfg)
	if err != nil {
		return exitCode(errOut, "backfill", err)
	}
	texts, err := readLines(*textsPath)
	if err != nil {
		return exitCode(errOut, "backfill", err)
	}

	job := backfill.Job{
		FID:     opts.FID,
		Network: opts.Network,
		Signer:  signer,
		Workers: c.cfg.Backfill.Workers,
		Log:     c.log,
	}
	if *workers > 0 {
		job.Workers = *workers
	}
	store, err := openArchive(of.archiveDir, c.cfg)
	if err != nil {
		return exitCode(errOut, "backfill", err)
	}
	if store != nil {
		job.Archiver = store
	}
	if of.submit {
		client, err := of.hub.dial(c.cfg, c.log)
		if err != nil {
			return exitCode(errOut, "backfill", err)
		}
		defer client.Close()
		job.Submitter = client
	}

	items := backfill.CastItems(texts)
	for i := range items {
		items[i].Timestamp = opts.Timestamp
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	results, err := backfill.Run(ctx, job, items)
	if err != nil && results == nil {
		return exitCode(errOut, "backfill", err)
	}
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(errOut, "item %d: %v\n", r.Index, r.Err)
			continue
		}
		fmt.Fprintln(out, hexutil.BytesToHex(r.Message.Hash))
	}
	if err != nil || backfill.Summarize(results).Failed > 0 {
		return 1
	}
	return 0
}
