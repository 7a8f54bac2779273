// Command hubd serves a development hub over gRPC. It accepts messages that
// verify and validate, archives them when an archive is configured, and
// answers GetInfo.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/fiddotdev/hub-go/config"
	"github.com/fiddotdev/hub-go/devhub"
	"github.com/fiddotdev/hub-go/hubclient"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stderr, nil))
}

// run serves until ctx ends. When ready is non-nil it receives the bound
// address once the listener is up.
func run(ctx context.Context, args []string, errOut io.Writer, ready chan<- net.Addr) int {
	fs := flag.NewFlagSet("hubd", flag.ContinueOnError)
	fs.SetOutput(errOut)
	configPath := fs.String("config", os.Getenv("HUBCTL_CONFIG"), "YAML config file")
	listen := fs.String("listen", "", "listen address (default from config)")
	nickname := fs.String("nickname", "", "hub nickname reported by GetInfo")
	archiveDir := fs.String("archive-dir", "", "archive accepted messages in this directory")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.LoadOrDefaults(*configPath)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	if *listen != "" {
		cfg.DevHub.Listen = *listen
	}
	if *nickname != "" {
		cfg.DevHub.Nickname = *nickname
	}
	if *archiveDir != "" {
		cfg.Archive = config.ArchiveConfig{Dir: *archiveDir, WritePolicy: config.WritePolicyFirst}
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(errOut, "invalid config: %v\n", err)
		return 2
	}
	log, err := cfg.Log.NewLogger(errOut)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}

	store, err := cfg.Archive.Open()
	if err != nil {
		log.WithError(err).Error("opening archive")
		return 1
	}

	lis, err := net.Listen("tcp", cfg.DevHub.Listen)
	if err != nil {
		log.WithError(err).Error("listen")
		return 1
	}
	defer lis.Close()

	s := hubclient.NewServer(&devhub.Server{Store: store, Nickname: cfg.DevHub.Nickname, Log: log})
	go func() {
		<-ctx.Done()
		s.GracefulStop()
	}()

	log.WithField("addr", lis.Addr().String()).
		WithField("archive", cfg.Archive.Dir).
		Info("hubd listening")
	if ready != nil {
		ready <- lis.Addr()
	}
	if err := s.Serve(lis); err != nil {
		log.WithError(err).Error("serve")
		return 1
	}
	log.Info("hubd stopped")
	return 0
}
