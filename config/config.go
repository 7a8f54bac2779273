// Package config loads hubctl and hubd settings from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/fiddotdev/hub-go/protocol"
)

// Config is the top-level configuration. Command-line flags override it.
type Config struct {
	Hub      HubConfig      `yaml:"hub"`
	Signer   SignerConfig   `yaml:"signer"`
	Archive  ArchiveConfig  `yaml:"archive"`
	Backfill BackfillConfig `yaml:"backfill"`
	DevHub   DevHubConfig   `yaml:"devhub"`
	Log      LogConfig      `yaml:"log"`
}

// HubConfig describes how to reach a hub's gRPC endpoint.
type HubConfig struct {
	Target      string        `yaml:"target"`
	TLS         bool          `yaml:"tls"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
	RPCTimeout  time.Duration `yaml:"rpc_timeout"`
	MaxMsgBytes int           `yaml:"max_msg_bytes"` // 0 uses grpc defaults
}

// SignerConfig selects the FID, network and key used to sign messages.
// Key is an inline hex seed; prefer KeyName with the keystore.
type SignerConfig struct {
	FID         uint64 `yaml:"fid"`
	Network     string `yaml:"network"`
	Key         string `yaml:"key,omitempty"`
	KeyFile     string `yaml:"key_file,omitempty"`
	KeyName     string `yaml:"key_name,omitempty"`
	App         string `yaml:"app,omitempty"`
	KeystoreDir string `yaml:"keystore_dir,omitempty"`
}

// ArchiveConfig enables the local message archive. Mirrors are extra
// directories; WritePolicy "first" writes only Dir, "all" writes every one.
type ArchiveConfig struct {
	Dir         string   `yaml:"dir,omitempty"`
	Mirrors     []string `yaml:"mirrors,omitempty"`
	WritePolicy string   `yaml:"write_policy"`
}

type BackfillConfig struct {
	Workers int `yaml:"workers"`
}

// DevHubConfig configures the local development hub (hubd).
type DevHubConfig struct {
	Listen   string `yaml:"listen"`
	Nickname string `yaml:"nickname"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

const (
	WritePolicyFirst = "first"
	WritePolicyAll   = "all"
)

// Defaults returns a config with sensible defaults.
func Defaults() *Config {
	return &Config{
		Hub: HubConfig{
			Target:      "127.0.0.1:2283",
			DialTimeout: 5 * time.Second,
			RPCTimeout:  10 * time.Second,
		},
		Signer: SignerConfig{
			Network: "mainnet",
		},
		Archive: ArchiveConfig{
			WritePolicy: WritePolicyFirst,
		},
		Backfill: BackfillConfig{
			Workers: 4,
		},
		DevHub: DevHubConfig{
			Listen:   "127.0.0.1:2283",
			Nickname: "devhub",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a YAML config file on top of Defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Apply zero-value defaults after unmarshal
	if cfg.Backfill.Workers == 0 {
		cfg.Backfill.Workers = 4
	}
	if cfg.Archive.WritePolicy == "" {
		cfg.Archive.WritePolicy = WritePolicyFirst
	}
	return cfg, nil
}

// LoadOrDefaults is Load for an optional path: "" yields Defaults.
func LoadOrDefaults(path string) (*Config, error) {
	if path == "" {
		return Defaults(), nil
	}
	return Load(path)
}

// Save writes the config to a YAML file at the given path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks that the config is consistent.
func (c *Config) Validate() error {
	var errs []error
	if c.Hub.DialTimeout < 0 || c.Hub.RPCTimeout < 0 {
		errs = append(errs, errors.New("hub timeouts must not be negative"))
	}
	if c.Hub.MaxMsgBytes < 0 {
		errs = append(errs, fmt.Errorf("invalid max_msg_bytes: %d", c.Hub.MaxMsgBytes))
	}
	if _, err := c.Signer.ParseNetwork(); err != nil {
		errs = append(errs, err)
	}
	if c.Signer.Key != "" && (c.Signer.KeyFile != "" || c.Signer.KeyName != "") {
		errs = append(errs, errors.New("signer.key cannot be combined with key_file or key_name"))
	}
	if c.Signer.App != "" && c.Signer.KeyName == "" {
		errs = append(errs, errors.New("signer.app requires signer.key_name"))
	}
	switch c.Archive.WritePolicy {
	case WritePolicyFirst, WritePolicyAll:
	default:
		errs = append(errs, fmt.Errorf("invalid archive write_policy %q", c.Archive.WritePolicy))
	}
	if len(c.Archive.Mirrors) > 0 && c.Archive.Dir == "" {
		errs = append(errs, errors.New("archive.mirrors requires archive.dir"))
	}
	if c.Backfill.Workers < 1 {
		errs = append(errs, fmt.Errorf("invalid backfill workers: %d", c.Backfill.Workers))
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("invalid log level: %w", err))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid log format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// ParseNetwork resolves the configured network name.
func (s SignerConfig) ParseNetwork() (protocol.Network, error) {
	return protocol.ParseNetwork(s.Network)
}

// NewLogger builds a logrus logger writing to out.
func (l LogConfig) NewLogger(out io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(l.Level)
	if err != nil {
		return nil, err
	}
	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(level)
	switch l.Format {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		log.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	default:
		return nil, fmt.Errorf("invalid log format %q", l.Format)
	}
	return log, nil
}
