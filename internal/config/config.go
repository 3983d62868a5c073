package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/camelwire/internal/camel"
	"github.com/danmuck/camelwire/internal/logging"
)

var ErrInvalid = errors.New("invalid config")

// Input framings accepted by the decode surfaces.
const (
	FormatTCAP      = "tcap"
	FormatComponent = "component"
)

type Config struct {
	Log     LogConfig     `toml:"log"`
	Decoder DecoderConfig `toml:"decoder"`
	Symbols SymbolsConfig `toml:"symbols"`
	Store   StoreConfig   `toml:"store"`
	Server  ServerConfig  `toml:"server"`
}

type LogConfig struct {
	Level      string `toml:"level"`
	JSON       bool   `toml:"json"`
	NoColor    bool   `toml:"no_color"`
	Timestamp  bool   `toml:"timestamp"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxAgeDays int    `toml:"max_age_days"`
	MaxBackups int    `toml:"max_backups"`
	Compress   bool   `toml:"compress"`
}

type DecoderConfig struct {
	// Phase selects the dispatch tables used when no application context
	// is negotiated.
	Phase         string   `toml:"phase"`
	MaxDepth      int      `toml:"max_depth"`
	Format        string   `toml:"format"`
	SkipDelegates []string `toml:"skip_delegates"`
}

type SymbolsConfig struct {
	File string `toml:"file"`
}

type StoreConfig struct {
	Enabled bool `toml:"enabled"`
	// DSN is sqlite://path or postgres://...
	DSN string `toml:"dsn"`
	// PendingAfter is how long an invoke may go unanswered before it is
	// listed as pending.
	PendingAfter string `toml:"pending_after"`
}

type ServerConfig struct {
	Addr         string   `toml:"addr"`
	CorsOrigins  []string `toml:"cors_origins"`
	MaxBodyBytes int64    `toml:"max_body_bytes"`
	ReadTimeout  string   `toml:"read_timeout"`
}

func Default() Config {
	return Config{
		Log: LogConfig{
			Level:      "info",
			Timestamp:  true,
			MaxSizeMB:  25,
			MaxAgeDays: 7,
			MaxBackups: 5,
		},
		Decoder: DecoderConfig{
			Phase:    camel.Latest.String(),
			MaxDepth: 64,
			Format:   FormatTCAP,
		},
		Store: StoreConfig{
			DSN:          "sqlite://camelwire.db",
			PendingAfter: "30s",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			CorsOrigins:  []string{"http://localhost:3000"},
			MaxBodyBytes: 1 << 16,
			ReadTimeout:  "10s",
		},
	}
}

// Load reads path over the defaults. Keys the file sets that no section
// knows are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(keys, ", "))
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadOrDefault returns the defaults when path is empty.
func LoadOrDefault(path string) (Config, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	return Load(path)
}

func Validate(cfg Config) error {
	if _, ok := logging.ParseLevel(cfg.Log.Level); !ok {
		return fmt.Errorf("%w: log.level %q", ErrInvalid, cfg.Log.Level)
	}
	if _, err := camel.ParsePhase(cfg.Decoder.Phase); err != nil {
		return fmt.Errorf("%w: decoder.phase: %v", ErrInvalid, err)
	}
	if cfg.Decoder.MaxDepth < 1 {
		return fmt.Errorf("%w: decoder.max_depth must be positive", ErrInvalid)
	}
	switch cfg.Decoder.Format {
	case FormatTCAP, FormatComponent:
	default:
		return fmt.Errorf("%w: decoder.format %q", ErrInvalid, cfg.Decoder.Format)
	}
	if cfg.Store.Enabled {
		if !strings.HasPrefix(cfg.Store.DSN, "sqlite://") && !strings.HasPrefix(cfg.Store.DSN, "postgres://") {
			return fmt.Errorf("%w: store.dsn must start with sqlite:// or postgres://", ErrInvalid)
		}
		if _, err := parseDuration(cfg.Store.PendingAfter); err != nil {
			return fmt.Errorf("%w: store.pending_after: %v", ErrInvalid, err)
		}
	}
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return fmt.Errorf("%w: server.addr is required", ErrInvalid)
	}
	if cfg.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: server.max_body_bytes must be positive", ErrInvalid)
	}
	if _, err := parseDuration(cfg.Server.ReadTimeout); err != nil {
		return fmt.Errorf("%w: server.read_timeout: %v", ErrInvalid, err)
	}
	return nil
}

func parseDuration(raw string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration %s must be positive", raw)
	}
	return d, nil
}
