package config

import (
	"time"

	"github.com/danmuck/camelwire/internal/camel"
	"github.com/danmuck/camelwire/internal/logging"
	"github.com/danmuck/camelwire/internal/protocol/decode"
)

// Logging converts the [log] section for logging.Install.
func (c Config) Logging() logging.Config {
	lvl, _ := logging.ParseLevel(c.Log.Level)
	return logging.Config{
		Level:     lvl,
		Timestamp: c.Log.Timestamp,
		NoColor:   c.Log.NoColor,
		JSON:      c.Log.JSON,
		File: logging.FileConfig{
			Path:       c.Log.File,
			MaxSizeMB:  c.Log.MaxSizeMB,
			MaxAgeDays: c.Log.MaxAgeDays,
			MaxBackups: c.Log.MaxBackups,
			Compress:   c.Log.Compress,
		},
	}
}

// Phase returns the default CAMEL phase. A validated config always has one.
func (c Config) Phase() camel.Phase {
	p, err := camel.ParsePhase(c.Decoder.Phase)
	if err != nil {
		return camel.Latest
	}
	return p
}

// DecodeOptions builds structural decoder options for the [decoder]
// section. Skipped sub-decoders leave their octets undecoded.
func (c Config) DecodeOptions(extra ...decode.Option) []decode.Option {
	base := append([]decode.Option{decode.WithMaxDepth(c.Decoder.MaxDepth)}, extra...)
	return camel.DecoderOptionsWithout(c.Decoder.SkipDelegates, base...)
}

func (c Config) PendingAfter() time.Duration {
	d, err := parseDuration(c.Store.PendingAfter)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

func (c Config) ReadTimeout() time.Duration {
	d, err := parseDuration(c.Server.ReadTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}
