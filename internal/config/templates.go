package config

import (
	"fmt"
	"os"
)

// Template returns a commented camelwire.toml holding the defaults.
func Template() string { return template }

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const template = `[log]
level = "info"        # trace, debug, info, warn, error, off
json = false
no_color = false
timestamp = true
# file = "logs/camelwire.log"
max_size_mb = 25
max_age_days = 7
max_backups = 5
compress = false

[decoder]
phase = "phase4"      # tables used when no application context is negotiated
max_depth = 64
format = "tcap"       # tcap or component
skip_delegates = []   # e.g. ["map.tbcd"]

[symbols]
# file = "symbols.yaml"

[store]
enabled = false
dsn = "sqlite://camelwire.db"
pending_after = "30s"

[server]
addr = ":8080"
cors_origins = ["http://localhost:3000"]
max_body_bytes = 65536
read_timeout = "10s"
`
