package cmd

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/danmuck/camelwire/internal/config"
	"github.com/danmuck/camelwire/internal/logging"
)

const Version = "0.1.0"

// options holds the persistent flags and the config they resolve to.
type options struct {
	configFile string
	logLevel   string
	logJSON    bool
	dbURL      string

	cfg config.Config
	log zerolog.Logger
}

// NewRootCmd builds the camelctl command tree.
func NewRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:           "camelctl",
		Short:         "CAMEL/TCAP BER decoder",
		Long:          `camelctl decodes TCAP messages and ROS components carrying CAMEL phase 1 to 4 operations.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&o.configFile, "config", "", "config file path (defaults apply when empty)")
	root.PersistentFlags().StringVar(&o.logLevel, "log-level", "", "log level (trace, debug, info, warn, error, off)")
	root.PersistentFlags().BoolVar(&o.logJSON, "log-json", false, "log as JSON")
	root.PersistentFlags().StringVar(&o.dbURL, "db-url", "", "event store URL (sqlite://path or postgres://...); enables the store")

	root.AddCommand(
		newDecodeCmd(o),
		newServeCmd(o),
		newOpsCmd(o),
		newStatsCmd(o),
		newPendingCmd(o),
		newPruneCmd(o),
		newConfigCmd(),
	)
	return root
}

func Execute() error {
	return NewRootCmd().Execute()
}

// load resolves the config file and the flag overrides, then installs the
// global logger.
func (o *options) load() error {
	cfg, err := config.LoadOrDefault(o.configFile)
	if err != nil {
		return err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logJSON {
		cfg.Log.JSON = true
	}
	if o.dbURL != "" {
		cfg.Store.Enabled = true
		cfg.Store.DSN = o.dbURL
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	o.cfg = cfg
	o.log = logging.Install(cfg.Logging())
	return nil
}

func (o *options) requireStore() error {
	if !o.cfg.Store.Enabled {
		return fmt.Errorf("event store disabled: set [store] enabled or pass --db-url")
	}
	return nil
}
