package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/danmuck/camelwire/internal/engine"
	"github.com/danmuck/camelwire/internal/server"
	"github.com/danmuck/camelwire/internal/store"
)

func newServeCmd(o *options) *cobra.Command {
	var addr string
	c := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP decode service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.load(); err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				o.cfg.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var (
				engineOpts = []engine.Option{engine.WithLogger(o.log)}
				serverOpts = []server.Option{server.WithLogger(o.log)}
			)
			if o.cfg.Store.Enabled {
				st, err := store.OpenStore(ctx, o.cfg.Store.DSN, store.WithLogger(o.log))
				if err != nil {
					return err
				}
				defer st.Close()
				engineOpts = append(engineOpts, engine.WithObserver(st))
				serverOpts = append(serverOpts, server.WithStore(st))
			}
			e, err := engine.New(o.cfg, engineOpts...)
			if err != nil {
				return err
			}
			o.log.Info().
				Str("version", Version).
				Str("phase", o.cfg.Phase().String()).
				Bool("store", o.cfg.Store.Enabled).
				Msg("starting camelwire")
			return server.Appear(e, serverOpts...).Serve(ctx)
		},
	}
	c.Flags().StringVar(&addr, "addr", ":8080", "listen address (overrides config)")
	return c
}
