package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danmuck/camelwire/internal/camel"
	"github.com/danmuck/camelwire/internal/engine"
	"github.com/danmuck/camelwire/internal/store"
)

func newDecodeCmd(o *options) *cobra.Command {
	var (
		file   string
		format string
		acn    string
		phase  string
		trace  bool
	)
	c := &cobra.Command{
		Use:   "decode [hex...]",
		Short: "Decode one TCAP message or ROS component",
		Long: `Decode reads hex from the arguments, or from stdin when there are none.
--file reads raw octets instead. The result is printed as JSON; a
structural failure still prints what was decoded and exits non-zero.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.load(); err != nil {
				return err
			}
			if phase != "" {
				p, err := camel.ParsePhase(phase)
				if err != nil {
					return err
				}
				o.cfg.Decoder.Phase = p.String()
			}
			data, err := readInput(cmd, file, args)
			if err != nil {
				return err
			}
			oid, err := engine.ParseContext(acn)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			var opts []engine.Option
			if o.cfg.Store.Enabled {
				st, err := store.OpenStore(ctx, o.cfg.Store.DSN, store.WithLogger(o.log))
				if err != nil {
					return err
				}
				defer st.Close()
				opts = append(opts, engine.WithObserver(st))
			}
			e, err := engine.New(o.cfg, append(opts, engine.WithLogger(o.log))...)
			if err != nil {
				return err
			}

			res, derr := e.Decode(ctx, engine.Request{Format: format, Data: data, ApplicationContext: oid, Trace: trace})
			if derr != nil && !errors.Is(derr, engine.ErrDecode) {
				return derr
			}
			if err := writeJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			return derr
		},
	}
	c.Flags().StringVarP(&file, "file", "f", "", "read raw octets from file")
	c.Flags().StringVar(&format, "format", "", "input framing: tcap or component (default from config)")
	c.Flags().StringVar(&acn, "acn", "", "application context when none is negotiated: name, phase or dotted OID")
	c.Flags().StringVar(&phase, "phase", "", "default CAMEL phase (overrides config)")
	c.Flags().BoolVar(&trace, "trace", false, "include every reported field in the output")
	return c
}

func readInput(cmd *cobra.Command, file string, args []string) ([]byte, error) {
	if file != "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("give either --file or hex arguments")
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}
		return data, nil
	}
	text := strings.Join(args, " ")
	if len(args) == 0 {
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		text = string(raw)
	}
	return engine.ParseHex(text)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
