package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/danmuck/camelwire/internal/store"
)

func (o *options) openStore(cmd *cobra.Command) (*store.Store, error) {
	if err := o.load(); err != nil {
		return nil, err
	}
	if err := o.requireStore(); err != nil {
		return nil, err
	}
	return store.OpenStore(cmd.Context(), o.cfg.Store.DSN, store.WithLogger(o.log))
}

func newStatsCmd(o *options) *cobra.Command {
	var asJSON bool
	c := &cobra.Command{
		Use:   "stats",
		Short: "Summarize recorded components by operation and status",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := o.openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()
			stats, err := st.Stats(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), stats)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PROTOCOL\tKIND\tOPERATION\tERROR\tSTATUS\tCOUNT\tBYTES")
			for _, s := range stats {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
					s.Protocol, s.Kind, dash(s.Operation), dash(s.ErrorName), s.Status, s.Count, s.PayloadBytes)
			}
			return w.Flush()
		},
	}
	c.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return c
}

func newPendingCmd(o *options) *cobra.Command {
	var (
		olderThan time.Duration
		asJSON    bool
	)
	c := &cobra.Command{
		Use:   "pending",
		Short: "List invokes without a result, error or reject",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := o.openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()
			if !cmd.Flags().Changed("older-than") {
				olderThan = o.cfg.PendingAfter()
			}
			events, err := st.Pending(cmd.Context(), olderThan)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), events)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RECORDED\tINVOKE\tOPERATION\tOTID\tACN")
			for _, ev := range events {
				id := "-"
				if ev.InvokeID != nil {
					id = fmt.Sprint(*ev.InvokeID)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					ev.RecordedAt.Format(time.RFC3339), id, dash(ev.Operation), dash(ev.OTID), dash(ev.ACN))
			}
			return w.Flush()
		},
	}
	c.Flags().DurationVar(&olderThan, "older-than", 30*time.Second, "minimum age of a pending invoke (default from config)")
	c.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return c
}

func newPruneCmd(o *options) *cobra.Command {
	var keep time.Duration
	c := &cobra.Command{
		Use:   "prune",
		Short: "Delete recorded components older than --keep",
		RunE: func(cmd *cobra.Command, args []string) error {
			if keep <= 0 {
				return fmt.Errorf("--keep must be positive")
			}
			st, err := o.openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()
			n, err := st.Prune(cmd.Context(), time.Now().Add(-keep))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pruned %d events\n", n)
			return nil
		},
	}
	c.Flags().DurationVar(&keep, "keep", 7*24*time.Hour, "keep events younger than this")
	return c
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
