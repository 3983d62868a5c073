package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/danmuck/camelwire/internal/camel"
	"github.com/danmuck/camelwire/internal/protocol/ros"
)

type opInfo struct {
	Code   int64  `json:"code"`
	Name   string `json:"name"`
	Status string `json:"status"`
	Result bool   `json:"result"`
}

func newOpsCmd(o *options) *cobra.Command {
	var (
		phase    string
		asJSON   bool
		contexts bool
	)
	c := &cobra.Command{
		Use:   "ops",
		Short: "List the operations and errors of a CAMEL phase",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.load(); err != nil {
				return err
			}
			p := o.cfg.Phase()
			if phase != "" {
				var err error
				if p, err = camel.ParsePhase(phase); err != nil {
					return err
				}
			}
			proto := camel.ProtocolFor(p)
			if contexts {
				return printContexts(cmd, asJSON)
			}
			ops := describe(proto.Arguments, proto.Results)
			errs := describe(proto.Errors, nil)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"phase":      p.String(),
					"operations": ops,
					"errors":     errs,
				})
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "%s operations\nCODE\tNAME\tARGUMENT\tRESULT\n", p)
			for _, op := range ops {
				fmt.Fprintf(w, "%d\t%s\t%s\t%t\n", op.Code, op.Name, op.Status, op.Result)
			}
			fmt.Fprintf(w, "\n%s errors\nCODE\tNAME\tPARAMETER\t\n", p)
			for _, e := range errs {
				fmt.Fprintf(w, "%d\t%s\t%s\t\n", e.Code, e.Name, e.Status)
			}
			return w.Flush()
		},
	}
	c.Flags().StringVar(&phase, "phase", "", "CAMEL phase (default from config)")
	c.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	c.Flags().BoolVar(&contexts, "contexts", false, "list application contexts instead")
	return c
}

func describe(table, results *ros.DispatchTable) []opInfo {
	var out []opInfo
	for _, e := range table.Entries() {
		info := opInfo{Code: e.Code.Local, Name: e.Name, Status: "schema"}
		if e.IsUnparsed() {
			info.Status = "raw"
		}
		if results != nil {
			_, info.Result = results.Lookup(e.Code)
		}
		out = append(out, info)
	}
	return out
}

func printContexts(cmd *cobra.Command, asJSON bool) error {
	ctxs := camel.Contexts()
	if asJSON {
		type row struct {
			Name  string `json:"name"`
			OID   string `json:"oid"`
			Phase string `json:"phase"`
		}
		rows := make([]row, len(ctxs))
		for i, ac := range ctxs {
			rows[i] = row{Name: ac.Name, OID: ac.OID.String(), Phase: ac.Phase.String()}
		}
		return writeJSON(cmd.OutOrStdout(), rows)
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tOID\tPHASE")
	for _, ac := range ctxs {
		fmt.Fprintf(w, "%s\t%s\t%s\n", ac.Name, ac.OID, ac.Phase)
	}
	return w.Flush()
}
