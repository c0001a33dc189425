package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/platinummonkey/buildcheck/pkg/buildcheck"
	"github.com/platinummonkey/buildcheck/pkg/buildcheck/checks"
	"github.com/platinummonkey/buildcheck/pkg/buildcheck/config"
)

func newRulesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the built-in rules and their default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listRules(cmd, checks.Rules())
		},
	}
}

func listRules(cmd *cobra.Command, rules []buildcheck.Rule) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tENABLED\tSEVERITY\tSCOPE")
	for _, rule := range rules {
		effective := config.ResolveRule(rule.ID, rule.DefaultConfiguration, buildcheck.Configuration{})
		fmt.Fprintf(w, "%s\t%s\t%t\t%s\t%s\n",
			rule.ID,
			rule.Title,
			effective.IsEnabled,
			effective.Severity,
			effective.EvaluationScope,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n%d rules\n", len(rules))
	return nil
}
