package cli

import (
	"github.com/spf13/cobra"
)

// Version is stamped by the build.
var Version = "dev"

type rootOptions struct {
	logLevel  string
	logFormat string
	verbose   bool
}

// NewRootCommand creates the buildcheck command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "buildcheck",
		Short: "BuildCheck - analyzer checks for project evaluation",
		Long: `BuildCheck evaluates a set of projects and runs analyzer checks over the
events produced during evaluation. Findings are reported as build messages,
warnings and errors according to the rule configuration.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (trace|debug|info|warn|error); overrides BUILDCHECK_LOG_LEVEL")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "Log format (text|json); overrides BUILDCHECK_LOG_FORMAT")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Show low importance messages")

	root.AddCommand(newAnalyzeCommand(opts))
	root.AddCommand(newRulesCommand())

	return root
}

// Execute runs the root command with os.Args and returns the process exit code.
func Execute() int {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		cmd.PrintErrln("Error:", err)
		return 1
	}
	return 0
}
