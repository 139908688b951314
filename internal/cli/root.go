package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

// errReported is returned by commands that already printed their failure.
var errReported = errors.New("request failed")

// rootOptions holds the persistent flags shared by every verb.
type rootOptions struct {
	configPath string
	env        string
	noColor    bool
	verbose    bool
	output     string
	logLevel   string
	logDev     bool
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:     "mande",
		Short:   "Send JSON requests from the terminal",
		Version: version,
		Long: `mande sends requests through the mande dispatcher: headers and query
parameters are merged from a config file, its environments and the command
line, JSON bodies are encoded for you and responses are decoded by mode.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// If no subcommand is provided, print help
			return cmd.Help()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Config file (YAML or JSON)")
	flags.StringVarP(&opts.env, "env", "e", "", "Environment from the config file")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Show headers, bodies and timing")
	flags.StringVarP(&opts.output, "output", "o", "text", "Output format: text, json or yaml")
	flags.StringVar(&opts.logLevel, "log-level", "error", "Log level: debug, info, warn or error")
	flags.BoolVar(&opts.logDev, "log-dev", false, "Human-readable log output")

	for _, v := range verbs {
		cmd.AddCommand(newVerbCmd(opts, v))
	}

	return cmd
}

// Execute runs the command line. It is called by main.main().
func Execute() error {
	cmd := NewRootCmd()
	err := cmd.Execute()
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
	}
	return err
}
