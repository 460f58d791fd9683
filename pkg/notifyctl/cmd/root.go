package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Config controls where the CLI reads its target and writes its output.
type Config struct {
	Server       string
	OutputWriter io.Writer
}

type runtimeState struct {
	server string
	writer io.Writer
}

// DefaultConfig targets a local gateway and writes to stdout.
func DefaultConfig() Config {
	return Config{
		Server:       "http://localhost:5001",
		OutputWriter: os.Stdout,
	}
}

// NewRootCommand builds the notifyctl command tree.
func NewRootCommand(cfg Config) *cobra.Command {
	rt := &runtimeState{server: cfg.Server, writer: cfg.OutputWriter}

	root := &cobra.Command{
		Use:           "notifyctl",
		Short:         "Notification server CLI",
		Long:          "notifyctl checks a running notification server and fires test notifications at it.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if rt.writer == nil {
				rt.writer = os.Stdout
			}
			if env := os.Getenv("NOTIFYCTL_SERVER"); env != "" && !cmd.Flags().Changed("server") {
				rt.server = env
			}
		},
	}

	root.PersistentFlags().StringVarP(&rt.server, "server", "s", rt.server, "base URL of the notification server")

	root.AddCommand(newHealthCommand(rt))
	root.AddCommand(newSendCommand(rt))
	root.AddCommand(newVersionCommand(rt))
	return root
}
