package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

type Config struct {
	OutputWriter  io.Writer
	DefaultServer string
}

type runtimeState struct {
	server  string
	timeout string
	writer  io.Writer
}

func DefaultConfig() Config {
	return Config{
		OutputWriter:  os.Stdout,
		DefaultServer: "http://localhost:8080",
	}
}

func NewRootCommand(cfg Config) *cobra.Command {
	rt := &runtimeState{writer: cfg.OutputWriter}

	root := &cobra.Command{
		Use:           "emailerctl",
		Short:         "Account notification emailer CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if rt.writer == nil {
				rt.writer = os.Stdout
			}
			if rt.server == "" {
				rt.server = os.Getenv("EMAILERCTL_SERVER")
			}
			if rt.server == "" {
				rt.server = cfg.DefaultServer
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&rt.server, "server", "",
		"Base URL of the emailer (default http://localhost:8080, env EMAILERCTL_SERVER)")
	root.PersistentFlags().StringVar(&rt.timeout, "timeout", "30s",
		"HTTP request timeout for server commands")

	root.AddCommand(
		newSendCommand(rt),
		newParseCommand(rt),
		newVersionCommand(rt),
	)

	return root
}
