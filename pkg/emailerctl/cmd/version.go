package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pragmaplatform/aws-iam-access-key-auto-rotation/pkg/version"
)

func newVersionCommand(rt *runtimeState) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print emailerctl build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(rt.writer, version.String())
			return nil
		},
	}
}
