package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pragmaplatform/aws-iam-access-key-auto-rotation/pkg/event"
)

// parsedEvent is the printable view of one normalized event.
type parsedEvent struct {
	Shape     string `json:"shape"`
	AccountID string `json:"accountID"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
}

func newParseCommand(rt *runtimeState) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <event-file>",
		Short: "Normalize an event envelope locally and print the result",
		Long: "Runs the emailer's event normalizer on a local file (stdin " +
			"when the file is \"-\") without contacting any service. Useful " +
			"for checking which envelope shape a producer emits.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readEventFile(args[0])
			if err != nil {
				return err
			}

			norm, shape, err := event.NewNormalizer(zap.NewNop().Sugar()).Parse(raw)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(parsedEvent{
				Shape:     string(shape),
				AccountID: norm.AccountID,
				Subject:   norm.Subject,
				Message:   norm.Message,
			}, "", "  ")
			if err != nil {
				return err
			}

			fmt.Fprintln(rt.writer, string(out))
			return nil
		},
	}
}
