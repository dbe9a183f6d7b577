package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"

	"github.com/pragmaplatform/aws-iam-access-key-auto-rotation/pkg/dispatch"
)

func newSendCommand(rt *runtimeState) *cobra.Command {
	return &cobra.Command{
		Use:   "send <event-file>",
		Short: "Submit an event envelope file to a running emailer",
		Long: "Reads a raw event envelope (SNS-wrapped or native) from a file, " +
			"or stdin when the file is \"-\", and POSTs it to the emailer's " +
			"notify endpoint.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readEventFile(args[0])
			if err != nil {
				return err
			}

			timeout, err := time.ParseDuration(rt.timeout)
			if err != nil {
				return fmt.Errorf("invalid timeout %q: %w", rt.timeout, err)
			}

			client := resty.New().
				SetBaseURL(rt.server).
				SetTimeout(timeout).
				SetHeader("Content-Type", "application/json")

			var response dispatch.Response
			resp, err := client.R().
				SetBody(raw).
				SetResult(&response).
				Post("/api/notify")
			if err != nil {
				return fmt.Errorf("submitting event to %s: %w", rt.server, err)
			}
			if resp.IsError() {
				return fmt.Errorf("emailer rejected event: %s: %s", resp.Status(), resp.String())
			}

			fmt.Fprintln(rt.writer, response.Body)
			return nil
		},
	}
}

func readEventFile(path string) ([]byte, error) {
	if path == "-" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading event from stdin: %w", err)
		}
		return raw, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading event file: %w", err)
	}
	return raw, nil
}
