package main

import (
	"os"

	emailerctlcmd "github.com/pragmaplatform/aws-iam-access-key-auto-rotation/pkg/emailerctl/cmd"
)

func main() {
	root := emailerctlcmd.NewRootCommand(emailerctlcmd.DefaultConfig())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
