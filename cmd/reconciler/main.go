package main

import (
	"os"

	"revenue-reconciliation-service/cmd/reconciler/cmd"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, date)

	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.NewCLIErrorHandler().HandleError(err))
	}
}
