package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/idlink-io/idlink/internal/interfaces/cli/migrate"
	"github.com/idlink-io/idlink/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "idlink",
		Short: "idlink - OAuth identity reconciliation service",
		Long:  `idlink links external OAuth identities to local accounts, handling login, account linking, and signup with conflict detection.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
