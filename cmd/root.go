package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "neon-auth",
	Short: "Account and session-credential service for the Neon storefront",
	Long:  `Authentication service for the Neon virtual-number storefront: password credentials, access/refresh token issuance, bearer verification and refresh-token lifecycle.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
