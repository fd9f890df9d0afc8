package main

import (
	"fmt"

	"github.com/aretw0/maturity"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of maturity",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "maturity version %s\n", maturity.Version)
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
