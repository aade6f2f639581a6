package main

import (
	"fmt"

	"github.com/aretw0/roomread"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of roomread",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "roomread version %s\n", roomread.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
