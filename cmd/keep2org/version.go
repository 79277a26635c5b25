package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of keep2org",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("keep2org %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
