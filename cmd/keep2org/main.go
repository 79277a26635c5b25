// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the keep2org CLI, which converts a
// Google Keep Takeout export into Org outline files grouped by label.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the keep2org CLI.
var rootCmd = &cobra.Command{
	Use:   "keep2org",
	Short: "Convert Google Keep exports to Org outline files",
	Long: `keep2org reads a Google Keep Takeout export (one JSON record per note,
plus attachment files) and writes Org outline files, one per note group.
Notes are grouped by label, archived and trashed notes are kept apart from
active ones, and attachments are copied alongside the output.

Each conversion run is recorded in a SQLite manifest; the report subcommand
lists and searches past runs.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./keep2org.yaml or ~/.config/keep2org/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("keep2org")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "keep2org"))
		}
	}

	viper.SetEnvPrefix("KEEP2ORG")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
