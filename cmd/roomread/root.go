package main

import (
	"fmt"
	"os"

	"github.com/aretw0/roomread/internal/cli"
	"github.com/aretw0/roomread/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "roomread",
	Short: "roomread teaches cultural etiquette through lessons and quizzes",
	Long: `roomread walks learners through short lessons and multiple choice quizzes
about the customs of a destination country, one category at a time.

Content is read from per-country question files and Markdown lesson documents.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (default ./roomread.yaml)")
	pf.String("data", "data", "Directory containing per-country question files")
	pf.String("lessons", "", "Directory containing lesson documents (default <data>/lessons)")
	pf.String("log-level", "info", "Log level: debug, info, warn or error")
	pf.String("store", config.StoreFile, "Session store: memory, file or redis")
}

// loadConfig reads configuration, letting the command's flags override it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	return config.Load(file, cmd.Flags())
}

// setup loads configuration and wires an environment for cmd.
func setup(cmd *cobra.Command) (*cli.Environment, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := cli.NewLogger(cfg)
	if err != nil {
		return nil, err
	}
	return cli.NewEnvironment(cmd.Context(), cfg, logger)
}
