package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/panyaai/panya/internal/version"
)

var (
	configFlag string
	envFlag    string
)

var rootCmd = &cobra.Command{
	Use:   "panya",
	Short: "panya - LINE assistant for summaries, images, voice and air quality",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook server",
	RunE: func(*cobra.Command, []string) error {
		runServe()
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.GetInfo())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to the TOML config file (default $CONFIG_PATH or config.toml)")
	rootCmd.PersistentFlags().StringVar(&envFlag, "env-file", "", "path to a .env file with secrets (default .env)")
	rootCmd.AddCommand(serveCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// configPath resolves the flag, then CONFIG_PATH.
func configPath() string {
	if configFlag != "" {
		return configFlag
	}
	return os.Getenv("CONFIG_PATH")
}
