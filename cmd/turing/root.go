package main

import (
	"fmt"
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "turing",
	Short: "Turing is a multi-tape Turing machine simulator",
	Long: `Turing loads machine descriptions from YAML files and runs them
step by step, from the terminal, over HTTP or as an MCP server.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", "", "Directory containing machine descriptions (env TURING_SAMPLES, default \"samples\")")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-file", "", "Also write JSON logs to this file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging and lifecycle traces")
}

// config resolves the persistent flags against the environment.
func config(cmd *cobra.Command) cli.Config {
	dir, _ := cmd.Flags().GetString("dir")
	level, _ := cmd.Flags().GetString("log-level")
	logFile, _ := cmd.Flags().GetString("log-file")
	debug, _ := cmd.Flags().GetBool("debug")
	return cli.Config{
		Dir:      dir,
		LogLevel: level,
		LogFile:  logFile,
		Debug:    debug,
	}.ApplyEnv(os.Getenv)
}

// openApp loads the simulator for commands that need one.
func openApp(cmd *cobra.Command, cfg cli.Config) (*cli.App, error) {
	app, err := cli.NewApp(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	return app, nil
}
