// Package cli implements the flight-plan CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/flight-plan/internal/config"
	"github.com/rcliao/flight-plan/internal/logger"
	"github.com/rcliao/flight-plan/internal/store"
)

var (
	dbPath   string
	logLevel string

	cfg *config.Config
	log logger.Logger = logger.Nop()
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "flight-plan",
	Short: "Student flight plans, events, and strengths",
	Long:  "Manage student flight plans and event engagement. SQLite-backed, JSON in and out.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		l, err := logger.New(cfg.LogLevel)
		if err != nil {
			return err
		}
		log = l.With("cmd", cmd.CommandPath())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		log.Sync()
	},
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $FLIGHTPLAN_DB or ~/.flight-plan/flight-plan.db)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default: $FLIGHTPLAN_LOG_LEVEL or warn)")
}

func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	if cfg == nil {
		cfg = config.Load()
	}
	return cfg.DBPath
}

func openStore() (*store.SQLiteStore, error) {
	path := getDBPath()
	log.Debug("opening store", "path", path)
	return store.NewSQLiteStore(path)
}

func exitErr(msg string, err error) {
	log.Error(msg, "error", err)
	log.Sync()
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

func printJSON(cmd *cobra.Command, v interface{}) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}
