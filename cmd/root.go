package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"somlib/kanon/internal/db"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:   "kanon",
	Short: "Reconcile per-wave survey questions into a canonical cross-wave library",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to .kanon.db database")
}

// DiscoverDB finds the database path using priority: env > flag > walk-up
func DiscoverDB() (string, error) {
	// 1. Environment variable
	if envPath := os.Getenv("KANON_DB"); envPath != "" {
		return envPath, nil
	}

	// 2. CLI flag
	if dbPath != "" {
		return dbPath, nil
	}

	// 3. Walk up from CWD
	dir, err := os.Getwd()
	if err == nil {
		start := dir
		for {
			candidate := filepath.Join(dir, ".kanon.db")
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
		// Default to a fresh database in the starting directory
		return filepath.Join(start, ".kanon.db"), nil
	}

	return "", fmt.Errorf("no .kanon.db found (set KANON_DB, use --db, or run from a directory containing .kanon.db)")
}

// OpenDatabase discovers and opens the database
func OpenDatabase() (*db.DB, error) {
	path, err := DiscoverDB()
	if err != nil {
		return nil, err
	}
	return db.OpenDB(path)
}
