package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"somlib/kanon/internal/match"
	"somlib/kanon/internal/record"
)

var ingestOpenLimit int

var ingestCmd = &cobra.Command{
	Use:   "ingest <records.json>",
	Short: "Validate, normalize and store extracted per-wave records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading records file: %w", err)
		}

		var raws []record.RawRecord
		if err := json.Unmarshal(data, &raws); err != nil {
			return fmt.Errorf("parsing records file: %w", err)
		}

		database, err := OpenDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		store := record.NewStore(ingestOpenLimit)
		accepted, rejected := 0, 0
		for _, raw := range raws {
			rec, err := store.Add(raw)
			if err != nil {
				// Malformed records are excluded with a reason, never coerced.
				fmt.Fprintf(os.Stderr, "rejected: %v\n", err)
				rejected++
				continue
			}
			if err := database.SaveRecord(rec); err != nil {
				return err
			}
			accepted++
		}

		fmt.Printf("Ingested %d records (%d rejected) into %s\n", accepted, rejected, database.Path)
		return nil
	},
}

func init() {
	ingestCmd.Flags().IntVar(&ingestOpenLimit, "open-limit", match.DefaultConfig().OpenQuestionLimit,
		"Raw alternative count above which a question is treated as open-ended")
	rootCmd.AddCommand(ingestCmd)
}
