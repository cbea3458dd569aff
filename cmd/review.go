package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"somlib/kanon/internal/ledger"
	"somlib/kanon/internal/match"
	"somlib/kanon/internal/record"
)

var (
	reviewPartition string
	reviewJSON      bool
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Inspect and decide proposed candidate merges",
}

var reviewListCmd = &cobra.Command{
	Use:   "list",
	Short: "List undecided candidate edges in review order",
	RunE: func(cmd *cobra.Command, args []string) error {
		label, err := partitionFlag(reviewPartition)
		if err != nil {
			return err
		}

		database, err := OpenDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		led := ledger.New(database)
		proposed, err := led.Proposed(label)
		if err != nil {
			return err
		}

		if reviewJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(proposed)
		}

		if len(proposed) == 0 {
			fmt.Println("No candidates awaiting review.")
			return nil
		}

		records, err := database.AllRecords()
		if err != nil {
			return err
		}
		byID := make(map[string]*record.Record, len(records))
		for _, rec := range records {
			byID[rec.ID] = rec
		}

		for _, e := range proposed {
			fmt.Printf("%s  sim=%.3f  [%s]\n", e.ID, e.Similarity, e.Label)
			for _, id := range []string{e.RepA, e.RepB} {
				if rec := byID[id]; rec != nil {
					fmt.Printf("    wave %d  %-8s  %s\n", rec.Wave, rec.Variable, truncate(rec.RawText, 70))
				}
			}
		}
		fmt.Printf("%d candidates awaiting review\n", len(proposed))
		return nil
	},
}

var reviewAcceptCmd = &cobra.Command{
	Use:   "accept <edge-id>",
	Short: "Record a human accept verdict for a candidate edge",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return decide(args[0], ledger.VerdictAccept)
	},
}

var reviewRejectCmd = &cobra.Command{
	Use:   "reject <edge-id>",
	Short: "Record a human reject verdict for a candidate edge",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return decide(args[0], ledger.VerdictReject)
	},
}

var reviewHistoryCmd = &cobra.Command{
	Use:   "history <edge-id>",
	Short: "Show every recorded decision for a candidate edge",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := OpenDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		history, err := ledger.New(database).History(args[0])
		if err != nil {
			return err
		}
		if len(history) == 0 {
			fmt.Println("No decisions recorded.")
			return nil
		}
		for i, d := range history {
			marker := " "
			if i == len(history)-1 {
				marker = "*" // current verdict
			}
			fmt.Printf("%s %s  %-6s  source=%-5s  at=%d\n", marker, d.ID, d.Verdict, d.Source, d.CreatedAt)
		}
		return nil
	},
}

func decide(edgeID string, verdict ledger.Verdict) error {
	database, err := OpenDatabase()
	if err != nil {
		return err
	}
	defer database.Close()

	d, err := ledger.New(database).Decide(edgeID, verdict, ledger.SourceHuman)
	if err != nil {
		return err
	}
	fmt.Printf("Recorded %s for %s (decision %s)\n", d.Verdict, d.EdgeID, d.ID)
	return nil
}

func partitionFlag(value string) (match.PartitionLabel, error) {
	switch value {
	case "":
		return "", nil
	case "overlapping":
		return match.LabelOverlappingWaves, nil
	case "disjoint":
		return match.LabelDisjointWaves, nil
	default:
		return "", fmt.Errorf("unknown partition %q (want overlapping or disjoint)", value)
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

func init() {
	reviewListCmd.Flags().StringVar(&reviewPartition, "partition", "",
		"Filter by partition label: overlapping or disjoint")
	reviewListCmd.Flags().BoolVar(&reviewJSON, "json", false, "Output as JSON")
	reviewCmd.AddCommand(reviewListCmd)
	reviewCmd.AddCommand(reviewAcceptCmd)
	reviewCmd.AddCommand(reviewRejectCmd)
	reviewCmd.AddCommand(reviewHistoryCmd)
	rootCmd.AddCommand(reviewCmd)
}
