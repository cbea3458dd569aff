package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"somlib/kanon/internal/ledger"
	"somlib/kanon/internal/match"
)

var (
	matchThreshold     float64
	matchAutoAccept    float64
	matchOpenThreshold float64
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Group records by exact key and propose candidate merges into the ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := match.DefaultConfig()
		cfg.SimilarityThreshold = matchThreshold
		cfg.AutoAcceptThreshold = matchAutoAccept
		cfg.OpenTextThreshold = matchOpenThreshold
		if err := cfg.Validate(); err != nil {
			return err
		}

		database, err := OpenDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		store, err := database.LoadStore(cfg.OpenQuestionLimit)
		if err != nil {
			return err
		}

		partitions := match.GroupExact(store.Questions())
		edges := match.ProposeCandidates(partitions, cfg)

		led := ledger.New(database)
		added, err := led.RecordEdges(edges)
		if err != nil {
			return fmt.Errorf("recording candidate edges: %w", err)
		}

		autoAccepted, err := led.AutoAccept(cfg)
		if err != nil {
			return fmt.Errorf("auto-accepting disjoint candidates: %w", err)
		}

		overlapping, err := led.Proposed(match.LabelOverlappingWaves)
		if err != nil {
			return err
		}
		disjoint, err := led.Proposed(match.LabelDisjointWaves)
		if err != nil {
			return err
		}

		fmt.Printf("Records: %d questions, %d batteries\n", len(store.Questions()), len(store.Batteries()))
		fmt.Printf("Exact partitions: %d\n", len(partitions))
		fmt.Printf("Candidate edges: %d (%d new, %d auto-accepted)\n", len(edges), added, autoAccepted)
		fmt.Printf("Awaiting review: %d overlapping-waves, %d disjoint-waves\n", len(overlapping), len(disjoint))
		return nil
	},
}

func init() {
	defaults := match.DefaultConfig()
	matchCmd.Flags().Float64Var(&matchThreshold, "threshold", defaults.SimilarityThreshold,
		"Minimum text similarity for a candidate edge")
	matchCmd.Flags().Float64Var(&matchAutoAccept, "auto-accept", defaults.AutoAcceptThreshold,
		"Similarity above which disjoint-waves candidates are accepted without review (0 disables)")
	matchCmd.Flags().Float64Var(&matchOpenThreshold, "open-threshold", defaults.OpenTextThreshold,
		"Stricter similarity bound when both records lack coded alternatives")
	rootCmd.AddCommand(matchCmd)
}
