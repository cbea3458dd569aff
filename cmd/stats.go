package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"somlib/kanon/internal/ledger"
	"somlib/kanon/internal/library"
	"somlib/kanon/internal/match"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the store, ledger and resulting library",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := OpenDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		store, err := database.LoadStore(match.DefaultConfig().OpenQuestionLimit)
		if err != nil {
			return err
		}

		led := ledger.New(database)
		edges, err := led.Edges()
		if err != nil {
			return err
		}
		verdicts, err := led.LatestVerdicts()
		if err != nil {
			return err
		}
		accepted, err := led.AcceptedEdges()
		if err != nil {
			return err
		}

		proposedOverlapping, err := led.Proposed(match.LabelOverlappingWaves)
		if err != nil {
			return err
		}
		proposedDisjoint, err := led.Proposed(match.LabelDisjointWaves)
		if err != nil {
			return err
		}

		doc := library.Build(store, accepted)

		fmt.Println("  STORE")
		fmt.Println("  ────────────────────────────────────────")
		fmt.Printf("  Records: %d  (questions: %d, batteries: %d)\n",
			store.Len(), len(store.Questions()), len(store.Batteries()))
		fmt.Printf("  Waves: %v\n\n", doc.Waves)

		fmt.Println("  LEDGER")
		fmt.Println("  ────────────────────────────────────────")
		fmt.Printf("  Candidate edges: %d  decided: %d  accepted: %d\n",
			len(edges), len(verdicts), len(accepted))
		fmt.Printf("  Awaiting review: %d overlapping-waves, %d disjoint-waves\n\n",
			len(proposedOverlapping), len(proposedDisjoint))

		fmt.Println("  LIBRARY")
		fmt.Println("  ────────────────────────────────────────")
		crossWave := 0
		for _, q := range doc.Questions {
			if q.Type == library.TypeCrossWave {
				crossWave++
			}
		}
		fmt.Printf("  Unique questions: %d  (%d cross-wave)\n", doc.TotalUniqueQuestions, crossWave)
		fmt.Printf("  Unique batteries: %d\n", doc.TotalUniqueBatteries)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
