package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"somlib/kanon/internal/ledger"
	"somlib/kanon/internal/library"
	"somlib/kanon/internal/match"
)

var buildOut string

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Assemble the cross-wave question library from the store and ledger",
	Long: `Recomputes the library from the ingested records and the decision
ledger. The build is deterministic and idempotent: nothing is mutated in
place, and any ledger state works — with no decisions the library degrades to
the exact-key groups.`,
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

		accepted, err := ledger.New(database).AcceptedEdges()
		if err != nil {
			return err
		}

		doc := library.Build(store, accepted)

		out := os.Stdout
		if buildOut != "" {
			f, err := os.Create(buildOut)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer f.Close()
			out = f
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("writing library: %w", err)
		}

		if buildOut != "" {
			fmt.Printf("Waves: %v\n", doc.Waves)
			fmt.Printf("Unique questions: %d\n", doc.TotalUniqueQuestions)
			fmt.Printf("Unique batteries: %d\n", doc.TotalUniqueBatteries)
			fmt.Printf("Saved to: %s\n", buildOut)
		}
		return nil
	},
}

func init() {
	buildCmd.Flags().StringVar(&buildOut, "out", "", "Write the library document to this file instead of stdout")
	rootCmd.AddCommand(buildCmd)
}
