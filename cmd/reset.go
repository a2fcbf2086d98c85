package cmd

import (
	"fmt"

	"github.com/abhisek/bootseq/internal/store"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the stored best score",
	Long: `Clear the stored best score. The attempt history is an append-only
log and is kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(s *store.Store) error {
			cleared, err := s.BestScore().Clear(cmd.Context())
			if err != nil {
				return fmt.Errorf("clear best score: %w", err)
			}
			if !cleared {
				fmt.Println("No best score stored.")
				return nil
			}
			fmt.Println("Best score cleared.")
			return nil
		})
	},
}
