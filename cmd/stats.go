package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/bootseq/internal/game"
	"github.com/abhisek/bootseq/internal/store"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the best score and attempt history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		session, _ := cmd.Flags().GetString("session")

		return withStore(cmd, func(s *store.Store) error {
			return printStats(cmd.Context(), s, limit, session)
		})
	},
}

func printStats(ctx context.Context, s *store.Store, limit int, session string) error {
	best, ok, err := s.BestScore().Read(ctx)
	if err != nil {
		return fmt.Errorf("read best score: %w", err)
	}
	fmt.Printf("Best: %s\n\n", game.FormatBest(best, ok))

	attempts, err := s.EventRepo().QueryAttempts(ctx, store.QueryOpts{SessionID: session})
	if err != nil {
		return fmt.Errorf("query attempts: %w", err)
	}
	if len(attempts) == 0 {
		fmt.Println("No attempts recorded yet.")
		return nil
	}

	type tally struct{ tries, passes int }
	byModule := make(map[string]*tally)
	var order []string
	for _, a := range attempts {
		t, ok := byModule[a.ModuleID]
		if !ok {
			t = &tally{}
			byModule[a.ModuleID] = t
			order = append(order, a.ModuleID)
		}
		t.tries++
		if a.Outcome == game.StatusCompleted || a.Outcome == game.StatusWon {
			t.passes++
		}
	}

	fmt.Println("Attempts by Module")
	fmt.Println(rule(48))
	fmt.Printf("%-12s  %8s  %8s  %10s\n", "Module", "Tries", "Passes", "Pass rate")
	fmt.Println(rule(48))
	for _, id := range order {
		t := byModule[id]
		fmt.Printf("%-12s  %8d  %8d  %9.0f%%\n", id, t.tries, t.passes, 100*float64(t.passes)/float64(t.tries))
	}

	fmt.Println()
	fmt.Println("Recent Attempts")
	fmt.Println(rule(80))
	fmt.Printf("%-19s  %-10s  %-18s  %5s  %8s  %s\n", "Timestamp", "Module", "Outcome", "Steps", "Mistakes", "Missed")
	fmt.Println(rule(80))
	for i, a := range attempts {
		if limit > 0 && i >= limit {
			break
		}
		missed := strings.Join(a.Wrong, ",")
		if missed == "" {
			missed = "-"
		}
		fmt.Printf("%-19s  %-10s  %-18s  %5d  %8d  %s\n",
			a.Timestamp.Local().Format("2006-01-02 15:04:05"),
			a.ModuleID, a.Outcome, a.StepsRemaining, a.Mistakes, missed)
	}

	sessions, err := s.EventRepo().QuerySessions(ctx, store.QueryOpts{SessionID: session})
	if err != nil {
		return fmt.Errorf("query sessions: %w", err)
	}
	wins := 0
	for _, e := range sessions {
		if e.Action == game.SessionWon {
			wins++
		}
	}
	fmt.Printf("\n%d attempts, %d wins across %d session events\n", len(attempts), wins, len(sessions))
	return nil
}

func init() {
	statsCmd.Flags().IntP("limit", "n", 20, "Number of recent attempts to show")
	statsCmd.Flags().String("session", "", "Restrict to one session ID")
}
