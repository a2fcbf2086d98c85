package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/bootseq/internal/catalog"
	"github.com/spf13/cobra"
)

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List the modules of the boot sequence and their quizzes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := gameConfig(cmd)
		if err != nil {
			return err
		}
		cat := catalog.Default()
		bank, err := cfg.LoadBank(cat)
		if err != nil {
			return fmt.Errorf("load quiz bank: %w", err)
		}
		budget, limit := cfg.Economy(bank)

		fmt.Printf("Bank %q: budget %d steps, mistake limit %s\n\n", bank.Name, budget, limitString(limit))
		fmt.Printf("%-10s  %-14s  %-24s  %-18s  %s\n", "ID", "Title", "Role", "Needs", "Quiz")
		fmt.Println(strings.Repeat("─", 100))

		for _, id := range cat.TopologicalOrder() {
			m, _ := cat.Get(id)
			needs := strings.Join(m.Prerequisites, ", ")
			if needs == "" {
				needs = "-"
			}
			quizTitle := "-"
			if q, ok := bank.Quiz(id); ok {
				quizTitle = fmt.Sprintf("%s (%d questions)", q.Title, len(q.Questions))
			}
			fmt.Printf("%-10s  %-14s  %-24s  %-18s  %s\n",
				m.ID, m.Title, truncate(m.Role, 24), needs, quizTitle)
		}

		fmt.Printf("\n%d modules, %s completes the sequence\n", cat.Len(), cat.Terminal())
		return nil
	},
}

func limitString(limit int) string {
	if limit == 0 {
		return "off"
	}
	return fmt.Sprintf("%d", limit)
}
