package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/bootseq/internal/catalog"
	"github.com/abhisek/bootseq/internal/coach"
	"github.com/abhisek/bootseq/internal/game"
	"github.com/abhisek/bootseq/internal/llm"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview <module>",
	Short: "Preview a module's quiz and coach nudge (no database)",
	Long: `Print a module's detail panel and a freshly shuffled quiz.

This is a stateless tool for bank authors: no database, no budget, no events.
With --nudge it asks the configured LLM provider for the nudge a player
would see after missing every question.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().Bool("answers", false, "Show the answer key")
	previewCmd.Flags().Bool("nudge", false, "Generate a coach nudge for a fully wrong attempt")
}

func runPreview(cmd *cobra.Command, args []string) error {
	showAnswers, _ := cmd.Flags().GetBool("answers")
	wantNudge, _ := cmd.Flags().GetBool("nudge")

	cfg, err := gameConfig(cmd)
	if err != nil {
		return err
	}
	cat := catalog.Default()
	m, err := cat.Get(args[0])
	if err != nil {
		return fmt.Errorf("unknown module %q, try one of: %s", args[0], strings.Join(cat.AllIDs(), ", "))
	}
	bank, err := cfg.LoadBank(cat)
	if err != nil {
		return fmt.Errorf("load quiz bank: %w", err)
	}

	fmt.Printf("%s — %s\n", m.Title, m.Role)
	fmt.Println(m.Description)
	if m.Path != "" {
		fmt.Printf("\n%s\n", m.Path)
	}
	if m.Snippet != "" {
		fmt.Printf("  %s\n", strings.ReplaceAll(m.Snippet, "\n", "\n  "))
	}
	if len(m.Prerequisites) > 0 {
		fmt.Printf("\nNeeds: %s\n", strings.Join(cat.Titles(m.Prerequisites), ", "))
	}

	inst, err := cfg.NewEngine(bank).Instantiate(m.ID)
	if err != nil {
		return err
	}
	fmt.Printf("\n%s", game.FormatQuiz(inst))
	fmt.Printf("[%s]\n", inst.SubmitLabel)

	q, _ := bank.Quiz(m.ID)
	if showAnswers {
		fmt.Println("\nAnswer key:")
		for _, question := range q.Questions {
			if ids := question.CorrectIDs(); len(ids) > 0 {
				fmt.Printf("  %s: %s\n", question.ID, strings.Join(ids, ", "))
			} else {
				fmt.Printf("  %s: any non-blank value in every field\n", question.ID)
			}
		}
	}
	fmt.Printf("\nHint on failure: %s\n", bank.HintFor(m.ID))

	if !wantNudge {
		return nil
	}

	logger, logFile, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer logFile.Close()

	// No event sink: preview never touches the database.
	ctx := context.Background()
	provider, err := llm.NewProviderFromEnv(ctx, nil, logger)
	if errors.Is(err, llm.ErrDisabled) {
		return fmt.Errorf("--nudge needs BOOTSEQ_LLM_PROVIDER or a provider API key")
	}
	if err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}

	var wrong []string
	for _, question := range q.Questions {
		wrong = append(wrong, question.ID)
	}
	_, limit := cfg.Economy(bank)
	svc := coach.NewService(provider, coach.DefaultConfig(), logger)
	n := svc.Nudge(ctx, coach.NewInput(m, bank, wrong, 1, limit))

	fmt.Printf("\nNudge (%s): %s\n", n.Source, n.Text)
	if n.Concept != "" {
		fmt.Printf("Concept: %s\n", n.Concept)
	}
	return nil
}
