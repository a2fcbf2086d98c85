package cmd

import (
	"fmt"
	"strconv"

	"github.com/abhisek/bootseq/internal/llm"
	"github.com/abhisek/bootseq/internal/store"
	"github.com/spf13/cobra"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the coach's LLM requests",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		return withStore(cmd, func(s *store.Store) error {
			events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit})
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}
			if len(events) == 0 {
				fmt.Println("No LLM requests recorded.")
				return nil
			}

			fmt.Printf("%-5s  %-19s  %-12s  %-12s  %-28s  %6s  %6s  %7s  %s\n",
				"ID", "Time", "Provider", "Purpose", "Model", "In", "Out", "Ms", "OK")
			fmt.Println(rule(112))
			for _, e := range events {
				if purpose != "" && e.Purpose != purpose {
					continue
				}
				ok := "✓"
				if !e.Success {
					ok = "✗"
				}
				fmt.Printf("%-5d  %-19s  %-12s  %-12s  %-28s  %6d  %6d  %7d  %s\n",
					e.ID, e.Timestamp.Local().Format("2006-01-02 15:04:05"),
					e.Provider, e.Purpose, truncate(e.Model, 28),
					e.InputTokens, e.OutputTokens, e.LatencyMs, ok)
			}
			return nil
		})
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full request and response of one LLM call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		return withStore(cmd, func(s *store.Store) error {
			e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get event: %w", err)
			}
			if e == nil {
				return fmt.Errorf("event %d not found", id)
			}

			for _, kv := range [][2]string{
				{"ID", strconv.Itoa(e.ID)},
				{"Time", e.Timestamp.Local().Format("2006-01-02 15:04:05")},
				{"Provider", e.Provider},
				{"Model", e.Model},
				{"Purpose", e.Purpose},
				{"Tokens", fmt.Sprintf("%d in / %d out", e.InputTokens, e.OutputTokens)},
				{"Latency", fmt.Sprintf("%dms", e.LatencyMs)},
				{"Success", strconv.FormatBool(e.Success)},
				{"Error", e.ErrorMessage},
			} {
				if kv[1] != "" {
					fmt.Printf("%-10s %s\n", kv[0]+":", kv[1])
				}
			}

			printBody("REQUEST", e.RequestBody)
			printBody("RESPONSE", e.ResponseBody)
			return nil
		})
	},
}

func printBody(title, body string) {
	if body == "" {
		body = "(not captured)"
	}
	fmt.Printf("\n%s\n%s\n%s\n", rule(60), title, rule(60))
	fmt.Println(body)
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage per purpose and estimated cost per model",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(s *store.Store) error {
			ctx := cmd.Context()
			byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
			if err != nil {
				return fmt.Errorf("query usage: %w", err)
			}
			if len(byPurpose) == 0 {
				fmt.Println("No LLM usage recorded yet.")
				return nil
			}
			printUsage(byPurpose)

			byModel, err := s.EventRepo().LLMUsageByModel(ctx)
			if err != nil {
				return fmt.Errorf("query model usage: %w", err)
			}
			printCost(byModel)
			return nil
		})
	},
}

func printUsage(rows []store.LLMUsage) {
	fmt.Println("Usage by Purpose")
	fmt.Println(rule(80))
	fmt.Printf("%-16s  %6s  %6s  %10s  %10s  %10s  %8s\n",
		"Purpose", "Calls", "Failed", "Input", "Output", "Total", "Avg Ms")
	fmt.Println(rule(80))

	var sum store.LLMUsage
	for _, u := range rows {
		fmt.Printf("%-16s  %6d  %6d  %10d  %10d  %10d  %8d\n",
			u.Key, u.Calls, u.Failures, u.InputTokens, u.OutputTokens, u.InputTokens+u.OutputTokens, u.AvgLatencyMs)
		sum.Calls += u.Calls
		sum.Failures += u.Failures
		sum.InputTokens += u.InputTokens
		sum.OutputTokens += u.OutputTokens
	}
	fmt.Println(rule(80))
	fmt.Printf("%-16s  %6d  %6d  %10d  %10d  %10d\n",
		"TOTAL", sum.Calls, sum.Failures, sum.InputTokens, sum.OutputTokens, sum.InputTokens+sum.OutputTokens)
}

func printCost(rows []store.LLMUsage) {
	if len(rows) == 0 {
		return
	}
	fmt.Println("\nEstimated Cost (USD)")
	fmt.Println(rule(80))
	fmt.Printf("%-32s  %6s  %10s  %10s  %10s\n", "Model", "Calls", "Input", "Output", "Cost")
	fmt.Println(rule(80))

	var (
		total   float64
		unknown []string
	)
	for _, u := range rows {
		cost := "?"
		if price := llm.LookupCost(u.Key); price != nil {
			c := price.Cost(u.InputTokens, u.OutputTokens)
			total += c
			cost = formatCost(c)
		} else {
			unknown = append(unknown, u.Key)
		}
		fmt.Printf("%-32s  %6d  %10d  %10d  %10s\n",
			truncate(u.Key, 32), u.Calls, u.InputTokens, u.OutputTokens, cost)
	}

	label := "TOTAL"
	if len(unknown) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Println(rule(80))
	fmt.Printf("%-32s  %6s  %10s  %10s  %10s\n", label, "", "", "", formatCost(total))
	if len(unknown) > 0 {
		fmt.Printf("\nPricing unavailable for: %v\n", unknown)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. boot-nudge)")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
