package cmd

import (
	"os"
	"sync"

	"github.com/abhisek/bootseq/internal/game"
	"github.com/spf13/cobra"
)

var tourCmd = &cobra.Command{
	Use:   "tour",
	Short: "Walk through every module once and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		done := make(chan struct{})
		var once sync.Once

		// The renderer runs under the controller lock; it only signals.
		finished := game.RendererFunc(func(f game.Frame) {
			if f.Status == game.StatusTourDone {
				once.Do(func() { close(done) })
			}
		})

		env, err := openGameEnv(cmd, game.NewTextRenderer(os.Stdout), finished)
		if err != nil {
			return err
		}
		defer env.Close()

		env.ctl.Start(ctx)
		env.ctl.StartTour(ctx)

		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	},
}
