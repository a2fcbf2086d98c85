package cmd

import (
	"os"

	"github.com/abhisek/bootseq/internal/app"
	"github.com/abhisek/bootseq/internal/game"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a boot sequence",
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts playOptions
		opts.plain, _ = cmd.Flags().GetBool("plain")
		opts.verbose, _ = cmd.Flags().GetBool("verbose")
		noSplash, _ := cmd.Flags().GetBool("no-splash")
		opts.splash = !noSplash
		return runPlay(cmd, opts)
	},
}

func init() {
	playCmd.Flags().Bool("plain", false, "Play with line commands on stdin instead of the full-screen UI")
	playCmd.Flags().BoolP("verbose", "v", false, "In plain mode, print the whole board after every action")
	playCmd.Flags().Bool("no-splash", false, "Skip the boot log and open the board directly")
}

type playOptions struct {
	plain   bool
	verbose bool
	splash  bool
}

func runPlay(cmd *cobra.Command, opts playOptions) error {
	ctx := cmd.Context()

	if opts.plain {
		out := app.NewSyncWriter(os.Stdout)
		tr := game.NewTextRenderer(out)
		tr.Verbose = opts.verbose

		env, err := openGameEnv(cmd, tr)
		if err != nil {
			return err
		}
		defer env.Close()
		return app.RunPlain(ctx, env.ctl, os.Stdin, out)
	}

	mailbox := game.NewMailbox()
	env, err := openGameEnv(cmd, mailbox)
	if err != nil {
		return err
	}
	defer env.Close()

	return app.Run(ctx, app.Options{
		Controller: env.ctl,
		Mailbox:    mailbox,
		Coach:      env.coach,
		History:    env.store.EventRepo(),
		Logger:     env.logger,
		Splash:     opts.splash,
	})
}
