package main

import (
	"os"

	"github.com/aretw0/roomread/internal/cli"
	"github.com/aretw0/roomread/pkg/domain"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play <country> <category>",
	Short: "Walk a quiz or lesson in the terminal",
	Long: `Plays the quiz of a category, or its lesson with --lesson.

Answer with the option letter or number. Press Enter to move on once an
answer is correct, and type 'q' to leave.

Pass the token printed at the end back with --completed to keep track of
finished categories.`,
	Example: `  roomread play france dining-etiquette
  roomread play france greetings-gestures --lesson --completed dining-etiquette`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lesson, _ := cmd.Flags().GetBool("lesson")
		tier, _ := cmd.Flags().GetString("tier")
		completed, _ := cmd.Flags().GetString("completed")
		sessionID, _ := cmd.Flags().GetString("session")
		jsonMode, _ := cmd.Flags().GetBool("json")
		quiet, _ := cmd.Flags().GetBool("quiet")

		key := domain.ContentKey{Country: args[0], Category: args[1], Mode: domain.ModeQuiz}
		if lesson {
			key.Mode = domain.ModeLesson
			key.Tier = tier
		}

		env, err := setup(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		opts := cli.PlayOptions{
			Key:       key,
			Completed: completed,
			SessionID: sessionID,
			JSON:      jsonMode,
			Quiet:     quiet,
		}
		return cli.HandleExecutionError(cli.Play(ctx, env, opts, os.Stdin, os.Stdout))
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().BoolP("lesson", "l", false, "Play the lesson instead of the quiz")
	playCmd.Flags().String("tier", domain.DefaultTier, "Lesson tier")
	playCmd.Flags().StringP("completed", "c", "", "Comma separated categories already completed")
	playCmd.Flags().StringP("session", "s", "", "Session ID (default: a fresh UUID)")
	playCmd.Flags().Bool("json", false, "Exchange views and commands as JSON lines")
	playCmd.Flags().BoolP("quiet", "q", false, "Suppress the banner and closing messages")
}
