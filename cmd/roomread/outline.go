package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/roomread/internal/cli"
	"github.com/aretw0/roomread/pkg/domain"
	"github.com/spf13/cobra"
)

var outlineCmd = &cobra.Command{
	Use:   "outline <country> [category]",
	Short: "List published content, or chart one category as Mermaid",
	Long: `Without a category, lists every quiz and lesson published for a country.
With a category, prints the steps of its quiz (or lesson with --lesson) as a
Mermaid flowchart.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		defer env.Close()
		out := cmd.OutOrStdout()

		if len(args) == 1 {
			entries, err := cli.Outline(cmd.Context(), env.App, args[0])
			if err != nil {
				return err
			}
			if jsonMode, _ := cmd.Flags().GetBool("json"); jsonMode {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}
			return cli.PrintOutline(out, entries)
		}

		key := domain.ContentKey{Country: args[0], Category: args[1], Mode: domain.ModeQuiz}
		if lesson, _ := cmd.Flags().GetBool("lesson"); lesson {
			key.Mode = domain.ModeLesson
			key.Tier, _ = cmd.Flags().GetString("tier")
		}
		chart, err := cli.OutlineGraph(cmd.Context(), env.App, key, nil)
		if err != nil {
			return err
		}
		fmt.Fprint(out, chart)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(outlineCmd)
	outlineCmd.Flags().BoolP("lesson", "l", false, "Chart the lesson instead of the quiz")
	outlineCmd.Flags().String("tier", domain.DefaultTier, "Lesson tier")
	outlineCmd.Flags().Bool("json", false, "List content as JSON")
}
