package main

import (
	"fmt"

	"github.com/aretw0/roomread/pkg/catalog"
	"github.com/spf13/cobra"
)

var countriesCmd = &cobra.Command{
	Use:   "countries",
	Short: "List destination countries and etiquette categories",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Countries:")
		for _, c := range catalog.Countries() {
			fmt.Fprintf(out, "  %s %-10s %s (%s)\n", c.Flag, c.Slug, c.Name, c.Region)
		}
		fmt.Fprintln(out, "\nCategories:")
		for _, c := range catalog.Categories() {
			fmt.Fprintf(out, "  %-24s %s\n", c.Slug, c.Description)
		}
		fmt.Fprintln(out, "\nLesson tiers:")
		for _, t := range catalog.Tiers() {
			status := ""
			if t.Locked {
				status = " (coming soon)"
			}
			fmt.Fprintf(out, "  %-24s %s%s\n", t.Slug, t.Title, status)
		}
	},
}

func init() {
	rootCmd.AddCommand(countriesCmd)
}
