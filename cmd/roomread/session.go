package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/roomread/internal/cli"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage runner sessions",
	Long:  `List, inspect, and remove the runner sessions held by the configured session store.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all active sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		sessions, err := cli.ListSessions(cmd.Context(), env.App.Sessions().Store())
		if err != nil {
			return err
		}
		return cli.PrintSessions(cmd.OutOrStdout(), sessions)
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Inspect the state of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID := args[0]
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		state, err := env.App.Sessions().Store().Load(cmd.Context(), sessionID)
		if err != nil {
			return fmt.Errorf("error loading session '%s': %w", sessionID, err)
		}

		if mermaid, _ := cmd.Flags().GetBool("mermaid"); mermaid {
			chart, err := cli.OutlineGraph(cmd.Context(), env.App, state.Key, state)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), chart)
			return nil
		}
		asYAML, _ := cmd.Flags().GetBool("yaml")
		return cli.WriteState(cmd.OutOrStdout(), state, asYAML)
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm [session-id]...",
	Short: "Remove one or more sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		if !all && len(args) == 0 {
			return errors.New("name at least one session, or pass --all")
		}

		env, err := setup(cmd)
		if err != nil {
			return err
		}
		defer env.Close()
		store := env.App.Sessions().Store()

		ids := args
		if all {
			if ids, err = store.List(cmd.Context()); err != nil {
				return err
			}
		}

		var errs []error
		for _, sessionID := range ids {
			if err := store.Delete(cmd.Context(), sessionID); err != nil {
				errs = append(errs, fmt.Errorf("error removing '%s': %w", sessionID, err))
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed session '%s'\n", sessionID)
		}
		return errors.Join(errs...)
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)

	sessionInspectCmd.Flags().Bool("yaml", false, "Print the session as YAML")
	sessionInspectCmd.Flags().Bool("mermaid", false, "Chart the session's position as a Mermaid flowchart")
	sessionRmCmd.Flags().Bool("all", false, "Remove every session")
}
