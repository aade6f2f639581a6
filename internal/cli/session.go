package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/aretw0/roomread/pkg/domain"
	"github.com/aretw0/roomread/pkg/ports"
	"gopkg.in/yaml.v3"
)

// SessionSummary is one row of the session listing.
type SessionSummary struct {
	ID       string
	Key      domain.ContentKey
	Phase    domain.Phase
	Position int
	Total    int
}

// ListSessions loads every stored session. Sessions that vanish between
// listing and loading are skipped.
func ListSessions(ctx context.Context, store ports.SessionStore) ([]SessionSummary, error) {
	ids, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	out := make([]SessionSummary, 0, len(ids))
	for _, id := range ids {
		state, err := store.Load(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, SessionSummary{
			ID:       id,
			Key:      state.Key,
			Phase:    state.Phase,
			Position: state.Position,
			Total:    len(state.Blocks),
		})
	}
	return out, nil
}

// PrintSessions writes summaries as an aligned table.
func PrintSessions(w io.Writer, sessions []SessionSummary) error {
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No active sessions found.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCONTENT\tPHASE\tSTEP")
	for _, s := range sessions {
		step := "-"
		if s.Total > 0 {
			step = fmt.Sprintf("%d/%d", min(s.Position+1, s.Total), s.Total)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, s.Key, s.Phase, step)
	}
	return tw.Flush()
}

// WriteState writes a stored session as indented JSON, or YAML when asYAML is set.
// YAML keeps the JSON field names.
func WriteState(w io.Writer, state *domain.RunnerState, asYAML bool) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if !asYAML {
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	return enc.Close()
}
