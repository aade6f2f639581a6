package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/roomread/pkg/domain"
	"github.com/aretw0/roomread/pkg/ports"
)

// Ticket tags an asynchronous load with the session generation that requested it.
type Ticket struct {
	SessionID  string
	Generation uint64
	Token      string
}

// TicketFor returns the ticket of a loading session.
func TicketFor(state *domain.RunnerState) Ticket {
	return Ticket{SessionID: state.SessionID, Generation: state.Generation, Token: state.LoadToken}
}

// Matches reports whether the ticket still belongs to the given state.
// A restarted or replaced session no longer matches tickets issued before.
func (t Ticket) Matches(state *domain.RunnerState) bool {
	return state != nil &&
		state.SessionID == t.SessionID &&
		state.Generation == t.Generation &&
		state.LoadToken == t.Token &&
		state.Phase == domain.PhaseLoading
}

// LoadResult is the outcome of a content fetch.
type LoadResult struct {
	Ticket  Ticket
	Content domain.Content
	Err     error
}

// Fetch queries the store in a goroutine and delivers exactly one result.
func Fetch(ctx context.Context, store ports.ContentStore, ticket Ticket, key domain.ContentKey) <-chan LoadResult {
	out := make(chan LoadResult, 1)
	go func() {
		defer close(out)
		res := LoadResult{Ticket: ticket}
		defer func() {
			if r := recover(); r != nil {
				res.Content = domain.Content{}
				res.Err = fmt.Errorf("%w: content store panicked: %v", domain.ErrContentLoadFailed, r)
				out <- res
			}
		}()
		res.Content, res.Err = store.Find(ctx, key)
		out <- res
	}()
	return out
}

// Apply installs a load result if its ticket still matches the state.
// The boolean is false when the result was stale and has been discarded.
func (e *Engine) Apply(ctx context.Context, state *domain.RunnerState, res LoadResult) (*domain.RunnerState, bool, error) {
	if !res.Ticket.Matches(state) {
		e.logger.DebugContext(ctx, "discarding stale load result",
			"session_id", res.Ticket.SessionID,
			"ticket_generation", res.Ticket.Generation,
		)
		return state, false, nil
	}

	var (
		next *domain.RunnerState
		err  error
	)
	if res.Err != nil {
		next, err = e.Fail(ctx, state, res.Err)
	} else {
		next, err = e.Load(ctx, state, res.Content)
	}
	if err != nil {
		return nil, false, err
	}
	return next, true, nil
}
