/*
Package roomread teaches travellers the cultural etiquette of a destination
through short lessons and quizzes.

The core is a small state machine (the runner): a learner walks an ordered
list of blocks, picks answers until the correct one is revealed, and on
completion the category is added to a progress token that travels with the
category listing URL.

# Concept

Content is addressed by country, category and mode. Quiz questions live in
per-country JSON or YAML files; lessons are markdown documents with front
matter read through a loam repository. Sessions are held by a pluggable store
(memory, file or redis) and serialised per session ID.

# Usage

	app, err := roomread.New("./data")
	if err != nil {
		log.Fatal(err)
	}

	key := domain.ContentKey{Country: "france", Category: "dining-etiquette", Mode: domain.ModeQuiz}
	state, err := app.Start(ctx, "", key, "")
	...
	state, outcome, err := app.Select(ctx, state.SessionID, 1)
	if outcome.Correct {
		state, err = app.Advance(ctx, state.SessionID)
	}

The HTTP adapter (pkg/adapters/http), the MCP adapter (pkg/adapters/mcp) and
the terminal runner (pkg/runner) all sit on top of the same session manager.
*/
package roomread
