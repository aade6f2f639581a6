/*
Package runner plays a lesson or quiz session in a terminal or over JSON lines.

It is the bridge between the session manager and a human (or a script).
Each turn the current view is written through an IOHandler, one line of input
is read and parsed into a Command, and the command is applied to the session.

# Key Components

  - Runner: the loop. Stops on completion, on a load failure, on "quit" or at EOF.
  - TextHandler: interactive output with optional markdown rendering and colours.
  - JSONHandler: one JSON view per line for headless use.

# Usage

	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)
	state, err := r.Run(ctx, manager, key, completed)
*/
package runner
