/*
Package runner drives an assessment session from a terminal or any line-based stream.

It is the bridge between the stateless navigator and a respondent. The runner
renders each question through a pluggable IOHandler, turns lines of input into
navigation commands, and persists the session after every committed step so an
interrupted assessment can be resumed with the same session id.

# Key Components

  - Runner: The main loop. It returns the final state once the session completes or the input ends.
  - IOHandler: Decouples presentation (TextHandler for humans, JSONHandler for programs).
  - ParseCommand: Maps an input line (option number, option id, "back", "quit"...) to a Command.

# Usage

	r := runner.NewRunner(
		runner.WithSessionID("user-1"),
		runner.WithStore(store),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	state, err := r.Run(ctx, engine)
*/
package runner
