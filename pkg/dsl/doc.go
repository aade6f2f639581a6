/*
Package dsl provides a fluent builder for constructing lessons and quizzes in Go.

It is an alternative to Markdown lesson documents and question files,
useful for unit tests, demos and content generated at runtime.

Example usage:

	b := dsl.NewLesson("Greetings in France").
		Intro("How to say hello.").
		Summary("Greet first, then ask.")

	b.Text("Say bonjour when entering a shop.")

	b.Question("What do you say when entering a bakery?").
		Options("Salut", "Bonjour", "Nothing").
		Correct(1).
		Explain("Bonjour is the polite default.")

	store := memory.NewContentStore()
	if err := b.Register(store, "france", "greetings-gestures", domain.DefaultTier); err != nil {
		// ...
	}
*/
package dsl
