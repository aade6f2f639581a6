/*
Package domain contains the core domain models of roomread.

It defines the content a learner walks through and the snapshot of a learning
session. This package is kept pure and free of external dependencies like I/O
or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Block: one step of a lesson or quiz. A closed sum type: TextBlock or QuestionItem.
  - Lesson / Content: what a content store returns for a (country, category) key.
  - RunnerState: the runtime snapshot of a session (Phase, Position, Selection).
  - LifecycleHooks: callbacks emitted by the runner for logs and metrics.
*/
package domain
