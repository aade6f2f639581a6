/*
Package ports defines the driven ports (interfaces) for the roomread runner.

These interfaces decouple the runner from external implementations, allowing
it to work with various content sources and session backends.

# Key Interfaces

  - ContentStore: Resolves a (country, category, mode) key into questions or a lesson.
  - SessionStore: Holds runner sessions between requests (Memory or Redis).
  - DistributedLocker: Provides distributed locking for handling concurrent session access.
*/
package ports
