/*
Package ports defines the driven and driving ports (interfaces) of the maturity engine.

These interfaces decouple the core logic from external implementations, allowing
the engine to work with various questionnaire sources and session backends.

# Key Interfaces

  - QuestionnaireLoader: Loads a validated questionnaire (file, directory, memory).
  - StateStore: Keeps session State for the lifetime of a session.
  - DistributedLocker: Provides distributed locking for concurrent session access.
  - Navigator: The engine surface consumed by hosts (HTTP, MCP, terminal).
*/
package ports
