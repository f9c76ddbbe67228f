/*
Package ports defines the driven ports (interfaces) for the Turing simulator.

These interfaces decouple the core logic from external implementations, allowing
the simulator to work with various description sources and session storage backends.

# Key Interfaces

  - MachineLoader: Responsible for sourcing raw description texts (e.g., from a directory or memory).
  - RunStore: Responsible for persisting and loading server-held sessions.
  - DistributedLocker: Provides distributed locking for handling concurrent session access.
  - Simulator: The stateless surface consumed by transport adapters (HTTP, MCP).
*/
package ports
