/*
Package domain contains the core value types of the Turing simulator.

It defines the immutable machine description produced by the loader and the
mutable run state advanced by the engine. This package is kept pure and free
of external dependencies like I/O or persistence, following Hexagonal
Architecture principles.

# Key Entities

  - Machine: a validated, normalized machine description (states, blank symbol, transition table).
  - Transition: a rule mapping (state, symbols read) to (state, symbols written, head moves).
  - Move: the head direction of one tape (Left, Right, None).
  - RunState: the fully-owned snapshot of one simulation, safe to serialize between steps.
  - LifecycleHooks: callbacks fired by the simulator facade for observability.
*/
package domain
