/*
Package turing is a deterministic multi-tape Turing machine simulator.

Machines are described in YAML: a name, a tape count, a blank symbol, an
initial state, a set of final states and a list of transitions. Descriptions
are parsed, validated and normalized once; the result is an immutable
Machine that any number of runs can share.

# Concept

A run is a plain value (domain.RunState): control state, tapes, heads, step
count and a permanent halted flag. The Simulator never keeps runs between
calls. Every operation takes the state explicitly and returns a new one, so
a host can hold it in memory, serialize it into an HTTP response, or persist
it in a session store (see pkg/session) and resume it later.

A run halts when it reaches a final state or when no transition matches the
symbols under the heads. Halting in a final state accepts; halting anywhere
else rejects.

# Usage

	sim, err := turing.Open("samples")
	if err != nil {
		log.Fatal(err)
	}

	state, err := sim.Start(ctx, "Binary Inverter", []string{"0110"})
	if err != nil {
		log.Fatal(err)
	}

	state, err = sim.Run(ctx, "Binary Inverter", state, 10000)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(state.Tapes[0], state.StepCount)

# Adapters

  - pkg/adapters/file and pkg/adapters/memory: description loaders and session stores.
  - pkg/adapters/redis: a shared session store with distributed locking.
  - pkg/adapters/http: the JSON API (stateless /simulate routes and server-held /sessions).
  - pkg/adapters/mcp: the same operations as Model Context Protocol tools.
*/
package turing
