/*
Package session implements server-held runs.

A session binds a RunState to the machine it runs against and lives in a
ports.RunStore, so clients can step a run by ID instead of round-tripping its
state. Access to a session is serialized by a local reference-counted mutex
and, across replicas, by an optional ports.DistributedLocker.
*/
package session
