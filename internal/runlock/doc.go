// Package runlock guards against concurrent import runs on the same machine.
//
// The importer performs unsynchronized read-then-write operations against
// the catalog, so two simultaneous runs could create duplicate entities.
// An flock-based lock keeps invocations serialized per host.
package runlock
