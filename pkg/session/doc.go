/*
Package session implements session management for concurrent hosts.

It serializes access to each session's state with reference-counted local locks,
optionally backed by a distributed lock when several replicas share one store,
and reports every committed change so adapters can stream state diffs.
*/
package session
