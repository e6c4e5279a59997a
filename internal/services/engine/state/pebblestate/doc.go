// Package pebblestate implements every state partition contract over a single
// Pebble database, one column family per concept.
//
// All partitions of one State share a single open transaction together with
// the last applied log position, so state and position always commit
// together.
package pebblestate
