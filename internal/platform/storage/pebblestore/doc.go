// Package pebblestore wraps an embedded Pebble database with the fsync policy,
// transaction and column helpers shared by the engine's state partitions.
//
// Each partition owns one DB and exactly one open transaction at a time. The
// transaction is an indexed batch so reads observe earlier writes of the same
// transaction; nothing reaches the database until Commit.
package pebblestore
