// Package diagnostics serves the engine's read-only operational RPCs: the
// registered applier table and per-partition replay status.
//
// The service is described by a hand-written grpc.ServiceDesc over protobuf
// well-known types, so it needs no generated code.
package diagnostics
