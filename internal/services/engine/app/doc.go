// Package app wires the engine runtime: one Pebble state and one replay loop
// per partition, the shared event journal, and the gRPC health and
// diagnostics surface.
package app
