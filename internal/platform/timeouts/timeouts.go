// Package timeouts defines shared timeout constants used across the engine
// commands.
package timeouts

import "time"

// GRPCDial caps the wait for an engine to report SERVING.
const GRPCDial = 5 * time.Second

// GRPCRequest caps a single diagnostics request.
const GRPCRequest = 2 * time.Second

// Shutdown limits how long the engine waits for in-flight RPCs before it
// stops serving forcefully.
const Shutdown = 5 * time.Second
