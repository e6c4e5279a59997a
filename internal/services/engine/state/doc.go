// Package state declares the narrow state partition contracts appliers write
// through.
//
// Each contract covers one domain concept. Calls are synchronous and local;
// none of them take a context because an applier must never wait. Reads
// observe every write made earlier in the same event application.
package state

import "errors"

// ErrNotFound is returned when a keyed entry is absent.
var ErrNotFound = errors.New("state: not found")
