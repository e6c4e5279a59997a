// Package applier holds the (intent, version) to applier table used to turn
// committed events into state mutations.
//
// The table is filled by one bootstrap pass, sealed, and then only read.
// Every lookup failure is fatal for the partition being replayed: the registry
// never skips an event it cannot apply.
package applier
