// Package intent defines the closed set of record intents the engine knows.
//
// An intent names what happened (event intents, e.g. job.created) or what was
// requested (command intents, e.g. job.complete). Only event intents are ever
// committed to a partition log as state changes, so only they may be bound to
// an event applier. The table is fixed at compile time; an intent string that
// is not in it is unknown to this binary.
package intent
