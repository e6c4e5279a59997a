// Package record defines the committed-event envelope and the typed payloads
// carried by each value type.
//
// Payload structs are the decode targets for event appliers. Every timestamp
// an applier may need is part of the payload (epoch milliseconds) so replay
// never has to consult a clock.
package record
