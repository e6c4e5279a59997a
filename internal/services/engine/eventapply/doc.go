// Package eventapply holds the typed appliers that turn committed events into
// state partition mutations, and the bootstrap pass that registers them.
//
// Appliers read only the event key, the decoded payload and the partitions
// they are given. Anything time dependent must travel in the payload. When a
// transition has to change, a new version is registered next to the old one
// and the shared part lives in a private helper.
//
// Appliers are grouped by domain:
//   - process definitions and the process instance tree
//   - jobs and user tasks
//   - messages, timers, signals and incidents
//   - identity, authorization, distribution and engine administration
package eventapply
