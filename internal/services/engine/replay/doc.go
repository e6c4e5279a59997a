// Package replay drives committed partition logs through the applier registry.
//
// A partition is replayed strictly in position order. Every event is applied,
// its position recorded and the state committed before the next event is
// read, so a restarted partition resumes exactly after the last committed
// event. Failures are never retried: the partition stops and reports a
// *PartitionFailure.
package replay
