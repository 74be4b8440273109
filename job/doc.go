// Package job defines the stateful representation of a unit of work within
// the queuectl lifecycle.
//
// A Job describes a shell command together with its delivery state,
// retry bookkeeping and scheduling metadata. Job values are returned by
// Queue operations and passed back to the store for state transitions;
// they are snapshots, not handles — mutating a Job's fields directly does
// not change the underlying queue. Transitions must go through Queue.
package job
