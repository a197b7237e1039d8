// Package inmem provides an [eventing.Sink] that keeps events in memory. It is
// used by tests and examples to observe the order of subtask events.
package inmem
