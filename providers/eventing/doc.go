// Package eventing defines the event sink a controller publishes subtask
// lifecycle events to. [Event] values are compact so that adapters can map
// them to logs, metrics or streams. An in-memory sink lives in the inmem
// subpackage.
package eventing
