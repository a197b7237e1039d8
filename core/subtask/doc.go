// Package subtask implements one step of the think/act/observe trace.
//
// A [Subtask] wraps a raw completion. [Subtask.Attach] binds it to its
// [Origin] and runs the single initialization pass: the origin's grammar
// extracts the thought, action and answer, the action is built and checked,
// and the action input is validated against the activity's schema. Failures
// of that pass become an error action instead of an error value.
//
// [Subtask.Run] dispatches the action to the origin's tools and always
// resolves the subtask with exactly one artifact. [Subtask.BeforeRun] and
// [Subtask.AfterRun] publish lifecycle events to the origin's sink.
//
// Subtasks form a DAG over the origin's arena: links are stored as ids and
// resolved through [Origin.FindSubtask].
package subtask
