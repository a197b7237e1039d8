// Package tool defines the capabilities a model can invoke through action
// descriptors.
//
// A [Tool] is a named set of [Activity] values; the action's name selects the
// tool and its path selects the activity. [New] builds a tool from options and
// [NewActivity] turns a typed Go function into an activity whose input schema
// is derived from the function's input type and compiled once.
//
// The [Catalog] type is a thread-safe, case-insensitive registry that rejects
// duplicate names. [Manifest] produces the description that prompt templates
// render for the model.
package tool
