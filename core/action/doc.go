// Package action defines the action descriptor parsed out of model output and
// the structural check every descriptor must pass before it is dispatched.
//
// A descriptor names a tool, an activity path on that tool, and an optional
// input of the form {"values": {...}}. The reserved name [ErrorName] marks a
// terminal failure: parsing never returns an error, it returns an error
// descriptor built with [Error] instead.
//
// Descriptors serialize to two formats, the canonical JSON used by the bracket
// grammar ([Action.ToJSON]) and the function_calls markup used by the tagged
// grammar ([Action.ToTagged]).
package action
