// Package artifact defines the result type exchanged between tool activities,
// subtasks and the loop controller.
//
// An [Artifact] is a small tagged union with three variants (Text, Error and
// Info). Values are immutable once built with [NewText], [NewError] or
// [NewInfo], and every variant projects to text through [Artifact.ToText], which
// is what the prompt renderer feeds back to the model as an observation.
package artifact
