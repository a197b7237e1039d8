package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/leofalp/toolloop/core/artifact"
	"github.com/leofalp/toolloop/core/parse"
	"github.com/leofalp/toolloop/internal/jsonschema"
	"github.com/leofalp/toolloop/internal/utils"
	"github.com/leofalp/toolloop/providers/observability"
)

// TypedActivity binds an activity path to a strongly-typed Go function. The
// input schema is derived from I and compiled once, when the activity is
// built.
type TypedActivity[I, O any] struct {
	path        string
	description string
	function    func(ctx context.Context, input I) (O, error)
	schema      *jsonschema.Schema
	validator   *jsonschema.Validator
}

// ActivityOption configures a TypedActivity.
type ActivityOption func(*activityOptions)

type activityOptions struct {
	description string
}

// WithActivityDescription sets the description shown to the model.
func WithActivityDescription(description string) ActivityOption {
	return func(o *activityOptions) {
		o.description = description
	}
}

// NewActivity builds a typed activity. The values of the action input are
// decoded into I; O becomes the activity output:
//   - an artifact.Artifact is returned as is,
//   - a string becomes a Text artifact,
//   - anything else becomes a Text artifact holding its JSON encoding.
//
// It fails when no schema can be derived from I.
func NewActivity[I, O any](path string, function func(ctx context.Context, input I) (O, error), opts ...ActivityOption) (*TypedActivity[I, O], error) {
	o := &activityOptions{}
	for _, opt := range opts {
		opt(o)
	}

	values, err := jsonschema.GenerateJSONSchema[I]()
	if err != nil {
		return nil, fmt.Errorf("activity %s: input schema: %w", path, err)
	}
	schema := jsonschema.WrapValues(values)

	validator, err := jsonschema.Compile(schema)
	if err != nil {
		return nil, fmt.Errorf("activity %s: %w", path, err)
	}

	return &TypedActivity[I, O]{
		path:        path,
		description: o.description,
		function:    function,
		schema:      schema,
		validator:   validator,
	}, nil
}

// MustActivity panics if err is non-nil. It is meant for package-level tool
// definitions whose input types are known to be valid.
func MustActivity[I, O any](a *TypedActivity[I, O], err error) *TypedActivity[I, O] {
	if err != nil {
		panic(err)
	}
	return a
}

func (a *TypedActivity[I, O]) Path() string                    { return a.path }
func (a *TypedActivity[I, O]) Description() string             { return a.description }
func (a *TypedActivity[I, O]) InputSchema() *jsonschema.Schema { return a.schema }

// ValidateInput implements [Activity].
func (a *TypedActivity[I, O]) ValidateInput(input map[string]any) error {
	return a.validator.Validate(input)
}

// Execute decodes the caller's action values into I and runs the function.
// Span events are emitted when a span is present in ctx.
func (a *TypedActivity[I, O]) Execute(ctx context.Context, caller Caller) (artifact.Artifact, error) {
	values := caller.Action().Values()
	if values == nil {
		values = map[string]any{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return artifact.Artifact{}, fmt.Errorf("failed to encode input values: %w", err)
	}

	span := observability.SpanFromContext(ctx)
	if span != nil {
		span.AddEvent(observability.EventToolExecutionStart,
			observability.String(observability.AttrToolPath, a.path),
			observability.String(observability.AttrToolInput, observability.TruncateString(string(raw), 0)),
		)
		defer span.AddEvent(observability.EventToolExecutionEnd)
	}

	input, err := parse.ParseStringAs[I](string(raw))
	if err != nil {
		return artifact.Artifact{}, err
	}

	timer := utils.NewTimer()
	output, err := a.function(ctx, input)
	if span != nil {
		span.SetAttributes(observability.Duration(observability.AttrToolDuration, timer.Stop()))
	}
	if err != nil {
		return artifact.Artifact{}, err
	}

	return toArtifact(output)
}

func toArtifact(output any) (artifact.Artifact, error) {
	switch v := output.(type) {
	case artifact.Artifact:
		return v, nil
	case string:
		return artifact.NewText(v), nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return artifact.Artifact{}, fmt.Errorf("failed to encode output: %w", err)
		}
		return artifact.NewText(string(data)), nil
	}
}
