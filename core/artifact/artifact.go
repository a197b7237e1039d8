package artifact

// Kind identifies which variant of the tagged union an [Artifact] holds.
type Kind int

const (
	// KindNone is the zero Kind. A zero Artifact carries no result.
	KindNone Kind = iota
	// KindText is a successful textual result (tool output, final answer, fallback text).
	KindText
	// KindError is a failure surfaced to the model on the next turn.
	KindError
	// KindInfo is an informational notice that is neither a result nor a failure.
	KindInfo
)

// String returns the lowercase name of the kind, used in logs and events.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindError:
		return "error"
	case KindInfo:
		return "info"
	default:
		return "none"
	}
}

// Artifact is an immutable result produced by a subtask, a tool activity or the
// loop controller. Every variant carries a string payload and projects to text
// uniformly through [Artifact.ToText].
type Artifact struct {
	kind  Kind
	value string
}

// NewText returns a Text artifact holding value.
func NewText(value string) Artifact {
	return Artifact{kind: KindText, value: value}
}

// NewError returns an Error artifact holding the failure message.
func NewError(message string) Artifact {
	return Artifact{kind: KindError, value: message}
}

// NewInfo returns an Info artifact holding value.
func NewInfo(value string) Artifact {
	return Artifact{kind: KindInfo, value: value}
}

// Kind reports which variant a holds.
func (a Artifact) Kind() Kind {
	return a.kind
}

// Value returns the raw payload.
func (a Artifact) Value() string {
	return a.value
}

// ToText projects the artifact to the text shown to the model and to callers.
// All kinds project to their payload.
func (a Artifact) ToText() string {
	return a.value
}

// IsError reports whether a is an Error artifact.
func (a Artifact) IsError() bool {
	return a.kind == KindError
}

// IsZero reports whether a was never constructed through one of the New functions.
func (a Artifact) IsZero() bool {
	return a.kind == KindNone
}

// String implements fmt.Stringer for debugging output.
func (a Artifact) String() string {
	return a.kind.String() + ": " + a.value
}
