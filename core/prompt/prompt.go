package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/leofalp/toolloop/core/action"
	"github.com/leofalp/toolloop/core/artifact"
	"github.com/leofalp/toolloop/providers/tool"
)

// ResponseStopSequence prefixes every observation handed back to the model.
// Completions are expected to stop before emitting it themselves.
const ResponseStopSequence = "<|Response|>"

// Node is the view of a subtask needed to replay it into the prompt.
type Node interface {
	Thought() string
	Action() action.Action
	Output() (artifact.Artifact, bool)
}

// Renderer produces the turns of a completion request.
type Renderer interface {
	// System renders the system prompt describing tools and the calling
	// grammar.
	System(tools []tool.Tool, tagged bool) (string, error)
	// Assistant renders the thought and action of a past subtask.
	Assistant(node Node, tagged bool) (string, error)
	// User renders the observation of a past subtask.
	User(node Node) (string, error)
}

// SystemData is the data the system template is executed with.
type SystemData struct {
	Tools        []tool.ToolManifest
	ToolNames    []string
	Tagged       bool
	StopSequence string
}

// AssistantData is the data the assistant template is executed with.
type AssistantData struct {
	Thought string
	Action  string
}

// UserData is the data the user template is executed with.
type UserData struct {
	Output       string
	StopSequence string
}

const systemTemplate = `You are an assistant that solves the user's request step by step, using tools when they help.
{{- if .Tools}}

## Tools
You can use these tools: {{join .ToolNames ", "}}.
{{range .Tools}}
### {{.Name}}
{{- if .Description}}
{{.Description}}
{{- end}}
{{- range .Activities}}
- path: {{.Path}}
{{- if .Description}}
  description: {{.Description}}
{{- end}}
  input schema: {{.Schema}}
{{- end}}
{{end}}
{{- end}}
## Format
To use a tool, reply with exactly one thought and one action:

Thought: <what you need to do next>
{{- if .Tagged}}
Action: <function_calls>
<invoke>
<tool_name>TOOL NAME</tool_name>
<path>ACTIVITY PATH</path>
<parameters>
<PARAMETER>VALUE</PARAMETER>
</parameters>
</invoke>
{{- else}}
Action: {"name": "TOOL NAME", "path": "ACTIVITY PATH", "input": {"values": {"PARAMETER": "VALUE"}}}
{{- end}}

Then stop. The result comes back prefixed with "{{.StopSequence}}". Never write it yourself.

When you can answer, reply with:

Thought: <why you are done>
Answer: <the final answer>`

const assistantTemplate = `{{if .Thought}}Thought: {{.Thought}}
{{end}}Action: {{.Action}}`

const userTemplate = `{{.StopSequence}}: {{.Output}}`

// TemplateRenderer renders turns with text/template. It is safe for
// concurrent use.
type TemplateRenderer struct {
	system    *template.Template
	assistant *template.Template
	user      *template.Template
}

var _ Renderer = (*TemplateRenderer)(nil)

// Option overrides one of the default templates.
type Option func(*templates)

type templates struct {
	system, assistant, user string
}

// WithSystemTemplate replaces the system template. It is executed with
// [SystemData].
func WithSystemTemplate(text string) Option {
	return func(t *templates) {
		t.system = text
	}
}

// WithAssistantTemplate replaces the assistant template. It is executed with
// [AssistantData].
func WithAssistantTemplate(text string) Option {
	return func(t *templates) {
		t.assistant = text
	}
}

// WithUserTemplate replaces the user template. It is executed with
// [UserData].
func WithUserTemplate(text string) Option {
	return func(t *templates) {
		t.user = text
	}
}

var funcs = template.FuncMap{
	"join": strings.Join,
}

// New parses the templates. It fails when a template does not parse.
func New(opts ...Option) (*TemplateRenderer, error) {
	t := &templates{system: systemTemplate, assistant: assistantTemplate, user: userTemplate}
	for _, opt := range opts {
		opt(t)
	}

	system, err := template.New("system").Funcs(funcs).Parse(t.system)
	if err != nil {
		return nil, fmt.Errorf("parse system template: %w", err)
	}
	assistant, err := template.New("assistant").Funcs(funcs).Parse(t.assistant)
	if err != nil {
		return nil, fmt.Errorf("parse assistant template: %w", err)
	}
	user, err := template.New("user").Funcs(funcs).Parse(t.user)
	if err != nil {
		return nil, fmt.Errorf("parse user template: %w", err)
	}

	return &TemplateRenderer{system: system, assistant: assistant, user: user}, nil
}

// Default returns the renderer built from the default templates.
func Default() *TemplateRenderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

func (r *TemplateRenderer) System(tools []tool.Tool, tagged bool) (string, error) {
	data := SystemData{Tagged: tagged, StopSequence: ResponseStopSequence}
	for _, t := range tools {
		data.Tools = append(data.Tools, tool.Manifest(t))
		data.ToolNames = append(data.ToolNames, t.Name())
	}
	return execute(r.system, data)
}

// Assistant renders the action in the tagged form when tagged is set and it
// can be expressed that way, and as JSON otherwise.
func (r *TemplateRenderer) Assistant(node Node, tagged bool) (string, error) {
	rendered, err := renderAction(node.Action(), tagged)
	if err != nil {
		return "", err
	}
	return execute(r.assistant, AssistantData{Thought: node.Thought(), Action: rendered})
}

func (r *TemplateRenderer) User(node Node) (string, error) {
	data := UserData{StopSequence: ResponseStopSequence}
	if out, ok := node.Output(); ok {
		data.Output = out.ToText()
	}
	return execute(r.user, data)
}

func renderAction(a action.Action, tagged bool) (string, error) {
	if tagged && !a.IsError() {
		if out, err := a.ToTagged(); err == nil {
			return strings.TrimSuffix(out, "\n"), nil
		}
	}
	return a.ToJSON()
}

func execute(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s template: %w", t.Name(), err)
	}
	return buf.String(), nil
}
