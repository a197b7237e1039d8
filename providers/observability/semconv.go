package observability

// Semantic conventions for observability attributes, spans, events and
// metrics. Adapters translate these names to their backend's rules.

// --- Task attributes ---

const (
	// AttrTaskID is the id of the controller run
	AttrTaskID = "task.id"

	// AttrTaskState is the controller state after a transition
	AttrTaskState = "task.state"

	// AttrTaskSubtasks is the number of subtasks created so far
	AttrTaskSubtasks = "task.subtasks"

	// AttrTaskMaxSubtasks is the configured subtask ceiling
	AttrTaskMaxSubtasks = "task.max_subtasks"

	// AttrTaskGrammar is the calling grammar in use ("bracket" or "tagged")
	AttrTaskGrammar = "task.grammar"

	// AttrTaskInput is the user input of a run
	AttrTaskInput = "task.input"

	// AttrTaskOutput is the text of the final artifact
	AttrTaskOutput = "task.output"
)

// --- Subtask attributes ---

const (
	AttrSubtaskID       = "subtask.id"
	AttrSubtaskThought  = "subtask.thought"
	AttrSubtaskInput    = "subtask.input"
	AttrSubtaskOutput   = "subtask.output"
	AttrSubtaskParents  = "subtask.parents"
	AttrSubtaskChildren = "subtask.children"
)

// --- Action attributes ---

const (
	// AttrActionName is the tool named by the parsed action
	AttrActionName = "action.name"

	// AttrActionPath is the activity path named by the parsed action
	AttrActionPath = "action.path"

	// AttrActionDiagnostic is the message of an error descriptor
	AttrActionDiagnostic = "action.diagnostic"
)

// --- Tool attributes ---

const (
	AttrToolName     = "tool.name"
	AttrToolPath     = "tool.path"
	AttrToolInput    = "tool.input"
	AttrToolOutput   = "tool.output"
	AttrToolDuration = "tool.duration"
	AttrToolError    = "tool.error"

	// AttrToolOutcome is "ok" or "error" depending on the artifact returned
	AttrToolOutcome = "tool.outcome"
)

// --- LLM attributes ---

const (
	AttrLLMModel                = "llm.model"
	AttrLLMFinishReason         = "llm.finish_reason"
	AttrRequestMessagesCount    = "request.messages_count"
	AttrResponseContent         = "response.content"
	AttrMemoryTotalMessages     = "memory.total_messages"
	AttrMemoryMessageRole       = "memory.message.role"
	AttrMemoryMessageLength     = "memory.message.length"
	AttrEventType               = "event.type"
	AttrHTTPURL                 = "http.url"
	AttrHTTPStatusCode          = "http.status_code"
	AttrHTTPResponseContentType = "http.response.content_type"
)

// --- Generic attributes ---

const (
	AttrError     = "error"
	AttrErrorType = "error.type"
	AttrDuration  = "duration"
	AttrStatus    = "status"
)

// --- Span names ---

const (
	SpanTaskExecute   = "task.execute"
	SpanLLMRequest    = "llm.request"
	SpanSubtaskRun    = "subtask.run"
	SpanToolExecution = "tool.execution"
)

// --- Event names ---

const (
	EventToolExecutionStart = "tool.execution.start"
	EventToolExecutionEnd   = "tool.execution.end"
	EventLLMRequestStart    = "llm.request.start"
	EventLLMRequestEnd      = "llm.request.end"
	EventMemoryAppend       = "memory.append"
	EventMemoryClear        = "memory.clear"
)

// --- Metric names ---

const (
	MetricTaskRunCount          = "toolloop.task.run.count"
	MetricTaskRunDuration       = "toolloop.task.run.duration"
	MetricTaskSubtasks          = "toolloop.task.subtasks"
	MetricLLMRequestCount       = "toolloop.llm.request.count"
	MetricLLMRequestDuration    = "toolloop.llm.request.duration"
	MetricToolExecutionCount    = "toolloop.tool.execution.count"
	MetricToolExecutionDuration = "toolloop.tool.execution.duration"
)
