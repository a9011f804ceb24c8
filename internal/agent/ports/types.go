// Package ports defines the interfaces and domain types the assistant run
// pipeline depends on. Implementations live in adapters (Twilio, S3,
// DynamoDB) or are supplied by the caller (task executors).
package ports

// TaskSpec describes one stage of an assistant's pipeline, including the
// resource configuration (transcriber, LLM, synthesizer) that stage uses.
type TaskSpec struct {
	TaskType    string      `json:"task_type"`
	ToolsConfig ToolsConfig `json:"tools_config"`
}

// ToolsConfig names the backing resources a stage is wired to.
type ToolsConfig struct {
	Transcriber ResourceConfig `json:"transcriber"`
	Synthesizer ResourceConfig `json:"synthesizer"`
	LLMAgent    ResourceConfig `json:"llm_agent"`
}

// ResourceConfig identifies a single backing resource.
type ResourceConfig struct {
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
	Language string `json:"language,omitempty"`
}

// AgentConfig is the caller-owned, read-only description of an assistant:
// its display name and the ordered list of tasks a run executes.
type AgentConfig struct {
	AssistantName string     `json:"assistant_name"`
	Tasks         []TaskSpec `json:"tasks"`
}

// StageOutput is the opaque mapping a stage produces. It becomes the next
// stage's input; the pipeline only ever adds the run_id annotation.
type StageOutput map[string]any

// RunContext carries the identity shared by every stage of one run.
type RunContext struct {
	RunID       string
	UserID      string
	AssistantID string
	ContextData map[string]any
}

// Message is one turn of a conversation transcript.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation roles appearing in transcripts.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
