package contract

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// Decider is the language-model decision step. The system prompt and the
// tool catalog are bound when the Decider is built; vars fill the prompt
// template and history is the running transcript.
type Decider interface {
	Decide(ctx context.Context, vars map[string]any, history []*schema.Message) (*schema.Message, error)
}

// Extractor is a decision step constrained to return a value of type T.
type Extractor[T any] interface {
	Extract(ctx context.Context, input string) (T, error)
}

// ToolGateway executes one tool call within a customer scope.
type ToolGateway interface {
	Infos() []*schema.ToolInfo
	Execute(ctx context.Context, scope Scope, call schema.ToolCall) (ToolResult, error)
}

// SubAgent runs a bounded decide/execute loop over its own tools.
type SubAgent interface {
	Run(ctx context.Context, req SubAgentRequest) (SubAgentResult, error)
}

// Registry exposes the model-backed collaborators of the top-level graph.
type Registry interface {
	Supervisor() SubAgent
	Verifier() Decider
	IdentifierExtractor() Extractor[IdentifierOutput]
	ProfileExtractor() Extractor[ProfileOutput]
}
