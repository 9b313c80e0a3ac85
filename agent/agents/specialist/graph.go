package specialist

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/Chative-Music-Store-Support/agent/contract"
)

const historyKey = "history"

// compileDeciderGraph wires system prompt + running history -> chat model.
func compileDeciderGraph(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	systemPrompt string,
	graphName string,
) (compose.Runnable[map[string]any, *schema.Message], error) {
	template := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(systemPrompt),
		schema.MessagesPlaceholder(historyKey, false),
	)

	graph := compose.NewGraph[map[string]any, *schema.Message]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add decider prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add decider model node: %w", err)
	}
	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add decider edge start->prompt: %w", err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add decider edge prompt->model: %w", err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("add decider edge model->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName(graphName))
	if err != nil {
		return nil, fmt.Errorf("compile decider graph: %w", err)
	}
	return runner, nil
}

type graphDecider struct {
	agentType contractx.AgentType
	runner    compose.Runnable[map[string]any, *schema.Message]
	defaults  map[string]any
}

// NewDecider binds tools to chatModel and compiles the decision graph for
// one agent. defaults fill prompt variables the caller leaves unset.
func NewDecider(
	ctx context.Context,
	agentType contractx.AgentType,
	chatModel einomodel.ToolCallingChatModel,
	systemPrompt string,
	tools []*schema.ToolInfo,
	defaults map[string]any,
) (contractx.Decider, error) {
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, fmt.Errorf("%w: agent=%s", contractx.ErrPromptMissing, agentType)
	}
	if chatModel == nil {
		return nil, fmt.Errorf("%w: chat model is required for agent=%s", contractx.ErrValidation, agentType)
	}

	var m einomodel.BaseChatModel = chatModel
	if len(tools) > 0 {
		bound, err := chatModel.WithTools(tools)
		if err != nil {
			return nil, fmt.Errorf("%w: bind tools for agent=%s: %v", contractx.ErrModelInvoke, agentType, err)
		}
		m = bound
	}

	runner, err := compileDeciderGraph(ctx, m, systemPrompt, string(agentType)+".decider")
	if err != nil {
		return nil, fmt.Errorf("%w: agent=%s: %v", contractx.ErrModelInvoke, agentType, err)
	}
	return &graphDecider{agentType: agentType, runner: runner, defaults: defaults}, nil
}

func (d *graphDecider) Decide(ctx context.Context, vars map[string]any, history []*schema.Message) (*schema.Message, error) {
	in := make(map[string]any, len(d.defaults)+len(vars)+1)
	for k, v := range d.defaults {
		in[k] = v
	}
	for k, v := range vars {
		in[k] = v
	}
	in[historyKey] = history

	msg, err := d.runner.Invoke(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("%w: agent=%s: %v", contractx.ErrModelInvoke, d.agentType, err)
	}
	if msg == nil {
		return nil, fmt.Errorf("%w: agent=%s: empty decision", contractx.ErrSchemaViolation, d.agentType)
	}
	return msg, nil
}
