package specialist

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	contractx "github.com/tanpawarit/Chative-Music-Store-Support/agent/contract"
)

// Options bound the sub-agent loops.
type Options struct {
	MaxSteps        int
	ToolConcurrency int
}

type specialistImpl struct {
	loop  *loop
	tools contractx.ToolGateway
}

// NewSubAgent runs decider against tools in a bounded loop.
func NewSubAgent(agentType contractx.AgentType, decider contractx.Decider, tools contractx.ToolGateway, opts Options) contractx.SubAgent {
	return &specialistImpl{
		loop:  newLoop(agentType, decider, opts),
		tools: tools,
	}
}

func newSpecialist(
	ctx context.Context,
	agentType contractx.AgentType,
	chatModel einomodel.ToolCallingChatModel,
	systemPrompt string,
	tools contractx.ToolGateway,
	defaults map[string]any,
	opts Options,
) (contractx.SubAgent, error) {
	decider, err := NewDecider(ctx, agentType, chatModel, systemPrompt, tools.Infos(), defaults)
	if err != nil {
		return nil, fmt.Errorf("build %s agent: %w", agentType, err)
	}
	return NewSubAgent(agentType, decider, tools, opts), nil
}

func (s *specialistImpl) Run(ctx context.Context, req contractx.SubAgentRequest) (contractx.SubAgentResult, error) {
	return s.loop.run(ctx, s.tools, req)
}
