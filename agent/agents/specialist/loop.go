package specialist

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	contractx "github.com/tanpawarit/Chative-Music-Store-Support/agent/contract"
	statex "github.com/tanpawarit/Chative-Music-Store-Support/agent/state"
	toolx "github.com/tanpawarit/Chative-Music-Store-Support/agent/tool"
)

const (
	branchExecuteTools = "execute_tools"
	branchDone         = "done"

	ExhaustedReply = "Sorry, need more steps to process this request."

	defaultToolConcurrency = 4
)

// loop is the Deciding -> Executing -> ... -> Done state machine shared by
// every sub-agent and the supervisor.
type loop struct {
	agentType   contractx.AgentType
	decider     contractx.Decider
	maxSteps    int
	concurrency int
}

func newLoop(agentType contractx.AgentType, decider contractx.Decider, opts Options) *loop {
	maxSteps := opts.MaxSteps
	if maxSteps <= 0 {
		maxSteps = statex.DefaultRemainingSteps
	}
	concurrency := opts.ToolConcurrency
	if concurrency <= 0 {
		concurrency = defaultToolConcurrency
	}
	return &loop{agentType: agentType, decider: decider, maxSteps: maxSteps, concurrency: concurrency}
}

func nextBranch(msg *schema.Message) string {
	if len(msg.ToolCalls) > 0 {
		return branchExecuteTools
	}
	return branchDone
}

func (l *loop) run(ctx context.Context, gw contractx.ToolGateway, req contractx.SubAgentRequest) (contractx.SubAgentResult, error) {
	budget := req.Budget
	if budget <= 0 {
		budget = l.maxSteps
	}

	history := make([]*schema.Message, 0, len(req.Messages)+8)
	history = append(history, req.Messages...)
	var appended []*schema.Message
	partial := ""

	for step := 0; ; step++ {
		msg, err := l.decider.Decide(ctx, req.Vars, history)
		if err != nil {
			return contractx.SubAgentResult{}, err
		}
		if msg == nil {
			return contractx.SubAgentResult{}, fmt.Errorf("%w: agent=%s returned no message", contractx.ErrSchemaViolation, l.agentType)
		}
		msg = withCallIDs(msg)

		switch nextBranch(msg) {
		case branchDone:
			answer := strings.TrimSpace(msg.Content)
			if answer == "" {
				return contractx.SubAgentResult{}, fmt.Errorf("%w: agent=%s returned neither tool calls nor text", contractx.ErrSchemaViolation, l.agentType)
			}
			appended = append(appended, msg)
			return contractx.SubAgentResult{Messages: appended, Answer: answer, Remaining: budget}, nil

		case branchExecuteTools:
			if budget <= 0 {
				answer := partial
				if answer == "" {
					answer = ExhaustedReply
				}
				log.Warn().
					Str("agent", string(l.agentType)).
					Int("step", step).
					Int("pending_calls", len(msg.ToolCalls)).
					Msg("tool budget exhausted")
				appended = append(appended, schema.AssistantMessage(answer, nil))
				return contractx.SubAgentResult{Messages: appended, Answer: answer, Exhausted: true}, nil
			}
			budget--

			if text := strings.TrimSpace(msg.Content); text != "" {
				partial = text
			}
			results, err := l.executeTools(ctx, gw, req.Scope, msg.ToolCalls)
			if err != nil {
				return contractx.SubAgentResult{}, err
			}
			history = append(history, msg)
			history = append(history, results...)
			appended = append(appended, msg)
			appended = append(appended, results...)
		}
	}
}

// executeTools runs every call concurrently and returns one tool message per
// call, in request order.
func (l *loop) executeTools(ctx context.Context, gw contractx.ToolGateway, scope contractx.Scope, calls []schema.ToolCall) ([]*schema.Message, error) {
	out := make([]*schema.Message, len(calls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, call := range calls {
		i, call := i, call
		g.Go(func() error {
			res, err := gw.Execute(gctx, scope, call)
			if err != nil {
				return fmt.Errorf("agent=%s tool=%s: %w", l.agentType, call.Function.Name, err)
			}
			if res.Failed() {
				log.Debug().
					Str("agent", string(l.agentType)).
					Str("tool", res.Tool).
					Str("error", res.Error).
					Msg("tool returned error result")
			}
			out[i] = schema.ToolMessage(toolx.Content(res), call.ID)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// withCallIDs returns msg with a generated id on every tool call that lacks
// one, so each tool result can be matched to its request.
func withCallIDs(msg *schema.Message) *schema.Message {
	missing := false
	for _, c := range msg.ToolCalls {
		if strings.TrimSpace(c.ID) == "" {
			missing = true
			break
		}
	}
	if !missing {
		return msg
	}
	cp := *msg
	cp.ToolCalls = make([]schema.ToolCall, len(msg.ToolCalls))
	copy(cp.ToolCalls, msg.ToolCalls)
	for i := range cp.ToolCalls {
		if strings.TrimSpace(cp.ToolCalls[i].ID) == "" {
			cp.ToolCalls[i].ID = "call_" + uuid.NewString()
		}
	}
	return &cp
}
