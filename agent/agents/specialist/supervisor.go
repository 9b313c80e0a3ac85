package specialist

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Music-Store-Support/agent/contract"
	toolx "github.com/tanpawarit/Chative-Music-Store-Support/agent/tool"
)

const (
	DelegateMusic   = "music_catalog_subagent"
	DelegateInvoice = "invoice_subagent"

	MemoryVar = contractx.MemoryVar
)

// Supervisor is a loop whose tools are the two delegates. Each delegate call
// runs a fresh sub-agent loop seeded only with the query and folds back its
// final answer.
type Supervisor struct {
	loop    *loop
	music   contractx.SubAgent
	invoice contractx.SubAgent
}

func NewSupervisor(decider contractx.Decider, music, invoice contractx.SubAgent, opts Options) *Supervisor {
	return &Supervisor{
		loop:    newLoop(contractx.AgentTypeSupervisor, decider, opts),
		music:   music,
		invoice: invoice,
	}
}

// DelegateInfos is the tool catalog the supervisor model is bound to.
func DelegateInfos() []*schema.ToolInfo {
	infos := make([]*schema.ToolInfo, 0, 2)
	for _, spec := range delegateSpecs(nil, nil, "") {
		infos = append(infos, spec.Info())
	}
	return infos
}

func (s *Supervisor) Run(ctx context.Context, req contractx.SubAgentRequest) (contractx.SubAgentResult, error) {
	memory, _ := req.Vars[MemoryVar].(string)
	delegates, err := toolx.NewCatalog(delegateSpecs(s.music, s.invoice, memory)...)
	if err != nil {
		return contractx.SubAgentResult{}, err
	}
	return s.loop.run(ctx, delegates, req)
}

func delegateSpecs(music, invoice contractx.SubAgent, memory string) []toolx.Spec {
	queryParam := []toolx.Param{
		{Name: "query", Type: toolx.ParamString, Desc: "Self-contained request for the subagent", Required: true},
	}
	return []toolx.Spec{
		{
			Name:   DelegateMusic,
			Desc:   "Music catalog subagent: answers questions about artists, albums, tracks and genres, and gives recommendations.",
			Params: queryParam,
			Run: func(ctx context.Context, args toolx.Args, _ contractx.Scope) (any, error) {
				// The catalog is public; the music agent never sees the customer scope.
				return delegate(ctx, DelegateMusic, music, args.String("query"), map[string]any{MemoryVar: memory}, contractx.Scope{})
			},
		},
		{
			Name:   DelegateInvoice,
			Desc:   "Invoice subagent: answers questions about the verified customer's invoices, purchases and support employees.",
			Params: queryParam,
			Run: func(ctx context.Context, args toolx.Args, scope contractx.Scope) (any, error) {
				return delegate(ctx, DelegateInvoice, invoice, args.String("query"), nil, scope)
			},
		},
	}
}

func delegate(ctx context.Context, name string, agent contractx.SubAgent, query string, vars map[string]any, scope contractx.Scope) (any, error) {
	if agent == nil {
		return nil, fmt.Errorf("delegate %s is not configured", name)
	}
	res, err := agent.Run(ctx, contractx.SubAgentRequest{
		Messages: []*schema.Message{schema.UserMessage(query)},
		Vars:     vars,
		Scope:    scope,
	})
	if err != nil {
		return nil, err
	}
	log.Debug().
		Str("delegate", name).
		Bool("exhausted", res.Exhausted).
		Int("remaining_steps", res.Remaining).
		Msg("delegate finished")
	return res.Answer, nil
}
