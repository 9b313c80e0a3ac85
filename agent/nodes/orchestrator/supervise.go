package orchestratornode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Music-Store-Support/agent/contract"
)

// Supervise runs the supervisor loop over the whole transcript and appends
// everything it produced.
func Supervise(ctx context.Context, in *GraphState, supervisor contractx.SubAgent) (*GraphState, error) {
	if in == nil || in.Conv == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if !in.Conv.Verified() {
		return nil, fmt.Errorf("%w: supervisor reached without a customer id", contractx.ErrCustomerNotVerified)
	}

	res, err := supervisor.Run(ctx, contractx.SubAgentRequest{
		Messages: in.Conv.Messages,
		Vars:     map[string]any{contractx.MemoryVar: in.Conv.LoadedMemory},
		Scope:    contractx.ScopeFor(in.Conv.CustomerID),
		Budget:   in.Conv.RemainingSteps,
	})
	if err != nil {
		return nil, fmt.Errorf("supervisor: %w", err)
	}

	in.Conv.Append(res.Messages...)
	in.Conv.RemainingSteps = res.Remaining
	in.Exhausted = res.Exhausted

	log.Info().
		Str("thread_id", in.ThreadID).
		Int("customer_id", *in.Conv.CustomerID).
		Int("appended", len(res.Messages)).
		Int("remaining_steps", res.Remaining).
		Bool("exhausted", res.Exhausted).
		Msg("supervisor finished")
	return in, nil
}
