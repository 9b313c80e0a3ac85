package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Music-Store-Support/agent/contract"
	statex "github.com/tanpawarit/Chative-Music-Store-Support/agent/state"
)

// CheckpointState persists the conversation under its thread id so a
// suspended run can be resumed and a finished one continued.
func CheckpointState(ctx context.Context, in *GraphState, store statex.Store) (*GraphState, error) {
	if in == nil || in.Conv == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if !in.Suspended {
		in.Conv.Complete(in.Now)
	}
	if err := in.Conv.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrValidation, err)
	}
	if err := store.Save(ctx, in.Conv); err != nil {
		return nil, fmt.Errorf("%w: checkpoint thread=%s: %v", contractx.ErrStoreUnavailable, in.ThreadID, err)
	}
	return in, nil
}
