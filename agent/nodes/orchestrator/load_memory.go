package orchestratornode

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/Chative-Music-Store-Support/agent/contract"
	memoryx "github.com/tanpawarit/Chative-Music-Store-Support/agent/memory"
)

// LoadMemory reads the customer's profile, records the formatted summary
// and exposes it in the transcript.
func LoadMemory(ctx context.Context, in *GraphState, profiles *memoryx.ProfileStore) (*GraphState, error) {
	if in == nil || in.Conv == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if !in.Conv.Verified() {
		return in, nil
	}

	profile, err := profiles.Load(ctx, *in.Conv.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	summary := memoryx.Format(profile)
	in.Conv.LoadedMemory = summary
	in.Conv.Append(schema.SystemMessage("Loaded customer memory: " + summary))
	return in, nil
}
