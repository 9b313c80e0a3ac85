package orchestratornode

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/Chative-Music-Store-Support/agent/contract"
	memoryx "github.com/tanpawarit/Chative-Music-Store-Support/agent/memory"
	statex "github.com/tanpawarit/Chative-Music-Store-Support/agent/state"
)

type SaveMemoryDeps struct {
	Extractor contractx.Extractor[contractx.ProfileOutput]
	Profiles  *memoryx.ProfileStore
}

// SaveMemory re-derives the profile from the transcript, merges it over the
// stored one and persists the result, even when nothing changed.
func SaveMemory(ctx context.Context, in *GraphState, deps SaveMemoryDeps) (*GraphState, error) {
	if in == nil || in.Conv == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if !in.Conv.Verified() {
		return in, nil
	}
	customerID := *in.Conv.CustomerID

	extracted, err := deps.Extractor.Extract(ctx, profileInput(in.Conv))
	if err != nil {
		return nil, fmt.Errorf("extract profile: %w", err)
	}

	prev, err := deps.Profiles.Load(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	base := memoryx.Profile{}
	if prev != nil {
		base = *prev
	}

	merged := memoryx.Merge(base, memoryx.Profile{
		CustomerID:       extracted.CustomerID,
		MusicPreferences: extracted.MusicPreferences,
	})
	// The verified id is authoritative over whatever the model echoed back.
	merged.CustomerID = strconv.Itoa(customerID)

	if err := deps.Profiles.Save(ctx, customerID, merged); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return in, nil
}

// profileInput renders what the profile extractor sees: the id, the memory
// on file and the user/assistant turns of the transcript.
func profileInput(conv *statex.Conversation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Customer ID: %d\n", *conv.CustomerID)
	fmt.Fprintf(&b, "Memory on file: %s\n\nConversation:\n", conv.LoadedMemory)
	for _, m := range conv.Messages {
		if m == nil {
			continue
		}
		text := strings.TrimSpace(m.Content)
		if text == "" {
			continue
		}
		switch m.Role {
		case schema.User, schema.Assistant:
			fmt.Fprintf(&b, "%s: %s\n", m.Role, text)
		}
	}
	return b.String()
}
