package orchestratornode

import (
	"fmt"

	contractx "github.com/tanpawarit/Chative-Music-Store-Support/agent/contract"
)

// HumanInput marks the run as suspended. The prompt shown to the caller is
// the last assistant message, normally the request for identity.
func HumanInput(in *GraphState) (*GraphState, error) {
	if in == nil || in.Conv == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	prompt := in.Conv.LastAssistantText()
	if prompt == "" {
		prompt = askIdentityFallback
	}
	in.Suspended = true
	in.Prompt = prompt
	in.Conv.Suspend(prompt, in.Now)
	return in, nil
}
