package orchestratornode

import (
	"fmt"

	contractx "github.com/tanpawarit/Chative-Music-Store-Support/agent/contract"
)

func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil || in.Conv == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	out := GraphOutput{
		Conversation: in.Conv,
		Suspended:    in.Suspended,
		Prompt:       in.Prompt,
		Exhausted:    in.Exhausted,
	}
	if !in.Suspended {
		out.Reply = in.Conv.LastAssistantText()
		if out.Reply == "" {
			return GraphOutput{}, fmt.Errorf("%w: run finished without an assistant reply", contractx.ErrValidation)
		}
	}
	return out, nil
}
