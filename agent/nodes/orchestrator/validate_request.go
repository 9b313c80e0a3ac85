package orchestratornode

import (
	"errors"
	"strings"
	"time"

	statex "github.com/tanpawarit/Chative-Music-Store-Support/agent/state"
)

var (
	ErrInvalidMessage = errors.New("conversation has no user message")
	ErrInvalidThread  = statex.ErrInvalidThread
)

type GraphInput struct {
	ThreadID     string
	Conversation *statex.Conversation
}

type GraphOutput struct {
	Conversation *statex.Conversation
	Suspended    bool
	Prompt       string
	Reply        string
	Exhausted    bool
}

// GraphState is threaded through every node of one run.
type GraphState struct {
	ThreadID string
	Now      time.Time

	Conv *statex.Conversation

	Suspended bool
	Prompt    string
	Exhausted bool
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	threadID := strings.TrimSpace(in.ThreadID)
	if threadID == "" {
		return nil, ErrInvalidThread
	}
	if in.Conversation == nil || in.Conversation.LatestUserMessage() == nil {
		return nil, ErrInvalidMessage
	}
	if in.Conversation.ThreadID == "" {
		in.Conversation.ThreadID = threadID
	}
	if in.Conversation.ThreadID != threadID {
		return nil, errors.New("conversation belongs to a different thread")
	}

	return &GraphState{
		ThreadID: threadID,
		Now:      nowFn().UTC(),
		Conv:     in.Conversation,
	}, nil
}
