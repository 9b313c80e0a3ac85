package state

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrStateNotFound = errors.New("conversation state not found")
	ErrNilState      = errors.New("conversation state is nil")
	ErrInvalidThread = errors.New("thread id is empty")
)

// Store checkpoints conversations by thread id so a suspended run can be
// resumed from a later call.
type Store interface {
	Load(ctx context.Context, threadID string) (*Conversation, error)
	Save(ctx context.Context, c *Conversation) error
	Delete(ctx context.Context, threadID string) error
}

func checkSave(c *Conversation) error {
	if c == nil {
		return ErrNilState
	}
	if strings.TrimSpace(c.ThreadID) == "" {
		return ErrInvalidThread
	}
	return c.Validate()
}
