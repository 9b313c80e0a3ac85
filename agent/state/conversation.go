package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
)

// DefaultRemainingSteps bounds the tool-calling rounds of a single loop.
const DefaultRemainingSteps = 25

type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunSuspended RunStatus = "suspended"
	RunCompleted RunStatus = "completed"
)

var (
	ErrCustomerIDConflict = errors.New("customer id already set to a different value")
	ErrNotSuspended       = errors.New("conversation is not suspended")
	ErrEmptyMessage       = errors.New("message is empty")
)

// Conversation is the record threaded through every node of one run.
// Messages is append-only; CustomerID is written once by verification.
type Conversation struct {
	ThreadID       string            `json:"thread_id"`
	Messages       []*schema.Message `json:"messages"`
	CustomerID     *int              `json:"customer_id,omitempty"`
	LoadedMemory   string            `json:"loaded_memory,omitempty"`
	RemainingSteps int               `json:"remaining_steps"`

	Status RunStatus `json:"status"`
	Prompt string    `json:"prompt,omitempty"` // set while suspended

	UpdatedAt time.Time `json:"updated_at"`
}

func NewConversation(threadID string, messages []*schema.Message, customerID *int, now time.Time) *Conversation {
	c := &Conversation{
		ThreadID:       threadID,
		Messages:       make([]*schema.Message, 0, len(messages)+8),
		RemainingSteps: DefaultRemainingSteps,
		Status:         RunRunning,
		UpdatedAt:      now.UTC(),
	}
	for _, m := range messages {
		if m != nil {
			c.Messages = append(c.Messages, m)
		}
	}
	if customerID != nil {
		id := *customerID
		c.CustomerID = &id
	}
	return c
}

func (c *Conversation) Touch(now time.Time) {
	c.UpdatedAt = now.UTC()
}

// Append adds messages to the end of the transcript. Nil entries are skipped.
func (c *Conversation) Append(msgs ...*schema.Message) {
	for _, m := range msgs {
		if m != nil {
			c.Messages = append(c.Messages, m)
		}
	}
}

func (c *Conversation) Verified() bool {
	return c != nil && c.CustomerID != nil
}

// SetCustomerID records the verified customer. Setting the same id twice is
// a no-op; a different id is rejected because the id is never replaced.
func (c *Conversation) SetCustomerID(id int) error {
	if c.CustomerID != nil {
		if *c.CustomerID == id {
			return nil
		}
		return fmt.Errorf("%w: have=%d got=%d", ErrCustomerIDConflict, *c.CustomerID, id)
	}
	c.CustomerID = &id
	return nil
}

// LatestUserMessage returns the most recent user message, or nil.
func (c *Conversation) LatestUserMessage() *schema.Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if m := c.Messages[i]; m != nil && m.Role == schema.User {
			return m
		}
	}
	return nil
}

// LastAssistantText returns the content of the most recent assistant
// message that carries text.
func (c *Conversation) LastAssistantText() string {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		m := c.Messages[i]
		if m == nil || m.Role != schema.Assistant {
			continue
		}
		if text := strings.TrimSpace(m.Content); text != "" {
			return text
		}
	}
	return ""
}

func (c *Conversation) Suspend(prompt string, now time.Time) {
	c.Status = RunSuspended
	c.Prompt = strings.TrimSpace(prompt)
	c.Touch(now)
}

func (c *Conversation) Complete(now time.Time) {
	c.Status = RunCompleted
	c.Prompt = ""
	c.Touch(now)
}

// Resume appends the caller's reply to a suspended conversation and puts
// it back into the running state.
func (c *Conversation) Resume(text string, now time.Time) error {
	if c.Status != RunSuspended {
		return fmt.Errorf("%w: status=%s", ErrNotSuspended, c.Status)
	}
	return c.Continue(text, now)
}

// Continue starts a new turn on an existing thread.
func (c *Conversation) Continue(text string, now time.Time) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}
	c.Append(schema.UserMessage(text))
	c.Status = RunRunning
	c.Prompt = ""
	c.RemainingSteps = DefaultRemainingSteps
	c.Touch(now)
	return nil
}

func (c *Conversation) Validate() error {
	if strings.TrimSpace(c.ThreadID) == "" {
		return ErrInvalidThread
	}
	switch c.Status {
	case RunRunning, RunSuspended, RunCompleted:
	default:
		return fmt.Errorf("invalid run status %q", c.Status)
	}
	if c.Status == RunSuspended && c.Prompt == "" {
		return errors.New("suspended conversation must carry a prompt")
	}
	if c.RemainingSteps < 0 {
		return errors.New("remaining steps must be >= 0")
	}
	return nil
}

// Clone returns a deep copy through the persisted representation.
func (c *Conversation) Clone() (*Conversation, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal conversation: %w", err)
	}
	var out Conversation
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unmarshal conversation: %w", err)
	}
	return &out, nil
}
