package state

import (
	"errors"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
)

func TestNewConversationDefaults(t *testing.T) {
	t.Parallel()

	id := 3
	conv := NewConversation("t", []*schema.Message{nil, schema.UserMessage("hi")}, &id, time.Now())
	id = 99

	if conv.RemainingSteps != DefaultRemainingSteps {
		t.Fatalf("RemainingSteps = %d", conv.RemainingSteps)
	}
	if len(conv.Messages) != 1 {
		t.Fatalf("nil messages should be dropped, got %d", len(conv.Messages))
	}
	if conv.CustomerID == nil || *conv.CustomerID != 3 {
		t.Fatalf("CustomerID must be copied, got %v", conv.CustomerID)
	}
	if conv.Status != RunRunning {
		t.Fatalf("Status = %s", conv.Status)
	}
}

func TestSetCustomerIDIsWriteOnce(t *testing.T) {
	t.Parallel()

	conv := NewConversation("t", nil, nil, time.Now())
	if err := conv.SetCustomerID(5); err != nil {
		t.Fatalf("SetCustomerID() error = %v", err)
	}
	if err := conv.SetCustomerID(5); err != nil {
		t.Fatalf("same id should be accepted, got %v", err)
	}
	if err := conv.SetCustomerID(6); !errors.Is(err, ErrCustomerIDConflict) {
		t.Fatalf("SetCustomerID(6) error = %v, want ErrCustomerIDConflict", err)
	}
	if *conv.CustomerID != 5 {
		t.Fatalf("CustomerID = %d, want 5", *conv.CustomerID)
	}
}

func TestLatestUserMessageAndAssistantText(t *testing.T) {
	t.Parallel()

	conv := NewConversation("t", []*schema.Message{
		schema.UserMessage("first"),
		schema.AssistantMessage("answer", nil),
		schema.UserMessage("second"),
		schema.AssistantMessage("", []schema.ToolCall{{ID: "c1"}}),
	}, nil, time.Now())

	if got := conv.LatestUserMessage(); got == nil || got.Content != "second" {
		t.Fatalf("LatestUserMessage() = %+v", got)
	}
	if got := conv.LastAssistantText(); got != "answer" {
		t.Fatalf("LastAssistantText() = %q", got)
	}

	empty := NewConversation("t", nil, nil, time.Now())
	if empty.LatestUserMessage() != nil {
		t.Fatal("expected nil for empty transcript")
	}
}

func TestResumeRequiresSuspension(t *testing.T) {
	t.Parallel()

	conv := NewConversation("t", nil, nil, time.Now())
	if err := conv.Resume("7", time.Now()); !errors.Is(err, ErrNotSuspended) {
		t.Fatalf("Resume() error = %v, want ErrNotSuspended", err)
	}

	conv.Suspend("who are you?", time.Now())
	conv.RemainingSteps = 0
	if err := conv.Resume("  ", time.Now()); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("Resume(blank) error = %v, want ErrEmptyMessage", err)
	}
	if err := conv.Resume("my id is 7", time.Now()); err != nil {
		t.Fatalf("Resume() error = %v", err)
	}
	if conv.Status != RunRunning || conv.Prompt != "" {
		t.Fatalf("status=%s prompt=%q", conv.Status, conv.Prompt)
	}
	if conv.RemainingSteps != DefaultRemainingSteps {
		t.Fatalf("RemainingSteps = %d, want reset", conv.RemainingSteps)
	}
	if last := conv.LatestUserMessage(); last.Content != "my id is 7" {
		t.Fatalf("latest user message = %q", last.Content)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	conv := NewConversation("t", nil, nil, time.Now())
	if err := conv.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	conv.Status = RunSuspended
	if err := conv.Validate(); err == nil {
		t.Fatal("suspended without prompt should be invalid")
	}
	conv.Status = "weird"
	if err := conv.Validate(); err == nil {
		t.Fatal("unknown status should be invalid")
	}
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()

	id := 1
	conv := NewConversation("t", []*schema.Message{schema.UserMessage("a")}, &id, time.Now())
	cp, err := conv.Clone()
	if err != nil {
		t.Fatalf("Clone() error = %v", err)
	}
	cp.Append(schema.UserMessage("b"))
	*cp.CustomerID = 2
	if len(conv.Messages) != 1 || *conv.CustomerID != 1 {
		t.Fatal("clone shares memory with original")
	}
}
