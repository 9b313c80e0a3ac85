package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Music-Store-Support/agent/contract"
	memoryx "github.com/tanpawarit/Chative-Music-Store-Support/agent/memory"
	nodex "github.com/tanpawarit/Chative-Music-Store-Support/agent/nodes/orchestrator"
	statex "github.com/tanpawarit/Chative-Music-Store-Support/agent/state"
)

var (
	ErrInvalidMessage     = nodex.ErrInvalidMessage
	ErrInvalidThread      = nodex.ErrInvalidThread
	ErrThreadNotSuspended = errors.New("thread is not waiting for input")
)

// Input starts a new thread. CustomerID may be supplied by a trusted caller,
// in which case verification is skipped.
type Input struct {
	Messages   []*schema.Message
	CustomerID *int
}

// Result is what one run leaves behind. When Suspended is set, Prompt is the
// question to show the caller and the thread waits for Resume.
type Result struct {
	Conversation *statex.Conversation
	Suspended    bool
	Prompt       string
	Reply        string
	Exhausted    bool
}

type Service struct {
	store     statex.Store
	registry  contractx.Registry
	profiles  *memoryx.ProfileStore
	customers nodex.CustomerLookup

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	now func() time.Time
}

func New(
	store statex.Store,
	registry contractx.Registry,
	profiles *memoryx.ProfileStore,
	customers nodex.CustomerLookup,
) (*Service, error) {
	if store == nil {
		return nil, errors.New("state store is required")
	}
	if registry == nil {
		return nil, errors.New("agent registry is required")
	}
	if profiles == nil {
		return nil, errors.New("profile store is required")
	}
	if customers == nil {
		return nil, errors.New("customer lookup is required")
	}

	s := &Service{
		store:     store,
		registry:  registry,
		profiles:  profiles,
		customers: customers,
		now:       time.Now,
	}

	graphRunner, err := s.compileRunGraph(context.Background())
	if err != nil {
		return nil, err
	}
	s.graphRunner = graphRunner

	return s, nil
}

// Invoke starts a run on a fresh thread, replacing any earlier checkpoint
// under the same id.
func (s *Service) Invoke(ctx context.Context, threadID string, in Input) (Result, error) {
	threadID = strings.TrimSpace(threadID)
	if threadID == "" {
		return Result{}, ErrInvalidThread
	}
	conv := statex.NewConversation(threadID, in.Messages, in.CustomerID, s.now())
	if conv.LatestUserMessage() == nil {
		return Result{}, ErrInvalidMessage
	}
	return s.run(ctx, conv)
}

// Resume answers the prompt of a suspended thread and continues the run.
func (s *Service) Resume(ctx context.Context, threadID, text string) (Result, error) {
	conv, err := s.load(ctx, threadID)
	if err != nil {
		return Result{}, err
	}
	if err := conv.Resume(text, s.now()); err != nil {
		return Result{}, mapTurnError(err)
	}
	return s.run(ctx, conv)
}

// Chat is the conversational entry point: it starts the thread when none
// exists, resumes it when suspended and otherwise adds a new turn.
func (s *Service) Chat(ctx context.Context, threadID, text string) (Result, error) {
	conv, err := s.load(ctx, threadID)
	switch {
	case errors.Is(err, statex.ErrStateNotFound):
		if strings.TrimSpace(text) == "" {
			return Result{}, ErrInvalidMessage
		}
		return s.Invoke(ctx, threadID, Input{Messages: []*schema.Message{schema.UserMessage(strings.TrimSpace(text))}})
	case err != nil:
		return Result{}, err
	}

	if conv.Status == statex.RunSuspended {
		err = conv.Resume(text, s.now())
	} else {
		err = conv.Continue(text, s.now())
	}
	if err != nil {
		return Result{}, mapTurnError(err)
	}
	return s.run(ctx, conv)
}

func (s *Service) load(ctx context.Context, threadID string) (*statex.Conversation, error) {
	threadID = strings.TrimSpace(threadID)
	if threadID == "" {
		return nil, ErrInvalidThread
	}
	conv, err := s.store.Load(ctx, threadID)
	if err != nil {
		if errors.Is(err, statex.ErrStateNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: load thread=%s: %v", contractx.ErrStoreUnavailable, threadID, err)
	}
	return conv, nil
}

func (s *Service) run(ctx context.Context, conv *statex.Conversation) (Result, error) {
	out, err := s.graphRunner.Invoke(ctx, nodex.GraphInput{
		ThreadID:     conv.ThreadID,
		Conversation: conv,
	})
	if err != nil {
		log.Error().Err(err).Str("thread_id", conv.ThreadID).Msg("run failed")
		return Result{}, err
	}

	evt := log.Info().
		Str("thread_id", conv.ThreadID).
		Bool("suspended", out.Suspended).
		Bool("exhausted", out.Exhausted).
		Int("messages", len(out.Conversation.Messages))
	if out.Conversation.CustomerID != nil {
		evt = evt.Int("customer_id", *out.Conversation.CustomerID)
	}
	evt.Msg("run finished")

	return Result{
		Conversation: out.Conversation,
		Suspended:    out.Suspended,
		Prompt:       out.Prompt,
		Reply:        out.Reply,
		Exhausted:    out.Exhausted,
	}, nil
}

func mapTurnError(err error) error {
	switch {
	case errors.Is(err, statex.ErrNotSuspended):
		return fmt.Errorf("%w: %v", ErrThreadNotSuspended, err)
	case errors.Is(err, statex.ErrEmptyMessage):
		return fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	default:
		return err
	}
}
