package extract

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/Chative-Music-Store-Support/agent/contract"
)

// EinoExtractor runs a prompt -> model graph and parses the reply content
// as JSON into T.
type EinoExtractor[T any] struct {
	name      string
	runner    compose.Runnable[map[string]any, *schema.Message]
	parser    schema.MessageParser[T]
	normalize func(T) T
}

var _ contractx.Extractor[contractx.IdentifierOutput] = (*EinoExtractor[contractx.IdentifierOutput])(nil)

func NewEino[T any](
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	def Definition[T],
) (*EinoExtractor[T], error) {
	if chatModel == nil {
		return nil, fmt.Errorf("%w: chat model is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(def.SystemPrompt) == "" {
		return nil, fmt.Errorf("%w: extractor=%s", contractx.ErrPromptMissing, def.Name)
	}

	template := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(def.SystemPrompt),
		schema.UserMessage("{input}"),
	)

	graph := compose.NewGraph[map[string]any, *schema.Message]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add extractor prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add extractor model node: %w", err)
	}
	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add extractor edge start->prompt: %w", err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add extractor edge prompt->model: %w", err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("add extractor edge model->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("extract."+def.Name))
	if err != nil {
		return nil, fmt.Errorf("compile extractor graph: %w", err)
	}

	return &EinoExtractor[T]{
		name:   def.Name,
		runner: runner,
		parser: schema.NewMessageJSONParser[T](&schema.MessageJSONParseConfig{
			ParseFrom: schema.MessageParseFromContent,
		}),
		normalize: def.Normalize,
	}, nil
}

func (e *EinoExtractor[T]) Extract(ctx context.Context, input string) (T, error) {
	var zero T

	msg, err := e.runner.Invoke(ctx, map[string]any{"input": input})
	if err != nil {
		return zero, fmt.Errorf("%w: extractor=%s: %v", contractx.ErrModelInvoke, e.name, err)
	}
	if msg == nil {
		return zero, fmt.Errorf("%w: extractor=%s: empty response", contractx.ErrSchemaViolation, e.name)
	}

	cleaned := &schema.Message{Role: msg.Role, Content: stripCodeFence(msg.Content)}
	out, err := e.parser.Parse(ctx, cleaned)
	if err != nil {
		return zero, fmt.Errorf("%w: extractor=%s: %v", contractx.ErrSchemaViolation, e.name, err)
	}
	if e.normalize != nil {
		out = e.normalize(out)
	}
	return out, nil
}

// stripCodeFence removes a surrounding ```json fence some models add.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
