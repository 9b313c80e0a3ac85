package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	contractx "github.com/tanpawarit/Chative-Music-Store-Support/agent/contract"
)

// OpenAIExtractor asks the chat completions API for a strict JSON-schema
// response and decodes it into T.
type OpenAIExtractor[T any] struct {
	client      *openai.Client
	model       string
	temperature float64
	def         Definition[T]
}

func NewOpenAI[T any](client *openai.Client, model string, temperature float32, def Definition[T]) (*OpenAIExtractor[T], error) {
	if client == nil {
		return nil, fmt.Errorf("%w: openai client is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("%w: model is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(def.SystemPrompt) == "" {
		return nil, fmt.Errorf("%w: extractor=%s", contractx.ErrPromptMissing, def.Name)
	}
	if def.Schema == nil {
		return nil, fmt.Errorf("%w: extractor=%s needs a json schema", contractx.ErrValidation, def.Name)
	}
	return &OpenAIExtractor[T]{
		client:      client,
		model:       strings.TrimSpace(model),
		temperature: float64(temperature),
		def:         def,
	}, nil
}

func (e *OpenAIExtractor[T]) Extract(ctx context.Context, input string) (T, error) {
	var zero T

	resp, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(e.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(e.def.SystemPrompt),
			openai.UserMessage(input),
		},
		Temperature: openai.Float(e.temperature),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        e.def.Name,
					Description: openai.String(e.def.Description),
					Strict:      openai.Bool(true),
					Schema:      e.def.Schema,
				},
			},
		},
	})
	if err != nil {
		return zero, fmt.Errorf("%w: extractor=%s: %v", contractx.ErrModelInvoke, e.def.Name, err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return zero, fmt.Errorf("%w: extractor=%s: no choices", contractx.ErrSchemaViolation, e.def.Name)
	}

	var out T
	content := stripCodeFence(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return zero, fmt.Errorf("%w: extractor=%s: %v", contractx.ErrSchemaViolation, e.def.Name, err)
	}
	if e.def.Normalize != nil {
		out = e.def.Normalize(out)
	}
	return out, nil
}
