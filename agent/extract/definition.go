package extract

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/openai/openai-go"
	contractx "github.com/tanpawarit/Chative-Music-Store-Support/agent/contract"
)

type Backend string

const (
	BackendEino   Backend = "eino"
	BackendOpenAI Backend = "openai"
)

// Definition describes one extraction target: the instruction, the JSON
// schema used by strict backends and an optional clean-up of the parsed value.
type Definition[T any] struct {
	Name         string
	Description  string
	SystemPrompt string
	Schema       map[string]any
	Normalize    func(T) T
}

// Deps carries what either backend may need. ChatModel serves the eino
// backend; Client and Model serve the openai backend.
type Deps struct {
	ChatModel   einomodel.BaseChatModel
	Client      *openai.Client
	Model       string
	Temperature float32
}

func New[T any](ctx context.Context, backend Backend, deps Deps, def Definition[T]) (contractx.Extractor[T], error) {
	switch Backend(strings.ToLower(strings.TrimSpace(string(backend)))) {
	case BackendEino, "":
		return NewEino[T](ctx, deps.ChatModel, def)
	case BackendOpenAI:
		return NewOpenAI[T](deps.Client, deps.Model, deps.Temperature, def)
	default:
		return nil, fmt.Errorf("%w: unknown extractor backend %q", contractx.ErrValidation, backend)
	}
}

func IdentifierDefinition(systemPrompt string) Definition[contractx.IdentifierOutput] {
	return Definition[contractx.IdentifierOutput]{
		Name:         "identifier",
		Description:  "Customer identifier (customer id, email or phone number) found in the message.",
		SystemPrompt: systemPrompt,
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"identifier": map[string]any{
					"type":        "string",
					"description": "Customer ID, email or phone number, or an empty string when none is present.",
				},
			},
			"required":             []string{"identifier"},
			"additionalProperties": false,
		},
	}
}

func ProfileDefinition(systemPrompt string) Definition[contractx.ProfileOutput] {
	return Definition[contractx.ProfileOutput]{
		Name:         "user_profile",
		Description:  "Long-term music preferences of the customer.",
		SystemPrompt: systemPrompt,
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"customer_id": map[string]any{
					"type":        "string",
					"description": "The customer ID of the customer.",
				},
				"music_preferences": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "The music preferences of the customer.",
				},
			},
			"required":             []string{"customer_id", "music_preferences"},
			"additionalProperties": false,
		},
		Normalize: func(p contractx.ProfileOutput) contractx.ProfileOutput {
			p.CustomerID = strings.TrimSpace(p.CustomerID)
			prefs := make([]string, 0, len(p.MusicPreferences))
			for _, pref := range p.MusicPreferences {
				if pref = strings.Join(strings.Fields(pref), " "); pref != "" {
					prefs = append(prefs, pref)
				}
			}
			p.MusicPreferences = prefs
			return p
		},
	}
}
