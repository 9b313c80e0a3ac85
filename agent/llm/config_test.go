package llm

import (
	"errors"
	"testing"

	contractx "github.com/tanpawarit/Chative-Music-Store-Support/agent/contract"
)

func TestModelForOverrides(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Model:                 "openai/gpt-4o-mini",
		Temperature:           0.5,
		InvoiceModel:          " openai/gpt-4o ",
		InvoiceTemperature:    0,
		MusicTemperature:      -1,
		SupervisorTemperature: -1,
	}

	model, temp := cfg.ModelFor(contractx.AgentTypeInvoice)
	if model != "openai/gpt-4o" || temp != 0 {
		t.Fatalf("invoice = (%q, %v)", model, temp)
	}

	model, temp = cfg.ModelFor(contractx.AgentTypeMusic)
	if model != "openai/gpt-4o-mini" || temp != 0.5 {
		t.Fatalf("music = (%q, %v)", model, temp)
	}
}

func TestOpenRouterForCopiesTransportSettings(t *testing.T) {
	t.Parallel()

	cfg := Config{
		BaseURL:            " https://openrouter.ai/api/v1 ",
		APIKey:             " key ",
		Model:              "m",
		MaxCompletionToken: 300,
		VerifyModel:        "small",
		VerifyTemperature:  -1,
	}

	got := cfg.OpenRouterFor(contractx.AgentTypeVerify)
	if got.Model != "small" || got.APIKey != "key" || got.BaseURL != "https://openrouter.ai/api/v1" {
		t.Fatalf("unexpected config: %+v", got)
	}
	if got.MaxCompletionToken == nil || *got.MaxCompletionToken != 300 {
		t.Fatalf("MaxCompletionToken = %v", got.MaxCompletionToken)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	if err := (Config{Model: "m"}).Validate(); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
