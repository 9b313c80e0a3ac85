package specialist

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/openai/openai-go"

	contractx "github.com/tanpawarit/Chative-Music-Store-Support/agent/contract"
	extractx "github.com/tanpawarit/Chative-Music-Store-Support/agent/extract"
	llmx "github.com/tanpawarit/Chative-Music-Store-Support/agent/llm"
	"github.com/tanpawarit/Chative-Music-Store-Support/agent/musicdb"
	promptx "github.com/tanpawarit/Chative-Music-Store-Support/agent/prompt"
	toolx "github.com/tanpawarit/Chative-Music-Store-Support/agent/tool"
	openrouterx "github.com/tanpawarit/Chative-Music-Store-Support/pkg/openrouter"
)

type registryImpl struct {
	supervisor contractx.SubAgent
	verifier   contractx.Decider
	identifier contractx.Extractor[contractx.IdentifierOutput]
	profile    contractx.Extractor[contractx.ProfileOutput]
}

func (r *registryImpl) Supervisor() contractx.SubAgent { return r.supervisor }
func (r *registryImpl) Verifier() contractx.Decider    { return r.verifier }

func (r *registryImpl) IdentifierExtractor() contractx.Extractor[contractx.IdentifierOutput] {
	return r.identifier
}

func (r *registryImpl) ProfileExtractor() contractx.Extractor[contractx.ProfileOutput] {
	return r.profile
}

// Models holds one chat model per role. Roles may share a model.
type Models struct {
	Supervisor einomodel.ToolCallingChatModel
	Music      einomodel.ToolCallingChatModel
	Invoice    einomodel.ToolCallingChatModel
	Verify     einomodel.ToolCallingChatModel
	Extractor  einomodel.ToolCallingChatModel
}

type BuildInput struct {
	Models     Models
	Repository musicdb.Repository
	Prompts    promptx.PromptSet
	Options    Options

	ExtractorBackend extractx.Backend
	// Used by the openai extractor backend only.
	OpenAIClient         *openai.Client
	ExtractorModel       string
	ExtractorTemperature float32
}

// NewRegistry builds every role's model from cfg and wires the agents.
func NewRegistry(ctx context.Context, cfg llmx.Config, repo musicdb.Repository, backend extractx.Backend, opts Options) (contractx.Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	roles := []contractx.AgentType{
		contractx.AgentTypeSupervisor,
		contractx.AgentTypeMusic,
		contractx.AgentTypeInvoice,
		contractx.AgentTypeVerify,
		contractx.AgentTypeExtractor,
	}
	built := make(map[contractx.AgentType]einomodel.ToolCallingChatModel, len(roles))
	for _, role := range roles {
		modelCfg := cfg.OpenRouterFor(role)
		m, err := modelCfg.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: create %s model: %v", contractx.ErrModelInvoke, role, err)
		}
		built[role] = m
	}

	extractorModel, extractorTemp := cfg.ModelFor(contractx.AgentTypeExtractor)
	return Build(ctx, BuildInput{
		Models: Models{
			Supervisor: built[contractx.AgentTypeSupervisor],
			Music:      built[contractx.AgentTypeMusic],
			Invoice:    built[contractx.AgentTypeInvoice],
			Verify:     built[contractx.AgentTypeVerify],
			Extractor:  built[contractx.AgentTypeExtractor],
		},
		Repository:           repo,
		Prompts:              promptx.LoadPromptSet(),
		Options:              opts,
		ExtractorBackend:     backend,
		OpenAIClient:         openrouterx.NewClient(cfg.OpenRouterFor(contractx.AgentTypeExtractor)),
		ExtractorModel:       extractorModel,
		ExtractorTemperature: extractorTemp,
	})
}

// Build wires agents from already constructed models.
func Build(ctx context.Context, in BuildInput) (contractx.Registry, error) {
	musicTools, err := toolx.BuildForAgent(contractx.AgentTypeMusic, in.Repository)
	if err != nil {
		return nil, err
	}
	invoiceTools, err := toolx.BuildForAgent(contractx.AgentTypeInvoice, in.Repository)
	if err != nil {
		return nil, err
	}

	music, err := newSpecialist(ctx, contractx.AgentTypeMusic, in.Models.Music, in.Prompts.Music, musicTools,
		map[string]any{MemoryVar: ""}, in.Options)
	if err != nil {
		return nil, err
	}
	invoice, err := newSpecialist(ctx, contractx.AgentTypeInvoice, in.Models.Invoice, in.Prompts.Invoice, invoiceTools, nil, in.Options)
	if err != nil {
		return nil, err
	}

	supervisorDecider, err := NewDecider(ctx, contractx.AgentTypeSupervisor, in.Models.Supervisor, in.Prompts.Supervisor, DelegateInfos(), nil)
	if err != nil {
		return nil, err
	}
	verifier, err := NewDecider(ctx, contractx.AgentTypeVerify, in.Models.Verify, in.Prompts.Verify, nil, nil)
	if err != nil {
		return nil, err
	}

	deps := extractx.Deps{
		ChatModel:   in.Models.Extractor,
		Client:      in.OpenAIClient,
		Model:       in.ExtractorModel,
		Temperature: in.ExtractorTemperature,
	}
	identifier, err := extractx.New(ctx, in.ExtractorBackend, deps, extractx.IdentifierDefinition(in.Prompts.ExtractIdentifier))
	if err != nil {
		return nil, err
	}
	profile, err := extractx.New(ctx, in.ExtractorBackend, deps, extractx.ProfileDefinition(in.Prompts.ExtractProfile))
	if err != nil {
		return nil, err
	}

	return &registryImpl{
		supervisor: NewSupervisor(supervisorDecider, music, invoice, in.Options),
		verifier:   verifier,
		identifier: identifier,
		profile:    profile,
	}, nil
}
