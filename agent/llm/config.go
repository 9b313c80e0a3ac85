package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-Music-Store-Support/agent/contract"
	openrouterx "github.com/tanpawarit/Chative-Music-Store-Support/pkg/openrouter"
)

// Config holds the default model plus optional per-role overrides. A
// negative role temperature means "use the default".
type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	SupervisorModel       string  `envconfig:"SUPERVISOR_MODEL" split_words:"true"`
	MusicModel            string  `envconfig:"MUSIC_MODEL" split_words:"true"`
	InvoiceModel          string  `envconfig:"INVOICE_MODEL" split_words:"true"`
	VerifyModel           string  `envconfig:"VERIFY_MODEL" split_words:"true"`
	ExtractorModel        string  `envconfig:"EXTRACTOR_MODEL" split_words:"true"`
	SupervisorTemperature float32 `envconfig:"SUPERVISOR_TEMPERATURE" split_words:"true" default:"-1"`
	MusicTemperature      float32 `envconfig:"MUSIC_TEMPERATURE" split_words:"true" default:"-1"`
	InvoiceTemperature    float32 `envconfig:"INVOICE_TEMPERATURE" split_words:"true" default:"-1"`
	VerifyTemperature     float32 `envconfig:"VERIFY_TEMPERATURE" split_words:"true" default:"-1"`
	ExtractorTemperature  float32 `envconfig:"EXTRACTOR_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: openrouter api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	return nil
}

// ModelFor returns the model name and temperature for an agent role.
func (c Config) ModelFor(agentType contractx.AgentType) (string, float32) {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	override, overrideTemp := "", float32(-1)
	switch agentType {
	case contractx.AgentTypeSupervisor:
		override, overrideTemp = c.SupervisorModel, c.SupervisorTemperature
	case contractx.AgentTypeMusic:
		override, overrideTemp = c.MusicModel, c.MusicTemperature
	case contractx.AgentTypeInvoice:
		override, overrideTemp = c.InvoiceModel, c.InvoiceTemperature
	case contractx.AgentTypeVerify:
		override, overrideTemp = c.VerifyModel, c.VerifyTemperature
	case contractx.AgentTypeExtractor:
		override, overrideTemp = c.ExtractorModel, c.ExtractorTemperature
	}

	if v := strings.TrimSpace(override); v != "" {
		modelName = v
	}
	if overrideTemp >= 0 {
		temp = overrideTemp
	}
	return modelName, temp
}

func (c Config) OpenRouterFor(agentType contractx.AgentType) openrouterx.Config {
	modelName, temp := c.ModelFor(agentType)
	maxCompletionToken := c.MaxCompletionToken
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}
