package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/supervisor.txt
	supervisorRaw string

	//go:embed template/music.txt
	musicRaw string

	//go:embed template/invoice.txt
	invoiceRaw string

	//go:embed template/verify.txt
	verifyRaw string

	//go:embed template/extract_identifier.txt
	extractIdentifierRaw string

	//go:embed template/extract_profile.txt
	extractProfileRaw string
)

// PromptSet holds loaded prompt content. Prompts are FString templates, so
// literal braces are not allowed; Music expects a {memory} variable.
type PromptSet struct {
	Supervisor        string
	Music             string
	Invoice           string
	Verify            string
	ExtractIdentifier string
	ExtractProfile    string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Supervisor:        strings.TrimSpace(supervisorRaw),
		Music:             strings.TrimSpace(musicRaw),
		Invoice:           strings.TrimSpace(invoiceRaw),
		Verify:            strings.TrimSpace(verifyRaw),
		ExtractIdentifier: strings.TrimSpace(extractIdentifierRaw),
		ExtractProfile:    strings.TrimSpace(extractProfileRaw),
	}
}
