package contract

import (
	"strconv"

	"github.com/cloudwego/eino/schema"
)

type AgentType string

// MemoryVar is the prompt variable carrying the loaded preference summary.
const MemoryVar = "memory"

const (
	AgentTypeSupervisor AgentType = "supervisor"
	AgentTypeMusic      AgentType = "music"
	AgentTypeInvoice    AgentType = "invoice"
	AgentTypeVerify     AgentType = "verify"
	AgentTypeExtractor  AgentType = "extractor"
)

// Scope carries the verified customer into tools and delegates. The zero
// value is an unverified scope.
type Scope struct {
	CustomerID *int
}

func ScopeFor(customerID *int) Scope {
	if customerID == nil {
		return Scope{}
	}
	id := *customerID
	return Scope{CustomerID: &id}
}

func (s Scope) Verified() bool {
	return s.CustomerID != nil
}

// CustomerKey is the string form used to key per-customer records.
func (s Scope) CustomerKey() string {
	if s.CustomerID == nil {
		return ""
	}
	return strconv.Itoa(*s.CustomerID)
}

type ToolResult struct {
	CallID string `json:"call_id"`
	Tool   string `json:"tool"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

func (r ToolResult) Failed() bool {
	return r.Error != ""
}

// IdentifierOutput is the structured extraction target for verification.
type IdentifierOutput struct {
	Identifier string `json:"identifier"`
}

// ProfileOutput is the structured extraction target for memory save.
type ProfileOutput struct {
	CustomerID       string   `json:"customer_id"`
	MusicPreferences []string `json:"music_preferences"`
}

type SubAgentRequest struct {
	// Messages is the history the loop starts from. It is not modified.
	Messages []*schema.Message
	// Vars fill the agent's system prompt template.
	Vars  map[string]any
	Scope Scope
	// Budget is the number of tool rounds allowed; <= 0 uses the agent default.
	Budget int
}

type SubAgentResult struct {
	// Messages holds only what this run appended, in order.
	Messages  []*schema.Message
	Answer    string
	Exhausted bool
	// Remaining is the unused part of the budget.
	Remaining int
}
