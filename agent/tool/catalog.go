package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/Chative-Music-Store-Support/agent/contract"
	"github.com/tanpawarit/Chative-Music-Store-Support/agent/musicdb"
)

// RunFunc executes a tool with validated arguments. Errors that IsHardError
// accepts abort the run; any other error is reported back to the model as a
// tool result.
type RunFunc func(ctx context.Context, args Args, scope contractx.Scope) (any, error)

type Spec struct {
	Name   string
	Desc   string
	Params []Param
	// CustomerScoped tools only run for a verified customer and read the
	// customer id from the scope.
	CustomerScoped bool
	Run            RunFunc
}

func (s Spec) Info() *schema.ToolInfo {
	params := make(map[string]*schema.ParameterInfo, len(s.Params))
	for _, p := range s.Params {
		params[p.Name] = &schema.ParameterInfo{
			Type:     p.Type.dataType(),
			Desc:     p.Desc,
			Required: p.Required,
		}
	}
	return &schema.ToolInfo{
		Name:        s.Name,
		Desc:        s.Desc,
		ParamsOneOf: schema.NewParamsOneOfByParams(params),
	}
}

// Catalog is the tool set bound to one agent. It implements
// contract.ToolGateway.
type Catalog struct {
	specs  []Spec
	byName map[string]Spec
}

func NewCatalog(specs ...Spec) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]Spec, len(specs))}
	for _, s := range specs {
		name := strings.TrimSpace(s.Name)
		if name == "" || s.Run == nil {
			return nil, fmt.Errorf("%w: tool spec needs a name and a run func", contractx.ErrValidation)
		}
		if _, dup := c.byName[name]; dup {
			return nil, fmt.Errorf("%w: duplicate tool %s", contractx.ErrValidation, name)
		}
		c.byName[name] = s
		c.specs = append(c.specs, s)
	}
	return c, nil
}

// BuildForAgent returns the catalog of a sub-agent backed by repo.
func BuildForAgent(agentType contractx.AgentType, repo musicdb.Repository) (*Catalog, error) {
	if repo == nil {
		return nil, fmt.Errorf("%w: repository is required", contractx.ErrValidation)
	}
	switch agentType {
	case contractx.AgentTypeMusic:
		return NewCatalog(MusicTools(repo)...)
	case contractx.AgentTypeInvoice:
		return NewCatalog(InvoiceTools(repo)...)
	default:
		return nil, fmt.Errorf("%w: no tools for agent=%s", contractx.ErrValidation, agentType)
	}
}

func (c *Catalog) Infos() []*schema.ToolInfo {
	infos := make([]*schema.ToolInfo, 0, len(c.specs))
	for _, s := range c.specs {
		infos = append(infos, s.Info())
	}
	return infos
}

// Execute runs one tool call. Argument, authorization and not-found
// problems come back as ToolResult.Error; only store outages are errors.
func (c *Catalog) Execute(ctx context.Context, scope contractx.Scope, call schema.ToolCall) (contractx.ToolResult, error) {
	name := strings.TrimSpace(call.Function.Name)
	out := contractx.ToolResult{CallID: call.ID, Tool: name}

	spec, ok := c.byName[name]
	if !ok {
		out.Error = fmt.Sprintf("unknown tool: %s", name)
		return out, nil
	}

	// Scoped tools reveal nothing, not even argument problems, before
	// verification.
	if spec.CustomerScoped && !scope.Verified() {
		out.Error = contractx.ErrCustomerNotVerified.Error()
		return out, nil
	}

	args, err := decodeArgs(call.Function.Arguments)
	if err != nil {
		out.Error = err.Error()
		return out, nil
	}
	if err := validateArgs(spec.Params, args); err != nil {
		out.Error = err.Error()
		return out, nil
	}

	result, err := spec.Run(ctx, args, scope)
	if err != nil {
		if IsHardError(err) {
			return out, fmt.Errorf("tool=%s: %w", name, err)
		}
		out.Error = err.Error()
		return out, nil
	}
	out.Result = result
	return out, nil
}

// IsHardError reports whether a tool failure must fail the whole run
// instead of being shown to the model.
func IsHardError(err error) bool {
	return errors.Is(err, contractx.ErrStoreUnavailable) ||
		errors.Is(err, contractx.ErrModelInvoke) ||
		errors.Is(err, contractx.ErrSchemaViolation) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// Content renders a tool result as the text fed back to the model. Text
// results pass through; everything else is JSON.
func Content(r contractx.ToolResult) string {
	var payload any = r.Result
	if r.Failed() {
		payload = map[string]string{"error": r.Error}
	} else if text, ok := r.Result.(string); ok {
		return text
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		raw, _ = json.Marshal(map[string]string{"error": "unencodable tool result"})
	}
	return string(raw)
}
