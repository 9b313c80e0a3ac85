package tool

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/cloudwego/eino/schema"
)

type ParamType string

const (
	ParamString  ParamType = "string"
	ParamInteger ParamType = "integer"
)

func (t ParamType) dataType() schema.DataType {
	if t == ParamInteger {
		return schema.Integer
	}
	return schema.String
}

type Param struct {
	Name     string
	Type     ParamType
	Desc     string
	Required bool
}

// Args holds decoded, validated tool arguments.
type Args map[string]any

func (a Args) String(name string) string {
	s, _ := a[name].(string)
	return strings.TrimSpace(s)
}

func (a Args) Int(name string) int {
	n, _ := asInt(a[name])
	return n
}

func decodeArgs(raw string) (Args, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Args{}, nil
	}
	args := Args{}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, fmt.Errorf("invalid tool arguments: %v", err)
	}
	return args, nil
}

// validateArgs checks args against params and normalizes integers in place.
// Unknown arguments are rejected.
func validateArgs(params []Param, args Args) error {
	declared := make(map[string]Param, len(params))
	for _, p := range params {
		declared[p.Name] = p
	}

	var unknown []string
	for name := range args {
		if _, ok := declared[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unexpected arguments: %s", strings.Join(unknown, ", "))
	}

	for _, p := range params {
		v, present := args[p.Name]
		if !present || v == nil {
			if p.Required {
				return fmt.Errorf("missing required argument: %s", p.Name)
			}
			continue
		}
		switch p.Type {
		case ParamInteger:
			n, ok := asInt(v)
			if !ok {
				return fmt.Errorf("argument %s must be an integer", p.Name)
			}
			args[p.Name] = n
		default:
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("argument %s must be a string", p.Name)
			}
			if p.Required && strings.TrimSpace(s) == "" {
				return fmt.Errorf("argument %s must not be empty", p.Name)
			}
		}
	}
	return nil
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || n > math.MaxInt32 || n < math.MinInt32 {
			return 0, false
		}
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}
