// Package policy decides which files participate in navigation results.
// Scope rules are expressed in Rego so projects can override the built-in
// policy, for instance to hide generated or vendored HDL from
// find-all-references output.
package policy

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/open-policy-agent/opa/v1/rego"
)

//go:embed scope.rego
var defaultPolicy string

// Engine evaluates the scope policy for candidate files
type Engine struct {
	include rego.PreparedEvalQuery
	exclude rego.PreparedEvalQuery
}

// FileInput is the data structure passed to OPA for one file
type FileInput struct {
	File              string   `json:"file"`
	Library           string   `json:"library"`
	IsThirdParty      bool     `json:"is_third_party"`
	IncludeThirdParty bool     `json:"include_third_party"`
	HidePatterns      []string `json:"hide_patterns"`
}

// Decision is the result of evaluating the policy for one file
type Decision struct {
	Include    bool
	Exclusions []string
}

// New creates a policy engine from the built-in scope policy
func New() (*Engine, error) {
	return newEngine("scope.rego", defaultPolicy)
}

// NewFromFile creates a policy engine from a project-supplied policy file.
// The file must define data.vhdl.nav.scope.include and may define
// data.vhdl.nav.scope.exclusions.
func NewFromFile(path string) (*Engine, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading policy file: %w", err)
	}
	return newEngine(path, string(content))
}

func newEngine(name, content string) (*Engine, error) {
	module := rego.Module(name, content)

	include, err := rego.New(module, rego.Query("data.vhdl.nav.scope.include")).
		PrepareForEval(context.Background())
	if err != nil {
		return nil, fmt.Errorf("preparing include query: %w", err)
	}

	exclude, err := rego.New(module, rego.Query("data.vhdl.nav.scope.exclusions")).
		PrepareForEval(context.Background())
	if err != nil {
		return nil, fmt.Errorf("preparing exclusions query: %w", err)
	}

	return &Engine{include: include, exclude: exclude}, nil
}

// Evaluate runs the scope policy for one file
func (e *Engine) Evaluate(ctx context.Context, input FileInput) (*Decision, error) {
	inputMap, err := structToMap(input)
	if err != nil {
		return nil, fmt.Errorf("converting input: %w", err)
	}

	decision := &Decision{}

	rs, err := e.include.Eval(ctx, rego.EvalInput(inputMap))
	if err != nil {
		return nil, fmt.Errorf("evaluating include: %w", err)
	}
	if len(rs) > 0 && len(rs[0].Expressions) > 0 {
		if v, ok := rs[0].Expressions[0].Value.(bool); ok {
			decision.Include = v
		}
	}

	rs, err = e.exclude.Eval(ctx, rego.EvalInput(inputMap))
	if err != nil {
		return nil, fmt.Errorf("evaluating exclusions: %w", err)
	}
	if len(rs) > 0 && len(rs[0].Expressions) > 0 {
		if values, ok := rs[0].Expressions[0].Value.([]interface{}); ok {
			for _, v := range values {
				if s, ok := v.(string); ok {
					decision.Exclusions = append(decision.Exclusions, s)
				}
			}
		}
	}

	return decision, nil
}

// InScope is a convenience wrapper returning only the include verdict
func (e *Engine) InScope(ctx context.Context, input FileInput) (bool, error) {
	decision, err := e.Evaluate(ctx, input)
	if err != nil {
		return false, err
	}
	return decision.Include, nil
}

func structToMap(v interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var result map[string]interface{}
	err = json.Unmarshal(data, &result)
	return result, err
}
