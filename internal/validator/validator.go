package validator

// The CUE schema is the contract between the navigator and anything that
// consumes its JSON output (editor integrations, scripts). Output that does
// not unify with the schema is a navigator bug and is reported as an error
// before anything is printed, rather than letting a malformed payload reach
// a consumer that would silently misbehave on it.

import (
	"embed"
	"encoding/json"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

//go:embed nav_schema.cue
var schemaFS embed.FS

// Validator validates navigation output against the CUE schema contract.
type Validator struct {
	ctx    *cue.Context
	schema cue.Value
}

// New creates a new Validator with the embedded CUE schema
func New() (*Validator, error) {
	ctx := cuecontext.New()

	schemaBytes, err := schemaFS.ReadFile("nav_schema.cue")
	if err != nil {
		return nil, fmt.Errorf("loading embedded schema: %w", err)
	}

	schema := ctx.CompileBytes(schemaBytes)
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling schema: %w", schema.Err())
	}

	return &Validator{
		ctx:    ctx,
		schema: schema,
	}, nil
}

// ValidateDefinition checks a go-to-definition result against #DefinitionResult
func (v *Validator) ValidateDefinition(data interface{}) error {
	return v.validate(data, "#DefinitionResult")
}

// ValidateReferences checks a find-all-references result against #ReferencesResult
func (v *Validator) ValidateReferences(data interface{}) error {
	return v.validate(data, "#ReferencesResult")
}

// ValidateSymbols checks a symbol listing against #SymbolRows
func (v *Validator) ValidateSymbols(data interface{}) error {
	return v.validate(data, "#SymbolRows")
}

func (v *Validator) validate(data interface{}, path string) error {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling data to JSON: %w", err)
	}
	return v.validateJSON(jsonBytes, path)
}

// ValidateJSON validates JSON bytes directly against the named definition
func (v *Validator) ValidateJSON(jsonBytes []byte, path string) error {
	return v.validateJSON(jsonBytes, path)
}

func (v *Validator) validateJSON(jsonBytes []byte, path string) error {
	dataValue := v.ctx.CompileBytes(jsonBytes)
	if dataValue.Err() != nil {
		return fmt.Errorf("compiling data as CUE: %w", dataValue.Err())
	}

	def := v.schema.LookupPath(cue.ParsePath(path))
	if def.Err() != nil {
		return fmt.Errorf("looking up %s definition: %w", path, def.Err())
	}

	unified := def.Unify(dataValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	return nil
}

// ValidationErrors returns detailed information about all validation errors
// for a definition result; nil means the data is valid.
func (v *Validator) ValidationErrors(data interface{}, path string) []string {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return []string{fmt.Sprintf("marshal error: %v", err)}
	}

	dataValue := v.ctx.CompileBytes(jsonBytes)
	if dataValue.Err() != nil {
		return []string{fmt.Sprintf("compile error: %v", dataValue.Err())}
	}

	def := v.schema.LookupPath(cue.ParsePath(path))
	if def.Err() != nil {
		return []string{fmt.Sprintf("schema lookup error: %v", def.Err())}
	}

	unified := def.Unify(dataValue)
	err = unified.Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}

	var errs []string
	for _, e := range errors.Errors(err) {
		errs = append(errs, e.Error())
	}
	return errs
}
