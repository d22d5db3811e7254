// Package validator checks documents against the embedded CUE contracts:
// the configuration file (#Config) and the --json output (#LintOutput).
//
// Validation failures are fatal for a run. A config key the schema does not
// know, or a JSON report the schema rejects, means the code and the contract
// disagree and must be fixed at the source, not worked around.
package validator

import (
	"embed"
	"encoding/json"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaFS embed.FS

//go:embed output_schema.cue
var outputSchemaFS embed.FS

// contract is a compiled schema and the definition documents are unified with.
type contract struct {
	ctx        *cue.Context
	schema     cue.Value
	definition string
}

func compile(fs embed.FS, name, definition string) (contract, error) {
	ctx := cuecontext.New()

	schemaBytes, err := fs.ReadFile(name)
	if err != nil {
		return contract{}, fmt.Errorf("loading embedded schema %s: %w", name, err)
	}

	schema := ctx.CompileBytes(schemaBytes, cue.Filename(name))
	if schema.Err() != nil {
		return contract{}, fmt.Errorf("compiling schema %s: %w", name, schema.Err())
	}

	return contract{ctx: ctx, schema: schema, definition: definition}, nil
}

func (c contract) unify(jsonBytes []byte) (cue.Value, error) {
	dataValue := c.ctx.CompileBytes(jsonBytes)
	if dataValue.Err() != nil {
		return cue.Value{}, fmt.Errorf("compiling JSON as CUE: %w", dataValue.Err())
	}

	def := c.schema.LookupPath(cue.ParsePath(c.definition))
	if def.Err() != nil {
		return cue.Value{}, fmt.Errorf("looking up %s definition: %w", c.definition, def.Err())
	}

	return def.Unify(dataValue), nil
}

func (c contract) validateJSON(jsonBytes []byte) error {
	unified, err := c.unify(jsonBytes)
	if err != nil {
		return err
	}
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

func (c contract) validate(data interface{}) error {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling data to JSON: %w", err)
	}
	return c.validateJSON(jsonBytes)
}

// Validator validates configuration documents against #Config.
type Validator struct {
	contract
}

// New creates a new Validator with the embedded CUE schema
func New() (*Validator, error) {
	c, err := compile(schemaFS, "schema.cue", "#Config")
	if err != nil {
		return nil, err
	}
	return &Validator{contract: c}, nil
}

// Validate checks that data, marshaled to JSON, conforms to #Config.
func (v *Validator) Validate(data interface{}) error {
	return v.validate(data)
}

// ValidateJSON validates JSON bytes directly against the schema
func (v *Validator) ValidateJSON(jsonBytes []byte) error {
	return v.validateJSON(jsonBytes)
}

// ValidationErrors returns detailed information about all validation errors
func (v *Validator) ValidationErrors(data interface{}) []string {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return []string{fmt.Sprintf("marshal error: %v", err)}
	}

	unified, err := v.unify(jsonBytes)
	if err != nil {
		return []string{err.Error()}
	}

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

// OutputValidator validates linter output against the output schema
type OutputValidator struct {
	contract
}

// NewOutputValidator creates a validator for linter output
func NewOutputValidator() (*OutputValidator, error) {
	c, err := compile(outputSchemaFS, "output_schema.cue", "#LintOutput")
	if err != nil {
		return nil, err
	}
	return &OutputValidator{contract: c}, nil
}

// Validate checks that the output data conforms to the output schema
func (v *OutputValidator) Validate(data interface{}) error {
	if err := v.validate(data); err != nil {
		return fmt.Errorf("output %w", err)
	}
	return nil
}
