// Package schema validates documents against a JSON Schema and reports every
// violation with its location.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Validator holds a compiled schema.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles schemaData under the resource name.
func NewValidator(name string, schemaData []byte) (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(schemaData)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return &Validator{schema: compiled}, nil
}

// Problems lists violations as "location: message", sorted.
type Problems []string

func (p Problems) Error() string {
	return "schema validation failed:\n- " + strings.Join(p, "\n- ")
}

// Validate checks data, which may be any JSON-marshalable value such as a
// decoded YAML or TOML document. Violations come back as Problems.
func (v *Validator) Validate(data interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode document for validation: %w", err)
	}
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to decode document for validation: %w", err)
	}

	err = v.schema.Validate(doc)
	if err == nil {
		return nil
	}
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	var problems Problems
	collect(verr, &problems)
	if len(problems) == 0 {
		problems = append(problems, verr.Message)
	}
	sort.Strings(problems)
	return problems
}

// collect keeps the leaf causes; intermediate nodes only repeat them.
func collect(err *jsonschema.ValidationError, out *Problems) {
	if len(err.Causes) == 0 {
		location := err.InstanceLocation
		if location == "" {
			location = "/"
		}
		*out = append(*out, fmt.Sprintf("%s: %s", location, err.Message))
		return
	}
	for _, cause := range err.Causes {
		collect(cause, out)
	}
}
