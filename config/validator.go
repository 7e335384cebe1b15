package config

import (
	"sync"

	"github.com/grovetools/watchers/schema"
)

var (
	schemaOnce      sync.Once
	schemaValidator *schema.Validator
	schemaErr       error
)

// SchemaValidator checks raw config documents against the schema generated
// from Config. The schema is compiled once per process.
type SchemaValidator struct {
	validator *schema.Validator
}

func NewSchemaValidator() (*SchemaValidator, error) {
	schemaOnce.Do(func() {
		data, err := GenerateSchema()
		if err != nil {
			schemaErr = err
			return
		}
		schemaValidator, schemaErr = schema.NewValidator("watchers.schema.json", data)
	})
	if schemaErr != nil {
		return nil, schemaErr
	}
	return &SchemaValidator{validator: schemaValidator}, nil
}

// Validate returns schema.Problems when the document violates the schema.
func (v *SchemaValidator) Validate(configData interface{}) error {
	return v.validator.Validate(configData)
}
