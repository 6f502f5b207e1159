package services

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// candidateSchema is the contract of the per-resume model answer.
const candidateSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["strengths", "weaknesses", "overall_score", "recommendation"],
  "properties": {
    "strengths": {"type": "array", "items": {"type": "string", "minLength": 1}},
    "weaknesses": {"type": "array", "items": {"type": "string", "minLength": 1}},
    "overall_score": {"type": "number", "minimum": 0, "maximum": 10},
    "recommendation": {"type": "string", "enum": ["Strong Hire", "Hire", "Maybe", "No Hire"]},
    "comments": {"type": "string"}
  }
}`

// SchemaError lists every field of a model answer that broke the contract.
type SchemaError struct {
	Errors []FieldError
}

type FieldError struct {
	Field   string
	Message string
}

func (e *SchemaError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return "model response failed validation: " + strings.Join(parts, "; ")
}

type ResponseValidator struct {
	schema *gojsonschema.Schema
}

func NewResponseValidator() (*ResponseValidator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(candidateSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile candidate schema: %w", err)
	}
	return &ResponseValidator{schema: schema}, nil
}

// Validate checks document, a JSON string, against the candidate schema.
func (v *ResponseValidator) Validate(document string) error {
	result, err := v.schema.Validate(gojsonschema.NewStringLoader(document))
	if err != nil {
		return fmt.Errorf("failed to load model response: %w", err)
	}

	if result.Valid() {
		return nil
	}

	schemaErr := &SchemaError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		schemaErr.Errors = append(schemaErr.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return schemaErr
}
