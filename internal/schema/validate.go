// Package schema checks documents against an exported JSON Schema.
package schema

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/usestring/jtd-infer/pkg/types"
)

// Validator validates JSON data against a compiled schema.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles schema, which may be any value that marshals to a
// JSON Schema document (including json.RawMessage).
func NewValidator(schema any) (*Validator, error) {
	// Round-trip through JSON to get a clean map[string]any
	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshaling schema: %w", err)
	}

	var schemaValue any
	if err := json.Unmarshal(schemaJSON, &schemaValue); err != nil {
		return nil, fmt.Errorf("unmarshaling schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()

	// Add the schema as a resource (doc must be valid json value, not io.Reader)
	if err := compiler.AddResource("schema.json", schemaValue); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}

	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}

	return &Validator{schema: compiled}, nil
}

// Validate validates a JSON document against the schema.
func (v *Validator) Validate(data []byte) *types.ValidationResult {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return &types.ValidationResult{
			Valid:  false,
			Errors: []string{fmt.Sprintf("invalid JSON: %s", err.Error())},
		}
	}
	return v.ValidateValue(value)
}

// ValidateValue validates an already-parsed value against the schema.
func (v *Validator) ValidateValue(value any) *types.ValidationResult {
	err := v.schema.Validate(value)
	if err == nil {
		return &types.ValidationResult{Valid: true}
	}

	return &types.ValidationResult{
		Valid:  false,
		Errors: extractValidationErrors(err),
	}
}

// ValidateAll validates every document and reports the failures by index.
// Failures are capped at maxFailures when it is positive; every document is
// still checked.
func (v *Validator) ValidateAll(ctx context.Context, docs [][]byte, maxFailures int) (*types.VerifyResult, error) {
	out := &types.VerifyResult{Valid: true}
	for i, d := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out.Checked++
		res := v.Validate(d)
		if res.Valid {
			continue
		}
		out.Valid = false
		if maxFailures <= 0 || len(out.Failures) < maxFailures {
			failure := types.DocumentValidation{Index: i, ValidationResult: *res}
			failure.Preview, _ = Preview(d, nil)
			out.Failures = append(out.Failures, failure)
		}
	}
	return out, nil
}

// extractValidationErrors extracts human-readable error messages from a validation error.
func extractValidationErrors(err error) []string {
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) {
		return extractDetailedErrors(validationErr)
	}
	return []string{err.Error()}
}

// printer is a default English printer for localized error messages.
var printer = message.NewPrinter(language.English)

// extractDetailedErrors collects the leaf errors of err, deduplicated per
// instance path and sorted.
func extractDetailedErrors(err *jsonschema.ValidationError) []string {
	errorsByPath := make(map[string][]string)
	collectErrors(err, errorsByPath)

	var result []string
	for path, msgs := range errorsByPath {
		seen := make(map[string]bool)
		for _, msg := range msgs {
			if seen[msg] {
				continue
			}
			seen[msg] = true
			if path != "" {
				result = append(result, fmt.Sprintf("%s: %s", path, msg))
			} else {
				result = append(result, msg)
			}
		}
	}
	sort.Strings(result)
	return result
}

// collectErrors recursively collects leaf errors (those without causes).
func collectErrors(err *jsonschema.ValidationError, errorsByPath map[string][]string) {
	instancePath := ""
	if len(err.InstanceLocation) > 0 {
		instancePath = "/" + strings.Join(err.InstanceLocation, "/")
	}

	if err.ErrorKind != nil && len(err.Causes) == 0 {
		errMsg := err.ErrorKind.LocalizedString(printer)
		// $ref and schema reference messages only point at other errors
		if !strings.HasPrefix(errMsg, "$ref ") && !strings.HasPrefix(errMsg, "doesn't validate with") {
			errorsByPath[instancePath] = append(errorsByPath[instancePath], errMsg)
		}
	}

	for _, cause := range err.Causes {
		collectErrors(cause, errorsByPath)
	}
}
