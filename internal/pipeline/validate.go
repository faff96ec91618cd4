package pipeline

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// recordSchema checks the shape of an extracted record. Extraction rules
// already constrain digit lengths at match time; the schema is the second
// line of defense that catches anything a later rule change lets through,
// and its failures mark a scan for review instead of rejecting it.
var recordSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"document_number": map[string]any{"type": "string", "minLength": 1},
		"document_date":   map[string]any{"type": "string", "pattern": `^\d{2}\.\d{2}\.\d{4}$`},
		"supplier": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"inn":                       map[string]any{"type": "string", "pattern": `^\d{10}$|^\d{12}$`},
				"kpp":                       map[string]any{"type": "string", "pattern": `^\d{9}$`},
				"bik":                       map[string]any{"type": "string", "pattern": `^\d{9}$`},
				"account":                   map[string]any{"type": "string", "pattern": `^\d{20}$`},
				"correspondent_account":     map[string]any{"type": "string", "pattern": `^\d{20}$`},
				"name":                      map[string]any{"type": "string", "minLength": 1},
			},
		},
		"buyer": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"inn":  map[string]any{"type": "string", "pattern": `^\d{10}$|^\d{12}$`},
				"kpp":  map[string]any{"type": "string", "pattern": `^\d{9}$`},
				"name": map[string]any{"type": "string", "minLength": 1},
			},
		},
		"total_amount":       map[string]any{"type": "string", "pattern": `^\d+(\.\d+)?$`},
		"vat_amount":         map[string]any{"type": "string", "pattern": `^\d+(\.\d+)?$`},
		"without_vat_amount": map[string]any{"type": "string", "pattern": `^\d+(\.\d+)?$`},
		"items": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name": map[string]any{"type": "string", "minLength": 1},
				},
			},
		},
	},
}

var compiledRecordSchema = mustCompile(recordSchema)

func mustCompile(schemaMap map[string]any) *jsonschema.Schema {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		panic(fmt.Sprintf("marshal schema: %v", err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("record.json", bytes.NewReader(b)); err != nil {
		panic(fmt.Sprintf("add schema: %v", err))
	}
	schema, err := compiler.Compile("record.json")
	if err != nil {
		panic(fmt.Sprintf("compile schema: %v", err))
	}
	return schema
}

// validateRecordJSON returns one issue string per schema violation.
// A nil slice means the record is clean.
func validateRecordJSON(data []byte) ([]string, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	err := compiledRecordSchema.Validate(v)
	if err == nil {
		return nil, nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, err
	}
	issues := flattenCauses(ve)
	if len(issues) == 0 {
		issues = append(issues, ve.Error())
	}
	return issues, nil
}

// flattenCauses walks to the leaf errors, which carry the actual
// instance locations and messages.
func flattenCauses(ve *jsonschema.ValidationError) []string {
	if len(ve.Causes) == 0 {
		return []string{fmt.Sprintf("%s: %s", ve.InstanceLocation, ve.Message)}
	}
	var out []string
	for _, c := range ve.Causes {
		out = append(out, flattenCauses(c)...)
	}
	return out
}
