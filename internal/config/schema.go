package config

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// fileSchema pins the shape of the recognized config file keys. It is
// deliberately type-only: method values are not enumerated here, because
// Validate checks presence rather than spelling, matching the CLI where
// choice checking happens at flag-parse time. Unknown keys are allowed and
// pass through untouched.
const fileSchema = `{
  "type": "object",
  "properties": {
    "target": {"type": "string"},
    "method": {"type": "string"},
    "attacks": {"type": "array", "items": {"type": "string"}},
    "connections": {"type": "integer"},
    "duration": {"type": "integer"},
    "confirm_target": {"type": "string"},
    "stealth": {"type": "boolean"}
  }
}`

var compiledFileSchema = jsonschema.MustCompileString("config.schema.json", fileSchema)

// checkSchema validates the decoded file mapping against fileSchema. The
// YAML-decoded value is round-tripped through encoding/json first so the
// validator only ever sees JSON-native types.
func checkSchema(raw FileConfig) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("config is not representable as JSON: %w", err)
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	return compiledFileSchema.Validate(doc)
}
