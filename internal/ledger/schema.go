package ledger

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

const schemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["sequence", "accounts"],
  "properties": {
    "activeAccountNumber": {"type": ["integer", "null"], "minimum": 1},
    "lastUpdated": {"type": "string"},
    "sequence": {
      "type": "array",
      "items": {"type": "integer", "minimum": 1},
      "uniqueItems": true
    },
    "accounts": {
      "type": "object",
      "propertyNames": {"pattern": "^[1-9][0-9]*$"},
      "additionalProperties": {
        "type": "object",
        "required": ["email"],
        "properties": {
          "email": {"type": "string"},
          "uuid": {"type": "string"},
          "added": {"type": "string"},
          "authKind": {"enum": ["oauth", "token"]}
        }
      }
    }
  }
}`

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	})
	return schema, schemaErr
}

// validateDocument checks raw ledger JSON against the schema.
func validateDocument(data []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compiling ledger schema: %w", err)
	}
	result, err := s.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("parsing ledger: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("ledger schema validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
	}
	return nil
}
