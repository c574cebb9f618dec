package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nexodify/forensic-engine/internal/core/domain"
)

// ValidateAgainst validates raw JSON against a schema map.
func ValidateAgainst(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := compiled.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// ValidatePeriziaVerdict checks a sanitized verdict document against the
// v1 contract and decodes it into the domain type.
func ValidatePeriziaVerdict(data []byte) (*domain.Verdict, error) {
	if err := ValidateAgainst(PeriziaVerdictSchema(), data); err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "validate verdict", err)
	}
	var verdict domain.Verdict
	if err := json.Unmarshal(data, &verdict); err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "decode verdict", err)
	}
	return &verdict, nil
}
