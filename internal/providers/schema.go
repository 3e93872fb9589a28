package providers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/docrelay/docrelay/internal/types"
)

// structureSchema constrains the JSON array the structuring model returns.
// Validation catches hallucinated shapes before they reach the data model.
const structureSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["type"],
    "properties": {
      "type": {"enum": ["heading", "paragraph", "table"]},
      "level": {"type": "integer", "minimum": 1, "maximum": 6},
      "content": {"type": "string"},
      "align": {"enum": ["left", "center", "right"]},
      "spacingAfter": {"enum": ["small", "medium", "large"]}
    }
  }
}`

var compiledStructureSchema = jsonschema.MustCompileString("structure.json", structureSchema)

// ParseStructure decodes and validates raw model output into structured
// elements. It tolerates markdown code fences around the JSON.
func ParseStructure(raw string) ([]types.Element, error) {
	cleaned := stripCodeFences(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("empty structure output")
	}

	var generic any
	if err := json.Unmarshal([]byte(cleaned), &generic); err != nil {
		return nil, fmt.Errorf("structure output is not valid JSON: %w", err)
	}
	if err := compiledStructureSchema.Validate(generic); err != nil {
		return nil, fmt.Errorf("structure output failed validation: %w", err)
	}

	var elements []types.Element
	if err := json.Unmarshal([]byte(cleaned), &elements); err != nil {
		return nil, fmt.Errorf("failed to decode structure: %w", err)
	}
	return elements, nil
}

// stripCodeFences removes a surrounding ```...``` fence if present.
func stripCodeFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return trimmed
	}
	lines = lines[1:]
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
