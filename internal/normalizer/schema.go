package normalizer

import (
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// analysisSchema is the minimal contract a structured payload must meet
// before we trust it over the heuristic parser: an object with an issues
// array of titled objects. Confidence only needs to be an integer; an
// out-of-range value is clamped after parsing rather than rejected, so
// one bad number never dumps an otherwise good payload into the
// heuristic parser.
const analysisSchema = `{
  "type": "object",
  "required": ["issues"],
  "properties": {
    "issues": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title"],
        "properties": {
          "title": {"type": "string"},
          "kind": {"type": "string"},
          "severity": {"type": "string"},
          "line": {"type": "integer"},
          "description": {"type": "string"},
          "suggestion": {"type": "string"}
        }
      }
    },
    "confidence": {"type": "integer"},
    "summary": {"type": "string"}
  }
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(analysisSchema))
		if err != nil {
			schemaErr = err
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("analysis.json", doc); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = compiler.Compile("analysis.json")
	})
	return schema, schemaErr
}

// validPayload reports whether text is JSON conforming to the analysis
// payload schema.
func validPayload(text string) bool {
	sch, err := compiledSchema()
	if err != nil {
		// Schema is a compile-time constant; failure here means a broken
		// build, so fall back to plain JSON parsing downstream.
		return true
	}
	value, err := jsonschema.UnmarshalJSON(strings.NewReader(text))
	if err != nil {
		return false
	}
	return sch.Validate(value) == nil
}
