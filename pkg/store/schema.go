package store

import (
	"fmt"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// documentSchema describes the persisted collection. Legacy keys are listed
// so that old documents validate; unknown keys are tolerated.
const documentSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["title"],
    "properties": {
      "title":       {"type": "string"},
      "description": {"type": ["string", "null"]},
      "category":    {"type": ["string", "null"]},
      "completed":   {"type": "boolean"},
      "createdAt":   {"type": "string"},
      "created_at":  {"type": "string"},
      "deadline":    {"type": ["string", "null"]},
      "order":       {"type": "integer"},
      "checklist": {
        "type": ["array", "null"],
        "items": {
          "type": "object",
          "properties": {
            "text":  {"type": "string"},
            "item":  {"type": "string"},
            "done":  {"type": "boolean"},
            "order": {"type": "integer"}
          }
        }
      }
    }
  }
}`

var schema = jsonschema.MustCompileString("tasklist://tasks.schema.json", documentSchema)

// validateDocument checks a decoded JSON value against the document schema
// and flattens the first leaf cause into a readable path.
func validateDocument(v interface{}) error {
	err := schema.Validate(v)
	if err == nil {
		return nil
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	if path := jsonPointerToPath(ve.InstanceLocation); path != "" {
		return fmt.Errorf("%s: %s", path, ve.Message)
	}
	return fmt.Errorf("%s", ve.Message)
}

func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
