package question

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "schema://generated-question.json"

// questionSchema is the contract a model reply must meet before it is
// accepted as a Question.
const questionSchema = `{
  "type": "object",
  "required": ["question", "options", "correctAnswer"],
  "properties": {
    "question": {"type": "string", "pattern": "\\S"},
    "options": {
      "type": "array",
      "minItems": 4,
      "maxItems": 4,
      "items": {"type": "string", "pattern": "\\S"}
    },
    "correctAnswer": {"type": "string", "pattern": "^\\s*[A-Da-d]\\s*$"}
  }
}`

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(questionSchema))
		if err != nil {
			compileErr = fmt.Errorf("parse question schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add question schema: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// validateDocument checks an extracted JSON candidate against the schema.
func validateDocument(candidate string) error {
	var doc any
	if err := json.Unmarshal([]byte(candidate), &doc); err != nil {
		return fmt.Errorf("%w: invalid JSON: %v", ErrMalformed, err)
	}

	s, err := schema()
	if err != nil {
		return err
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}
