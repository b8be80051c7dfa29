package knowledge

import (
	"errors"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

const topicsSchema = `{
  "type": "object",
  "required": ["topics"],
  "properties": {
    "topics": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["key", "definition", "keywords"],
        "additionalProperties": false,
        "properties": {
          "key": {"type": "string", "pattern": "^[a-z0-9_]+$"},
          "definition": {"type": "string", "minLength": 1},
          "keywords": {"type": "array", "minItems": 1, "items": {"type": "string", "minLength": 1}},
          "sections": {
            "type": "object",
            "additionalProperties": {
              "oneOf": [
                {"type": "string"},
                {"type": "array", "items": {"type": "string"}}
              ]
            }
          }
        }
      }
    }
  }
}`

const videosSchema = `{
  "type": "object",
  "required": ["videos"],
  "properties": {
    "videos": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "title", "topics", "content"],
        "additionalProperties": false,
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "title": {"type": "string", "minLength": 1},
          "description": {"type": "string"},
          "topics": {"type": "array", "items": {"type": "string", "minLength": 1}},
          "content": {"type": "string", "minLength": 1}
        }
      }
    }
  }
}`

const quizSchema = `{
  "type": "object",
  "required": ["questions"],
  "properties": {
    "questions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "question", "options", "answer", "explanation"],
        "additionalProperties": false,
        "properties": {
          "id": {"type": "integer"},
          "question": {"type": "string", "minLength": 1},
          "options": {"type": "array", "minItems": 4, "maxItems": 4, "items": {"type": "string"}},
          "answer": {"type": "string", "minLength": 1},
          "explanation": {"type": "string"}
        }
      }
    }
  }
}`

const flashcardsSchema = `{
  "type": "object",
  "required": ["flashcards"],
  "properties": {
    "flashcards": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["term", "definition"],
        "additionalProperties": false,
        "properties": {
          "term": {"type": "string", "minLength": 1},
          "definition": {"type": "string", "minLength": 1}
        }
      }
    }
  }
}`

var schemas = map[string]*gojsonschema.Schema{
	kindTopics:     mustSchema(topicsSchema),
	kindVideos:     mustSchema(videosSchema),
	kindQuiz:       mustSchema(quizSchema),
	kindFlashcards: mustSchema(flashcardsSchema),
}

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("compiling content schema: %v", err))
	}
	return s
}

// validateDocument checks a decoded YAML document against the schema for
// its kind and returns one error per violation.
func validateDocument(kind string, doc any) error {
	schema, ok := schemas[kind]
	if !ok {
		return fmt.Errorf("no schema for %s documents", kind)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validating document: %w", err)
	}
	if result.Valid() {
		return nil
	}

	errs := make([]error, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		errs = append(errs, errors.New(re.String()))
	}
	return errors.Join(errs...)
}
