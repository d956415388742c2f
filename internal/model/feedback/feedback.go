package feedback

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidShape reports a feedback payload that does not match the declared
// result shape. Callers treat it the same way as a transport failure: the
// result is rejected whole, never rendered partially.
var ErrInvalidShape = errors.New("feedback result does not match expected shape")

// Strength is one thing the candidate did well, backed by a quote.
type Strength struct {
	Point string `json:"point"`
	Quote string `json:"quote"`
}

// Weakness is one area to improve, with the moment it showed and a concrete
// alternative phrasing.
type Weakness struct {
	Point      string `json:"point"`
	Quote      string `json:"quote"`
	Suggestion string `json:"suggestion"`
}

// Result is the structured post-session evaluation.
type Result struct {
	OverallScore int        `json:"overallScore"`
	FinalOffer   string     `json:"finalOffer"`
	TargetSalary string     `json:"targetSalary"`
	Summary      string     `json:"summary"`
	Strengths    []Strength `json:"strengths"`
	Weaknesses   []Weakness `json:"weaknesses"`
	Tips         []string   `json:"tips"`
}

const resultSchema = `{
	"type": "object",
	"required": ["overallScore", "finalOffer", "targetSalary", "summary", "strengths", "weaknesses", "tips"],
	"additionalProperties": true,
	"properties": {
		"overallScore": {"type": "integer", "minimum": 1, "maximum": 10},
		"finalOffer": {"type": "string", "minLength": 1},
		"targetSalary": {"type": "string", "minLength": 1},
		"summary": {"type": "string", "minLength": 1},
		"strengths": {
			"type": "array",
			"minItems": 2,
			"maxItems": 4,
			"items": {
				"type": "object",
				"required": ["point", "quote"],
				"properties": {
					"point": {"type": "string", "minLength": 1},
					"quote": {"type": "string", "minLength": 1}
				}
			}
		},
		"weaknesses": {
			"type": "array",
			"minItems": 2,
			"maxItems": 4,
			"items": {
				"type": "object",
				"required": ["point", "quote", "suggestion"],
				"properties": {
					"point": {"type": "string", "minLength": 1},
					"quote": {"type": "string", "minLength": 1},
					"suggestion": {"type": "string", "minLength": 1}
				}
			}
		},
		"tips": {
			"type": "array",
			"minItems": 3,
			"maxItems": 5,
			"items": {"type": "string", "minLength": 1}
		}
	}
}`

var compiledSchema = gojsonschema.NewStringLoader(resultSchema)

// Parse validates raw JSON against the result schema and decodes it. Any
// violation (missing field, out-of-range score, array length out of bounds)
// yields ErrInvalidShape.
func Parse(raw []byte) (Result, error) {
	validation, err := gojsonschema.Validate(compiledSchema, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidShape, err)
	}
	if !validation.Valid() {
		details := make([]string, 0, len(validation.Errors()))
		for _, desc := range validation.Errors() {
			details = append(details, desc.String())
		}
		return Result{}, fmt.Errorf("%w: %s", ErrInvalidShape, strings.Join(details, "; "))
	}

	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidShape, err)
	}
	return result, nil
}
