package schema

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed questionnaire.schema.json
var questionnaireSchema []byte

// SchemaURL is the resource id of the embedded questionnaire schema.
const SchemaURL = "https://maturity.local/questionnaire.schema.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error

	printer = message.NewPrinter(language.English)
)

// Raw returns the embedded JSON Schema of the questionnaire document.
func Raw() []byte {
	return questionnaireSchema
}

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(questionnaireSchema))
		if err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(SchemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(SchemaURL)
	})
	return compiled, compileErr
}

// ValidateDocument checks a decoded JSON value (maps, slices, float64/json.Number)
// against the questionnaire schema. Failures are returned as an *AggregateError,
// one ValidationError per offending location.
func ValidateDocument(doc any) error {
	sch, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile questionnaire schema: %w", err)
	}

	err = sch.Validate(doc)
	if err == nil {
		return nil
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err
	}

	aggr := &AggregateError{}
	collectLeaves(ve, aggr)
	return aggr.ErrOrNil()
}

func collectLeaves(ve *jsonschema.ValidationError, aggr *AggregateError) {
	if len(ve.Causes) == 0 {
		aggr.Add(pointerKey(ve.InstanceLocation), ve.ErrorKind.LocalizedString(printer), nil)
		return
	}
	for _, c := range ve.Causes {
		collectLeaves(c, aggr)
	}
}

// pointerKey renders an instance location in the dotted form used across the loader.
func pointerKey(tokens []string) string {
	if len(tokens) == 0 {
		return "(root)"
	}
	var sb strings.Builder
	for i, tok := range tokens {
		if isIndex(tok) {
			sb.WriteString("[" + tok + "]")
			continue
		}
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(tok)
	}
	return sb.String()
}

func isIndex(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
