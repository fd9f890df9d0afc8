package compiler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/maturity/internal/dto"
	"github.com/aretw0/maturity/internal/validator"
	"github.com/aretw0/maturity/pkg/domain"
	"github.com/aretw0/maturity/pkg/schema"
	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a questionnaire document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath infers the document format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported questionnaire format %q", filepath.Ext(path))
	}
}

// Parser converts raw documents into validated questionnaires.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes data in the given format and compiles it.
func (p *Parser) Parse(data []byte, format Format) (*domain.Questionnaire, error) {
	raw, order, err := decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse questionnaire: %w", err)
	}
	return p.Compile(raw, order)
}

// Compile validates a generic document (maps and slices, as produced by any
// JSON/YAML/TOML/frontmatter decoder) and converts it into the domain model.
// order lists question ids in declaration order; missing ids are appended sorted.
func (p *Parser) Compile(raw any, order []string) (*domain.Questionnaire, error) {
	// Round-trip through JSON so every source reaches the schema with the same
	// value types (json.Number, map[string]any, []any).
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize questionnaire: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to normalize questionnaire: %w", err)
	}

	if err := schema.ValidateDocument(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrQuestionnaireInvalid, err)
	}

	var wire dto.Document
	if err := Decode(doc, &wire); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrQuestionnaireInvalid, err)
	}

	q, err := Convert(&wire, order)
	if err != nil {
		return nil, err
	}
	if err := validator.Validate(q); err != nil {
		return nil, err
	}
	return q, nil
}

// Decode maps a generic value onto a dto struct using mapstructure tags.
func Decode(input any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// Convert turns the wire document into the domain model.
func Convert(doc *dto.Document, order []string) (*domain.Questionnaire, error) {
	aggr := &schema.AggregateError{}

	q := &domain.Questionnaire{
		Metadata: domain.Metadata{
			EntryQuestionID: domain.QuestionID(doc.Metadata.EntryQuestionID),
			Title:           doc.Metadata.Title,
			Description:     doc.Metadata.Description,
			Version:         doc.Metadata.Version,
		},
		Questions: make(map[domain.QuestionID]*domain.Question, len(doc.Questions)),
		Levels: domain.Levels{
			Pillar:       convertBands(doc.Levels.Pillar),
			Global:       convertBands(doc.Levels.Global),
			Descriptions: make(map[domain.LevelID]string, len(doc.Levels.Descriptions)),
		},
		Recommendations: domain.Recommendations{
			ByPillarLevel: make(map[domain.PillarID]map[domain.LevelID][]string, len(doc.Recommendations.ByPillarLevel)),
			ByTag:         make(map[string][]string, len(doc.Recommendations.ByTag)),
			TagPillars:    make(map[string]domain.PillarID, len(doc.Recommendations.TagPillars)),
		},
	}

	for _, p := range doc.Pillars {
		weight := 1.0
		if p.Weight != nil {
			weight = *p.Weight
		}
		q.Pillars = append(q.Pillars, domain.Pillar{
			ID:     domain.PillarID(p.ID),
			Name:   p.Name,
			Icon:   p.Icon,
			Weight: weight,
		})
	}

	for key, wq := range doc.Questions {
		if wq.ID != "" && wq.ID != key {
			aggr.Add("questions."+key+".id", "does not match its key", wq.ID)
		}
		qq := &domain.Question{
			ID:       domain.QuestionID(key),
			Text:     wq.Text,
			Help:     wq.Help,
			PillarID: domain.PillarID(wq.PillarID),
			Options:  make([]domain.Option, 0, len(wq.Options)),
		}
		for _, o := range wq.Options {
			qq.Options = append(qq.Options, domain.Option{
				ID:             domain.OptionID(o.ID),
				Label:          o.Label,
				Score:          o.Score,
				Tags:           o.Tags,
				NextQuestionID: domain.QuestionID(o.NextQuestionID),
			})
		}
		q.Questions[qq.ID] = qq
	}
	q.Order = resolveOrder(order, doc.Questions)

	for k, v := range doc.Levels.Descriptions {
		q.Levels.Descriptions[domain.LevelID(k)] = v
	}
	for pid, byLevel := range doc.Recommendations.ByPillarLevel {
		m := make(map[domain.LevelID][]string, len(byLevel))
		for lid, texts := range byLevel {
			m[domain.LevelID(lid)] = texts
		}
		q.Recommendations.ByPillarLevel[domain.PillarID(pid)] = m
	}
	for tag, texts := range doc.Recommendations.ByTag {
		q.Recommendations.ByTag[tag] = texts
	}
	for tag, pid := range doc.Recommendations.TagPillars {
		q.Recommendations.TagPillars[tag] = domain.PillarID(pid)
	}

	if err := aggr.ErrOrNil(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrQuestionnaireInvalid, err)
	}
	return q, nil
}

func convertBands(in []dto.LevelBand) []domain.LevelBand {
	out := make([]domain.LevelBand, 0, len(in))
	for _, b := range in {
		label := b.Label
		if label == "" {
			label = b.ID
		}
		out = append(out, domain.LevelBand{
			ID:       domain.LevelID(b.ID),
			Label:    label,
			MinScore: b.MinScore,
			MaxScore: b.MaxScore,
		})
	}
	return out
}

func resolveOrder(order []string, questions map[string]dto.Question) []domain.QuestionID {
	out := make([]domain.QuestionID, 0, len(questions))
	seen := make(map[string]bool, len(questions))
	for _, id := range order {
		if _, ok := questions[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, domain.QuestionID(id))
		}
	}
	var rest []string
	for id := range questions {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	for _, id := range rest {
		out = append(out, domain.QuestionID(id))
	}
	return out
}

// decode reads a document into a generic value plus the declaration order of its questions.
func decode(data []byte, format Format) (any, []string, error) {
	var raw any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, nil, err
		}
		order, err := jsonQuestionOrder(data)
		return raw, order, err
	case FormatYAML:
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, nil, err
		}
		if err := node.Decode(&raw); err != nil {
			return nil, nil, err
		}
		return raw, yamlQuestionOrder(&node), nil
	case FormatTOML:
		// go-toml decodes tables into maps without key order; ids are sorted instead.
		var m map[string]any
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, nil, err
		}
		return m, nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported questionnaire format %q", format)
	}
}

var errNotObject = errors.New("document root must be an object")

// jsonQuestionOrder streams the top-level object and returns the keys of "questions"
// in document order. Duplicate question ids are rejected since encoding/json would
// silently keep the last one.
func jsonQuestionOrder(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, errNotObject
	}
	var order []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		if key != "questions" {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, err
			}
			continue
		}
		if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
			// Not an object; schema validation reports the type mismatch.
			return nil, nil
		}
		seen := make(map[string]bool)
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			id, _ := tok.(string)
			if seen[id] {
				return nil, fmt.Errorf("%w: duplicate question id %q", domain.ErrQuestionnaireInvalid, id)
			}
			seen[id] = true
			order = append(order, id)
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, err
			}
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// yamlQuestionOrder reads the keys of the "questions" mapping in document order.
// yaml.v3 already rejects duplicate keys.
func yamlQuestionOrder(node *yaml.Node) []string {
	root := node
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "questions" {
			continue
		}
		questions := root.Content[i+1]
		if questions.Kind != yaml.MappingNode {
			return nil
		}
		order := make([]string, 0, len(questions.Content)/2)
		for j := 0; j+1 < len(questions.Content); j += 2 {
			order = append(order, questions.Content[j].Value)
		}
		return order
	}
	return nil
}
