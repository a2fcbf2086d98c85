package quiz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// SupportedFormat is the bank file format major version this build reads.
const SupportedFormat = "v1"

// bankFile mirrors the YAML layout of a bank file.
type bankFile struct {
	Format       string           `yaml:"format"`
	Name         string           `yaml:"name"`
	Budget       int              `yaml:"budget"`
	MistakeLimit int              `yaml:"mistake_limit"`
	Lessons      bool             `yaml:"lessons"`
	FailureHint  string           `yaml:"failure_hint"`
	Modules      []bankFileModule `yaml:"modules"`
}

type bankFileModule struct {
	ID        string             `yaml:"id"`
	Title     string             `yaml:"title"`
	Submit    string             `yaml:"submit"`
	Hint      string             `yaml:"hint"`
	Questions []bankFileQuestion `yaml:"questions"`
}

type bankFileQuestion struct {
	ID      string           `yaml:"id"`
	Prompt  string           `yaml:"prompt"`
	Kind    string           `yaml:"kind"`
	Options []bankFileOption `yaml:"options"`
	Fields  []bankFileField  `yaml:"fields"`
}

type bankFileOption struct {
	ID      string `yaml:"id"`
	Label   string `yaml:"label"`
	Correct bool   `yaml:"correct"`
}

type bankFileField struct {
	ID          string `yaml:"id"`
	Label       string `yaml:"label"`
	Placeholder string `yaml:"placeholder"`
}

// bankSchema is the JSON Schema every bank file must satisfy before it is
// decoded into a Bank.
var bankSchema = map[string]any{
	"type":     "object",
	"required": []any{"format", "name", "budget", "modules"},
	"properties": map[string]any{
		"format":        map[string]any{"type": "string", "pattern": "^v[0-9]+(\\.[0-9]+){0,2}$"},
		"name":          map[string]any{"type": "string", "minLength": 1},
		"budget":        map[string]any{"type": "integer", "minimum": 1},
		"mistake_limit": map[string]any{"type": "integer", "minimum": 0},
		"lessons":       map[string]any{"type": "boolean"},
		"failure_hint":  map[string]any{"type": "string"},
		"modules": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type":     "object",
				"required": []any{"id", "questions"},
				"properties": map[string]any{
					"id":     map[string]any{"type": "string", "minLength": 1},
					"title":  map[string]any{"type": "string"},
					"submit": map[string]any{"type": "string"},
					"hint":   map[string]any{"type": "string"},
					"questions": map[string]any{
						"type":     "array",
						"minItems": 1,
						"items": map[string]any{
							"type":     "object",
							"required": []any{"id", "prompt", "kind"},
							"properties": map[string]any{
								"id":     map[string]any{"type": "string", "minLength": 1},
								"prompt": map[string]any{"type": "string", "minLength": 1},
								"kind":   map[string]any{"enum": []any{"single", "multi", "text"}},
								"options": map[string]any{
									"type": "array",
									"items": map[string]any{
										"type":     "object",
										"required": []any{"id", "label"},
										"properties": map[string]any{
											"id":      map[string]any{"type": "string", "minLength": 1},
											"label":   map[string]any{"type": "string"},
											"correct": map[string]any{"type": "boolean"},
										},
									},
								},
								"fields": map[string]any{
									"type": "array",
									"items": map[string]any{
										"type":     "object",
										"required": []any{"id"},
										"properties": map[string]any{
											"id":          map[string]any{"type": "string", "minLength": 1},
											"label":       map[string]any{"type": "string"},
											"placeholder": map[string]any{"type": "string"},
										},
									},
								},
							},
						},
					},
				},
			},
		},
	},
}

var compiledBankSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	raw, err := json.Marshal(bankSchema)
	if err != nil {
		return nil, fmt.Errorf("marshal bank schema: %w", err)
	}
	def, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse bank schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	const url = "schema://quiz-bank.json"
	if err := c.AddResource(url, def); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(url)
})

// LoadBankFile reads a YAML bank file from disk.
func LoadBankFile(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bank file: %w", err)
	}
	b, err := ParseBank(data)
	if err != nil {
		return nil, fmt.Errorf("bank file %s: %w", path, err)
	}
	return b, nil
}

// ParseBank decodes and schema-validates a YAML bank document. Structural
// quiz checks are left to Bank.Validate.
func ParseBank(data []byte) (*Bank, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	// Round-trip through JSON so the validator sees plain JSON values.
	jsonBytes, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("convert to json: %w", err)
	}
	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonBytes))
	if err != nil {
		return nil, fmt.Errorf("convert to json: %w", err)
	}

	schema, err := compiledBankSchema()
	if err != nil {
		return nil, fmt.Errorf("compile bank schema: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var f bankFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode bank: %w", err)
	}

	if !semver.IsValid(f.Format) {
		return nil, fmt.Errorf("invalid format version %q", f.Format)
	}
	if major := semver.Major(f.Format); major != SupportedFormat {
		return nil, fmt.Errorf("unsupported format %s (want %s.x)", major, SupportedFormat)
	}

	return f.toBank(), nil
}

func (f bankFile) toBank() *Bank {
	quizzes := make([]ModuleQuiz, 0, len(f.Modules))
	for _, m := range f.Modules {
		q := ModuleQuiz{
			ModuleID:    m.ID,
			Title:       m.Title,
			SubmitLabel: m.Submit,
			FailureHint: m.Hint,
		}
		for _, fq := range m.Questions {
			question := Question{ID: fq.ID, Prompt: fq.Prompt, Kind: Kind(fq.Kind)}
			for _, o := range fq.Options {
				question.Options = append(question.Options, Option(o))
			}
			for _, fld := range fq.Fields {
				question.Fields = append(question.Fields, Field(fld))
			}
			q.Questions = append(q.Questions, question)
		}
		quizzes = append(quizzes, q)
	}

	b := NewBank(f.Name, f.Budget, f.MistakeLimit, quizzes...)
	b.Lessons = f.Lessons
	if f.FailureHint != "" {
		b.FailureHint = f.FailureHint
	}
	return b
}
