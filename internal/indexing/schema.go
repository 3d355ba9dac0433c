package indexing

import (
	"errors"
	"fmt"

	"GoTokenize/internal/analysis"
)

// FieldDef describes how a single document field is indexed.
type FieldDef struct {
	Name      string `json:"name" yaml:"name"`
	Tokenizer string `json:"tokenizer,omitempty" yaml:"tokenizer,omitempty"`
	Stored    bool   `json:"stored" yaml:"stored"`
	Positions bool   `json:"positions" yaml:"positions"`
}

// Schema lists the indexed fields of a document.
type Schema struct {
	DefaultTokenizer string     `json:"default_tokenizer" yaml:"default_tokenizer"`
	Fields           []FieldDef `json:"fields" yaml:"fields"`
}

// Field returns the definition of the named field.
func (s *Schema) Field(name string) (FieldDef, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDef{}, false
}

// TokenizerFor returns the tokenizer name used for a field.
func (s *Schema) TokenizerFor(f FieldDef) string {
	if f.Tokenizer != "" {
		return f.Tokenizer
	}
	if s.DefaultTokenizer != "" {
		return s.DefaultTokenizer
	}
	return analysis.DefaultName
}

// Validate checks field names and that every tokenizer resolves in registry.
func (s *Schema) Validate(registry *analysis.Registry) error {
	if len(s.Fields) == 0 {
		return errors.New("schema must define at least one field")
	}
	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name == "" {
			return errors.New("field name must not be empty")
		}
		if seen[f.Name] {
			return fmt.Errorf("duplicate field %q", f.Name)
		}
		seen[f.Name] = true
		if _, err := registry.Get(s.TokenizerFor(f)); err != nil {
			return fmt.Errorf("field %q: %w", f.Name, err)
		}
	}
	return nil
}
