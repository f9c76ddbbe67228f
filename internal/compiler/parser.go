package compiler

import (
	"bytes"
	"errors"
	"io"

	"github.com/aretw0/turing/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Parser is responsible for converting raw description text into a Machine.
// It holds no state and is safe for concurrent use.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse runs the full loading pipeline: structural parse, validation, normalization.
// It returns either a complete Machine or a *domain.ParseError, never both.
func (p *Parser) Parse(data []byte) (*domain.Machine, error) {
	root, err := decode(data)
	if err != nil {
		return nil, err
	}
	doc, err := validate(root)
	if err != nil {
		return nil, err
	}
	return normalize(doc)
}

// Parse is a convenience wrapper around a zero Parser.
func Parse(data []byte) (*domain.Machine, error) {
	return NewParser().Parse(data)
}

// decode deserializes YAML into a generic tree of scalars, sequences and mappings.
// Only the first document of a multi-document stream is considered.
func decode(data []byte) (any, error) {
	var root any
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, domain.Malformed(err)
	}
	return root, nil
}
