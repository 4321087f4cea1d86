package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Parser turns the bytes of one table file into rows of string fields.
type Parser interface {
	CanParse(filename string) bool
	Parse(content []byte) ([][]string, error)
}

var registry []Parser

// Register adds a parser implementation to the registry.
func Register(p Parser) {
	registry = append(registry, p)
}

// ForName returns the first registered parser that accepts filename.
func ForName(filename string) (Parser, bool) {
	for _, p := range registry {
		if p.CanParse(filename) {
			return p, true
		}
	}
	return nil, false
}

// Supported reports whether some parser accepts filename.
func Supported(filename string) bool {
	_, ok := ForName(filename)
	return ok
}

// ParseFile reads path and parses it with the parser its name selects.
func ParseFile(path string) ([][]string, error) {
	p, ok := ForName(filepath.Base(path))
	if !ok {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupported)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	rows, err := p.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

func init() {
	Register(csvParser{comma: ',', suffixes: []string{".csv"}})
	Register(csvParser{comma: '\t', suffixes: []string{".tsv", ".tab"}})
	Register(xlsxParser{})
}

// ErrUnsupported indicates a table format is not supported.
var ErrUnsupported = errors.New("unsupported table format")
