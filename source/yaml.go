package source

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"

	"github.com/ardnew/formula/lang"
)

// YAML resolves queries as YAMLPath expressions against a parsed document.
//
// The root selector is implied, so "a.b[0]", "$.a.b[0]" and "[0]" are all
// accepted. Compiled paths are kept for the lifetime of the source.
type YAML struct {
	file  *ast.File
	paths sync.Map // query → *yaml.Path
}

// NewYAML parses data as a YAML document.
func NewYAML(data []byte) (*YAML, error) {
	file, err := parser.ParseBytes(data, 0)
	if err != nil {
		return nil, ErrLoad.Wrap(err)
	}

	return &YAML{file: file}, nil
}

// ReadYAML parses a YAML document read from r.
func ReadYAML(r io.Reader) (*YAML, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrLoad.Wrap(err)
	}

	return NewYAML(data)
}

// LoadYAML parses the YAML document at path.
func LoadYAML(path string) (*YAML, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrLoad.Wrap(err).With(slog.String("path", path))
	}

	y, err := NewYAML(data)
	if err != nil {
		return nil, lang.WrapError(err).With(slog.String("path", path))
	}

	return y, nil
}

// Query returns the node selected by the YAMLPath query.
// Missing keys and out-of-range indices are misses.
func (y *YAML) Query(query string) (lang.Object, error) {
	path, err := y.path(query)
	if err != nil {
		return nil, err
	}

	node, err := path.FilterFile(y.file)
	if err != nil {
		if errors.Is(err, yaml.ErrNotFoundNode) || errors.Is(err, yaml.ErrInvalidQuery) {
			return nil, nil
		}

		return nil, ErrInvalidQuery.Wrap(err).With(slog.String("query", query))
	}

	var v any
	if err := yaml.NodeToValue(node, &v); err != nil {
		return nil, lang.ErrConversionFailed.Describe(query).Wrap(err)
	}

	o, ok := lang.FromGo(v)
	if !ok {
		return nil, lang.ErrConversionFailed.Describe(query)
	}

	return o, nil
}

func (y *YAML) path(query string) (*yaml.Path, error) {
	if p, ok := y.paths.Load(query); ok {
		return p.(*yaml.Path), nil
	}

	p, err := yaml.PathString(yamlPath(query))
	if err != nil {
		return nil, ErrInvalidQuery.Wrap(err).With(slog.String("query", query))
	}

	actual, _ := y.paths.LoadOrStore(query, p)

	return actual.(*yaml.Path), nil
}

// yamlPath prefixes query with the root selector when it has none.
func yamlPath(query string) string {
	switch {
	case query == "" || query == "$":
		return "$"
	case strings.HasPrefix(query, "$"):
		return query
	case strings.HasPrefix(query, "["):
		return "$" + query
	default:
		return "$." + query
	}
}
