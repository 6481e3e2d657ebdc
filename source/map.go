package source

import (
	"log/slog"

	"github.com/ardnew/formula/lang"
)

// Map is a static dictionary. The query is used verbatim as a key.
//
// Values are converted with [lang.FromGo] on each query.
type Map map[string]any

// Query returns the value stored under query.
func (m Map) Query(query string) (lang.Object, error) {
	v, ok := m[query]
	if !ok {
		return nil, nil
	}

	o, ok := lang.FromGo(v)
	if !ok {
		return nil, lang.ErrConversionFailed.Describe(query).
			With(slog.String("query", query))
	}

	return o, nil
}
