package source

import (
	"log/slog"

	"github.com/ardnew/formula/lang"
)

// Chain queries its sources in order and returns the first value found.
// Nil entries are skipped.
type Chain []lang.DataSource

// Query returns the first non-nil result. An error from any source stops
// the chain.
func (c Chain) Query(query string) (lang.Object, error) {
	for i, src := range c {
		if src == nil {
			continue
		}

		o, err := src.Query(query)
		if err != nil {
			return nil, lang.WrapError(err).With(slog.Int("source", i))
		}

		if o != nil {
			return o, nil
		}
	}

	return nil, nil
}
