package source

import "github.com/ardnew/formula/lang"

type strict struct{ lang.DataSource }

// Strict wraps src so that a query with no value fails with
// [lang.ErrEmptyResultSet] instead of evaluating to nothing.
func Strict(src lang.DataSource) lang.DataSource {
	if src == nil {
		src = lang.EmptySource{}
	}

	return strict{src}
}

func (s strict) Query(query string) (lang.Object, error) {
	o, err := s.DataSource.Query(query)
	if err != nil {
		return nil, err
	}

	if o == nil {
		return nil, lang.EmptyResultSet(query)
	}

	return o, nil
}
