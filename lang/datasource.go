package lang

// DataSource resolves the query text of address literals.
//
// Query returns a nil Object and a nil error when the query has no value;
// the address then evaluates to [Nothing]. A non-nil error aborts the
// evaluation and is returned to the caller unchanged.
type DataSource interface {
	Query(query string) (Object, error)
}

// SourceFunc adapts an ordinary function to a [DataSource].
type SourceFunc func(query string) (Object, error)

// Query calls f(query).
func (f SourceFunc) Query(query string) (Object, error) { return f(query) }

// EmptySource is a [DataSource] with no values.
type EmptySource struct{}

// Query always reports no value.
func (EmptySource) Query(string) (Object, error) { return nil, nil }
