// Package source provides [lang.DataSource] implementations that resolve
// the query text of formula address literals.
//
// Each source reports a miss with a nil Object and nil error, so {query}
// evaluates to nothing. Wrap a source with [Strict] to turn a miss into
// [lang.ErrEmptyResultSet], or combine several with [Chain].
package source
