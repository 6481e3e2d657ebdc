package source

import "github.com/ardnew/formula/lang"

// Predefined errors (sentinel values).
var (
	ErrInvalidQuery = lang.NewError("invalid query")
	ErrLoad         = lang.NewError("load data")
)
