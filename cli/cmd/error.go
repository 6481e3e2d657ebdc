package cmd

import "github.com/ardnew/formula/lang"

// Command errors. Each matches its copies made with Wrap, With, or
// Describe, and unwraps to the underlying cause.
var (
	ErrReadInput   = lang.NewError("read input")
	ErrNoInput     = lang.NewError("no formula given (pass arguments or --source)")
	ErrDataSource  = lang.NewError("load data source")
	ErrDefine      = lang.NewError("define function")
	ErrBind        = lang.NewError("bind variable")
	ErrEvaluate    = lang.NewError("evaluate")
	ErrParse       = lang.NewError("parse")
	ErrMarshal     = lang.NewError("write output")
	ErrWriteConfig = lang.NewError("write configuration file")
	ErrFileExists  = lang.NewError("file exists (use --force to overwrite)")
)
