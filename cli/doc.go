// Package cli contains the command line interface for formula.
//
// # Usage
//
//	formula [flags] [eval] FORMULA...
//	formula [flags] parse|tokens FORMULA...
//	formula [flags] ops|init
//
// Formulas are read from the arguments or, when there are none, from each
// non-blank line of the --source files that does not start with '#'.
//
// # Configuration
//
// Global flags may be set in the file named config in the user
// configuration directory, written as an associative array with '_' in
// place of '-' in flag names:
//
//	[
//	  whitespace = true,
//	  log_level = "info"
//	]
//
// The init command writes the current global flags in this form. A JSON
// file named config.json is read as well. Command-line flags override both.
//
// # Profiling
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o formula .
//
// The --pprof-mode flag selects the profile and --pprof-dir its output
// directory.
package cli
