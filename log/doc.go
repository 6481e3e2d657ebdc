// Package log provides a concurrency-safe leveled logger built on
// [log/slog].
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("evaluated", slog.String("source", src))
//	logger.Error("evaluation failed", slog.Any("error", err))
//
// The zero [Logger] discards everything, so packages can hold one in a
// struct field and log unconditionally.
//
// # Configuration
//
// Loggers are configured with functional options when created:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithTimeLayout("Kitchen"),
//		log.WithCaller(true),
//		log.WithPretty(true))
//
// [Logger.Wrap] derives a logger with some options changed. The
// package-level logger used by [Info], [Error], and friends is changed with
// [Config] or replaced with [SetDefault].
//
// # Levels
//
// [LevelTrace] sits below [slog.LevelDebug] and is used for per-call
// diagnostics such as parse cache lookups.
//
// # Output Formats
//
// Records are written as [FormatText] (default) or [FormatJSON]. With
// [WithPretty], both are styled with lipgloss; styles degrade to plain text
// when the output is not a color terminal.
//
// # Context
//
// Each level has a context-aware variant. The variants without a context
// use [DefaultContextProvider], which returns [context.TODO].
package log
