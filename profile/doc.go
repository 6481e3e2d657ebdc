// Package profile provides optional runtime profiling for the formula
// command.
//
// Profiling wraps [github.com/pkg/profile] and is compiled in only with the
// "pprof" build tag:
//
//	go build -tags pprof -o formula .
//	./formula --pprof-mode=cpu eval '2^10'
//
// Without the tag, [Settings.Start] returns a no-op and [Modes] is empty.
//
// Supported modes: allocs, block, clock, cpu, goroutine, heap, mem, mutex,
// thread, and trace. Profiles are written to the configured directory,
// $XDG_CACHE_HOME/formula/pprof by default, and read with go tool pprof:
//
//	go tool pprof -http=: ~/.cache/formula/pprof/cpu.pprof
//
// The tagged build also imports [net/http/pprof], registering its handlers
// on [net/http.DefaultServeMux] for hosts that serve it.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
