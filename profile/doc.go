// Package profile provides optional runtime profiling for the infix command.
//
// Profiling is wired through [github.com/pkg/profile] and is compiled in only
// when building with the pprof tag:
//
//	go build -tags pprof .
//
// Without the tag, [Config.Start] returns a no-op and [Modes] is empty, so the
// command accepts no --pprof-mode values.
//
// # Modes
//
//   - allocs:    memory allocation profiling (all allocations)
//   - block:     synchronization blocking
//   - clock:     wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: goroutine stacks
//   - heap:      live heap allocations
//   - mem:       general memory profiling
//   - mutex:     mutex contention
//   - thread:    thread creation
//   - trace:     execution trace
//
// A compile-heavy workload is a good candidate for a CPU profile:
//
//	infix --pprof-mode=cpu check exprs.txt
//	go tool pprof -http=: ~/.cache/infix/pprof/cpu.pprof
//
// Profiles are written under the cache directory unless --pprof-dir is set.
// The pprof build also registers the [net/http/pprof] handlers.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
