// Package identity assigns per-process labels to values that are compared by
// reference rather than by content: functions and opaque instances.
//
// A label has the form "<kind> <name>_<token>", for example
//
//	function handleRequest_1739612345678901234
//	instance File_1739612349876543210
//
// where kind is "function" or "instance", name is the function's declared
// name or the instance's type name, and token is the Unix time in
// milliseconds plus a random integer below 2^52. The first lookup of a
// reference allocates its label; later lookups of the same reference return
// it unchanged, and a different reference always gets a different label even
// when the two are otherwise indistinguishable. Labels are not stable across
// processes.
//
// # Retention
//
// The registry keeps every labelled reference reachable. Weak pointers in Go
// cannot be made for statically allocated objects such as top-level
// functions, so the registry pins its referents instead, which also rules
// out a freed address being recycled under an old label. Memory therefore
// grows with the number of distinct references labelled. Long-running callers
// bound it by calling Reset at a scope boundary, or by giving each scope its
// own Registry.
//
// # Concurrency
//
// A Registry is safe for concurrent use. Lookup and allocation happen in one
// critical section, so two goroutines racing on the first encounter of a
// reference observe the same label.
package identity
