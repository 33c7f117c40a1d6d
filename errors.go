package bloomfwd

import "fmt"

// FatalError reports a build-time condition the core treats as fatal:
// an invalid prefix, or a prefix whose class was never sized by the
// distribution manifest. The core never attempts graceful degradation
// for these; it is up to the caller (typically cmd/bloomfwd) to turn a
// returned FatalError into a diagnostic and a process exit code.
type FatalError struct {
	Op     string // "size", "store_prefix", "finalize", "lookup"
	Detail string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("bloomfwd: %s: %s", e.Op, e.Detail)
}

func fatalf(op, format string, args ...any) *FatalError {
	return &FatalError{Op: op, Detail: fmt.Sprintf(format, args...)}
}

// errNotQueriable is returned by LookupAddress/LookupBatch when called
// before the table has reached the queriable lifecycle state. Per the
// design, looking up an un-built table is a fatal programmer error,
// not a recoverable one; callers that reach this have skipped
// Finalize, a build-sequencing bug to fix, not data to retry.
var errNotQueriable = &FatalError{Op: "lookup", Detail: "table has not been finalized into the queriable state"}
