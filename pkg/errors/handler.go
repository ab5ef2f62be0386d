package errors

import (
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
	"time"
)

// handlerSlot boxes the interface so it can live in an atomic.Pointer.
type handlerSlot struct {
	h ErrorHandler
}

var current atomic.Pointer[handlerSlot]

func init() {
	current.Store(&handlerSlot{h: &LogHandler{}})
}

// SetHandler installs h as the process-wide handler and returns the one it
// replaces. Nil installs a LogHandler writing to slog.Default().
//
//	prev := errors.SetHandler(h)
//	defer errors.SetHandler(prev)
func SetHandler(h ErrorHandler) ErrorHandler {
	if h == nil {
		h = &LogHandler{}
	}
	return current.Swap(&handlerSlot{h: h}).h
}

// Handler returns the process-wide handler.
func Handler() ErrorHandler {
	return current.Load().h
}

// Report sends err to the handler, stamping it if Timestamp is zero.
func Report(err *AnvilError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandleError(err)
}

// ReportError reports an arbitrary error produced by op. Errors joined with
// errors.Join are reported one at a time. Anything that is not already an
// AnvilError is wrapped with the given kind.
func ReportError(op string, kind ErrorKind, err error) {
	switch e := err.(type) {
	case nil:
	case *AnvilError:
		Report(e)
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			ReportError(op, kind, inner)
		}
	default:
		Report(&AnvilError{Op: op, Kind: kind, Err: err})
	}
}

// ReportPanic sends a recovered panic to the handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandlePanic(err)
}

// Recover reports a panic in progress and swallows it. It must be deferred
// directly:
//
//	defer errors.Recover("uithread.Loop")
func Recover(op string) {
	if r := recover(); r != nil {
		ReportPanic(&PanicError{Op: op, Value: r, StackTrace: CaptureStack()})
	}
}

// CaptureStack formats the caller's stack, one "function file:line" pair
// per frame, leaving out runtime internals.
func CaptureStack() string {
	var pcs [32]uintptr
	n := runtime.Callers(2, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var sb strings.Builder
	for {
		f, more := frames.Next()
		if f.Function != "" && !strings.HasPrefix(f.Function, "runtime.") {
			fmt.Fprintf(&sb, "%s\n\t%s:%d\n", f.Function, f.File, f.Line)
		}
		if !more {
			break
		}
	}
	return sb.String()
}
