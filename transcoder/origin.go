package transcoder

import (
	"runtime"
	"strconv"
	"strings"
)

const (
	modulePrefix    = "github.com/wippyai/reql/"
	maxOriginFrames = 8
)

// Origin records where an expression was built, for diagnostics.
type Origin struct {
	Frames []runtime.Frame
}

// Capture records the caller's stack, skipping skip frames above Capture and
// dropping frames that belong to this module (tests excepted).
func Capture(skip int) Origin {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(skip+2, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var o Origin
	for {
		f, more := frames.Next()
		if !internalFrame(f) {
			o.Frames = append(o.Frames, f)
			if len(o.Frames) == maxOriginFrames {
				break
			}
		}
		if !more {
			break
		}
	}
	return o
}

func internalFrame(f runtime.Frame) bool {
	if strings.HasSuffix(f.File, "_test.go") {
		return false
	}
	return strings.HasPrefix(f.Function, modulePrefix) || strings.HasPrefix(f.Function, "runtime.")
}

// String returns "file:line" of the innermost recorded frame.
func (o Origin) String() string {
	if len(o.Frames) == 0 {
		return ""
	}
	f := o.Frames[0]
	return f.File + ":" + strconv.Itoa(f.Line)
}
