package pretty

import (
	"strconv"

	"github.com/wippyai/reql/ql2"
)

// FrameKind distinguishes an index into Args from a key into OptArgs.
type FrameKind uint8

const (
	FramePositional FrameKind = iota
	FrameNamed
)

// Frame is one step of a Path.
type Frame struct {
	Key   string
	Index int
	Kind  FrameKind
}

// Positional returns a step into Args at index i.
func Positional(i int) Frame { return Frame{Kind: FramePositional, Index: i} }

// Named returns a step into the OptArgs entry key.
func Named(key string) Frame { return Frame{Kind: FrameNamed, Key: key} }

func (f Frame) String() string {
	if f.Kind == FrameNamed {
		return strconv.Quote(f.Key)
	}
	return strconv.Itoa(f.Index)
}

// Path locates a node inside a Term tree, root first.
type Path []Frame

// PathFromBacktrace flattens a wire backtrace. A nil backtrace yields an
// empty path.
func PathFromBacktrace(bt *ql2.Backtrace) Path {
	if bt == nil {
		return nil
	}
	p := make(Path, 0, len(bt.Frames))
	for _, f := range bt.Frames {
		if f.Type == ql2.OPT {
			p = append(p, Named(f.Opt))
		} else {
			p = append(p, Positional(int(f.Pos)))
		}
	}
	return p
}

// Strings returns the path as printable steps, for error paths and logs.
func (p Path) Strings() []string {
	out := make([]string, len(p))
	for i, f := range p {
		out[i] = f.String()
	}
	return out
}

// Annotated is a term tree with at most one node marked for highlighting.
type Annotated struct {
	Root   *ql2.Term
	Marked *ql2.Term
}

// Annotate marks the node of root reached by following p. Steps that do not
// resolve stop the walk at the deepest node reached so far. root is not
// modified; callers that keep the result should pass a copy they own.
func Annotate(root *ql2.Term, p Path) *Annotated {
	a := &Annotated{Root: root}
	if root == nil || len(p) == 0 {
		return a
	}
	node := root
	for _, f := range p {
		next := step(node, f)
		if next == nil {
			break
		}
		node = next
	}
	a.Marked = node
	return a
}

func step(t *ql2.Term, f Frame) *ql2.Term {
	switch f.Kind {
	case FrameNamed:
		return t.OptArg(f.Key)
	default:
		if f.Index < 0 || f.Index >= len(t.Args) {
			return nil
		}
		return t.Args[f.Index]
	}
}
