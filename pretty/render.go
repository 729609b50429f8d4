package pretty

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/wippyai/reql/ql2"
)

// topLevel terms print as r.method(...) rather than as a method chain.
var topLevel = map[ql2.TermType]bool{
	ql2.DB:         true,
	ql2.DB_CREATE:  true,
	ql2.DB_DROP:    true,
	ql2.DB_LIST:    true,
	ql2.JAVASCRIPT: true,
	ql2.ERROR:      true,
	ql2.BRANCH:     true,
	ql2.JSON:       true,
	ql2.FUNCALL:    true,
}

// Render prints the annotated term, followed by a caret line under the
// marked node when one is set.
func Render(a *Annotated) string {
	return RenderStyled(a, nil)
}

// RenderStyled is Render with style applied to the marked span. A nil style
// leaves the text plain.
func RenderStyled(a *Annotated, style func(string) string) string {
	if a == nil || a.Root == nil {
		return ""
	}
	p := &printer{marked: a.Marked, start: -1}
	p.term(a.Root)
	text := p.b.String()
	if p.start < 0 {
		return text
	}

	before, span, after := text[:p.start], text[p.start:p.end], text[p.end:]
	var out strings.Builder
	out.WriteString(before)
	if style != nil {
		out.WriteString(style(span))
	} else {
		out.WriteString(span)
	}
	out.WriteString(after)
	out.WriteByte('\n')
	out.WriteString(strings.Repeat(" ", utf8.RuneCountInString(before)))
	out.WriteString(strings.Repeat("^", max(1, utf8.RuneCountInString(span))))
	return out.String()
}

// Term renders t without highlighting.
func Term(t *ql2.Term) string {
	return Render(&Annotated{Root: t})
}

type printer struct {
	marked *ql2.Term
	b      strings.Builder
	start  int
	end    int
}

func (p *printer) term(t *ql2.Term) {
	if t == nil {
		p.b.WriteString("nil")
		return
	}
	mark := t == p.marked
	if mark {
		p.start = p.b.Len()
	}
	p.body(t)
	if mark {
		p.end = p.b.Len()
	}
}

func (p *printer) body(t *ql2.Term) {
	switch t.Type {
	case ql2.DATUM:
		p.datum(t.Datum)
	case ql2.MAKE_ARRAY:
		p.b.WriteByte('[')
		p.list(t.Args)
		p.b.WriteByte(']')
	case ql2.MAKE_OBJ:
		p.b.WriteByte('{')
		for i, kv := range t.OptArgs {
			if i > 0 {
				p.b.WriteString(", ")
			}
			p.b.WriteString(strconv.Quote(kv.Key))
			p.b.WriteString(": ")
			p.term(kv.Val)
		}
		p.b.WriteByte('}')
	case ql2.VAR:
		p.varName(t)
	case ql2.IMPLICIT_VAR:
		p.b.WriteString("r.row")
	case ql2.FUNC:
		p.fn(t)
	case ql2.TABLE:
		if len(t.Args) == 1 {
			p.call("r", t)
			return
		}
		p.chain(t)
	default:
		if topLevel[t.Type] || len(t.Args) == 0 {
			p.call("r", t)
			return
		}
		p.chain(t)
	}
}

// chain prints args[0].method(args[1:]..., optargs...).
func (p *printer) chain(t *ql2.Term) {
	p.term(t.Args[0])
	p.b.WriteByte('.')
	p.b.WriteString(t.Type.Method())
	p.b.WriteByte('(')
	p.arguments(t.Args[1:], t.OptArgs)
	p.b.WriteByte(')')
}

func (p *printer) call(recv string, t *ql2.Term) {
	p.b.WriteString(recv)
	p.b.WriteByte('.')
	p.b.WriteString(t.Type.Method())
	p.b.WriteByte('(')
	p.arguments(t.Args, t.OptArgs)
	p.b.WriteByte(')')
}

func (p *printer) arguments(args []*ql2.Term, opts []ql2.TermPair) {
	p.list(args)
	for i, kv := range opts {
		if i > 0 || len(args) > 0 {
			p.b.WriteString(", ")
		}
		p.b.WriteString(kv.Key)
		p.b.WriteString(": ")
		p.term(kv.Val)
	}
}

func (p *printer) list(args []*ql2.Term) {
	for i, a := range args {
		if i > 0 {
			p.b.WriteString(", ")
		}
		p.term(a)
	}
}

func (p *printer) varName(t *ql2.Term) {
	if len(t.Args) == 1 && t.Args[0].Type == ql2.DATUM && t.Args[0].Datum != nil {
		p.b.WriteString("var_")
		p.b.WriteString(strconv.FormatFloat(t.Args[0].Datum.Num, 'f', -1, 64))
		return
	}
	p.call("r", t)
}

// fn prints FUNC(MAKE_ARRAY(ids...), body) as func(var_1, var_2) { body }.
func (p *printer) fn(t *ql2.Term) {
	if len(t.Args) != 2 {
		p.call("r", t)
		return
	}
	p.b.WriteString("func(")
	params := t.Args[0]
	var ids []*ql2.Term
	if params != nil && params.Type == ql2.MAKE_ARRAY {
		ids = params.Args
	}
	for i, id := range ids {
		if i > 0 {
			p.b.WriteString(", ")
		}
		if id.Type == ql2.DATUM && id.Datum != nil {
			p.b.WriteString("var_")
			p.b.WriteString(strconv.FormatFloat(id.Datum.Num, 'f', -1, 64))
		} else {
			p.term(id)
		}
	}
	p.b.WriteString(") { ")
	p.term(t.Args[1])
	p.b.WriteString(" }")
}

func (p *printer) datum(d *ql2.Datum) {
	if d == nil {
		p.b.WriteString("nil")
		return
	}
	switch d.Type {
	case ql2.R_NULL:
		p.b.WriteString("nil")
	case ql2.R_BOOL:
		p.b.WriteString(strconv.FormatBool(d.Bool))
	case ql2.R_NUM:
		p.b.WriteString(strconv.FormatFloat(d.Num, 'g', -1, 64))
	case ql2.R_STR:
		p.b.WriteString(strconv.Quote(d.Str))
	case ql2.R_ARRAY:
		p.b.WriteByte('[')
		for i, item := range d.Array {
			if i > 0 {
				p.b.WriteString(", ")
			}
			p.datum(item)
		}
		p.b.WriteByte(']')
	case ql2.R_OBJECT:
		p.b.WriteByte('{')
		for i, kv := range d.Object {
			if i > 0 {
				p.b.WriteString(", ")
			}
			p.b.WriteString(strconv.Quote(kv.Key))
			p.b.WriteString(": ")
			p.datum(kv.Val)
		}
		p.b.WriteByte('}')
	default:
		p.b.WriteString("<")
		p.b.WriteString(d.Type.String())
		p.b.WriteString(">")
	}
}
