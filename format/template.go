package format

import "strings"

// Template is a compiled format string. Templates are immutable after
// compilation and can be shared between cycles and renderers.
//
// Compilation never fails: unrecognized escape tokens become malformed
// directives rather than errors, so any user-supplied string yields a usable
// template.
type Template struct {
	raw  string
	dirs []Directive
}

// Compile parses raw into a Template using the default '%' escape character.
func Compile(raw string) Template {
	return CompileEscape(DefaultEscape, raw)
}

// CompileEscape parses raw using a custom escape character. A doubled escape
// character renders as the character itself; a trailing lone escape character
// is kept as literal text.
func CompileEscape(esc byte, raw string) Template {
	t := Template{raw: raw}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			t.dirs = append(t.dirs, Directive{Kind: KindLiteral, Text: lit.String()})
			lit.Reset()
		}
	}
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != esc {
			lit.WriteByte(c)
			continue
		}
		if i+1 >= len(raw) {
			lit.WriteByte(esc)
			break
		}
		i++
		sel := raw[i]
		flush()
		switch {
		case sel == esc:
			t.dirs = append(t.dirs, Directive{Kind: KindPercent, Text: string(esc)})
		default:
			kind, ok := selectors[sel]
			if !ok {
				t.dirs = append(t.dirs, Directive{Kind: KindBad})
				continue
			}
			d := Directive{Kind: kind}
			if kind == KindNewline {
				d.Text = "\n"
			}
			t.dirs = append(t.dirs, d)
		}
	}
	flush()
	return t
}

// String returns the raw format string the template was compiled from.
func (t Template) String() string {
	return t.raw
}

// Directives returns a copy of the compiled directive sequence.
func (t Template) Directives() []Directive {
	return append([]Directive(nil), t.dirs...)
}
