package format

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithWordOrder sets the byte order used to combine the two bytes of a word
// directive. The default is binary.BigEndian: the first byte received is the
// high byte.
func WithWordOrder(order binary.ByteOrder) Option {
	return func(r *Renderer) { r.order = order }
}

// escKey addresses one escaped-ascii directive occurrence inside a cycle.
type escKey struct {
	template  int
	directive int
}

// Renderer expands a template cycle one input byte at a time. It carries the
// state a streaming expansion needs between calls: the directive cursor
// within the current template, the buffered first byte of a half-fed word
// directive, and the occurrence counters of escaped-ascii directives.
//
// A Renderer drives its Cycle's cursor and must not share the cycle with
// another renderer. Neither is safe for concurrent use.
type Renderer struct {
	cycle *Cycle
	order binary.ByteOrder

	dir        int  // directive cursor within the current template
	pending    byte // first byte of a half-fed word directive
	hasPending bool
	phases     map[escKey]uint
}

// NewRenderer returns a Renderer expanding cycle from its current position.
func NewRenderer(cycle *Cycle, opts ...Option) *Renderer {
	r := &Renderer{
		cycle:  cycle,
		order:  binary.BigEndian,
		phases: make(map[escKey]uint),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Feed consumes one input byte and returns the text it expands to, possibly
// empty. Zero-width directives left over from the previous call are rendered
// first, then the byte is deposited into the next byte-consuming directive.
// Completing a template's final directive advances the cycle, so the next
// call starts a fresh pass on the next template. Feed never fails: malformed
// escapes render the BadEscape placeholder and the byte is still consumed.
//
// The first byte of a word directive produces no output; the directive
// expands when its second byte arrives. If no template in the cycle consumes
// input at all, each call emits one full round of fixed output and drops the
// byte.
func (r *Renderer) Feed(b byte) string {
	var out strings.Builder
	if !r.cycle.consumes {
		for range r.cycle.templates {
			t := r.cycle.Current()
			for _, d := range t.dirs[r.dir:] {
				out.WriteString(d.Text)
			}
			r.dir = 0
			r.cycle.Advance()
		}
		return out.String()
	}
	for {
		t := r.cycle.Current()
		if r.dir >= len(t.dirs) {
			r.dir = 0
			r.cycle.Advance()
			continue
		}
		d := t.dirs[r.dir]
		if d.Kind.width() == 0 {
			out.WriteString(d.Text)
			r.dir++
			continue
		}
		if d.Kind == KindWord && !r.hasPending {
			r.pending = b
			r.hasPending = true
			return out.String()
		}
		out.WriteString(r.expand(d.Kind, b))
		r.hasPending = false
		r.dir++
		if r.dir >= len(t.dirs) {
			r.dir = 0
			r.cycle.Advance()
		}
		return out.String()
	}
}

// NeedsMoreData reports whether the renderer holds carry state: a buffered
// first word byte or a partially expanded template. Carry state left over at
// stream end is simply discarded; nothing more is emitted for it.
func (r *Renderer) NeedsMoreData() bool {
	return r.hasPending || r.dir != 0
}

// expand renders a byte-consuming directive against its input.
func (r *Renderer) expand(kind Kind, b byte) string {
	switch kind {
	case KindAscii:
		return asciiChar(b)
	case KindDecimal:
		return strconv.Itoa(int(b))
	case KindHex:
		return fmt.Sprintf("%02x", b)
	case KindBinary:
		return strconv.FormatUint(uint64(b), 2)
	case KindWord:
		return strconv.Itoa(int(r.order.Uint16([]byte{r.pending, b})))
	case KindEscaped:
		return r.expandEscaped(b)
	default:
		return BadEscape
	}
}

// expandEscaped implements the escaped-ascii alternation. Each occurrence of
// the directive keeps its own counter across template passes: the first byte
// it sees renders as its ascii char, the second is masked with BadEscape,
// the third renders as its decimal value, the fourth is masked again, and
// the pattern repeats.
func (r *Renderer) expandEscaped(b byte) string {
	key := escKey{template: r.cycle.Index(), directive: r.dir}
	phase := r.phases[key]
	r.phases[key]++
	switch phase % 4 {
	case 0:
		return asciiChar(b)
	case 2:
		return strconv.Itoa(int(b))
	default:
		return BadEscape
	}
}

// asciiChar renders a byte as text. Printable ASCII plus tab, carriage
// return, and newline pass through; everything else becomes a dot.
func asciiChar(b byte) string {
	if b >= 0x20 && b <= 0x7e || b == '\n' || b == '\r' || b == '\t' {
		return string(b)
	}
	return nonPrintable
}
