// Package format implements the escape-directive language used to render a
// raw serial byte stream as text.
//
// A format string is compiled once into a Template: an immutable sequence of
// directives, each either a literal text run or a two-character escape token
// (the escape character plus one selector). Templates are grouped into a
// round-robin Cycle, and a Renderer expands the cycle one input byte at a
// time:
//
//	tpl := format.Compile("byte %i (%h)%n")
//	cycle, err := format.NewCycle(tpl)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	r := format.NewRenderer(cycle)
//	for _, b := range chunk {
//	    os.Stdout.WriteString(r.Feed(b))
//	}
//
// Recognized selectors, with the default '%' escape character:
//
//	%a  print next byte as ascii char
//	%i  print next byte as decimal integer
//	%h  print next byte as hexadecimal string
//	%b  print next byte as binary string
//	%d  print next word as decimal integer
//	%e  print next byte as alternating escaped ascii
//	%n  print new line
//	%%  print the escape char itself
//
// Any other selector compiles to a malformed directive, which renders the
// BadEscape placeholder and still consumes one input byte. Compilation and
// rendering never fail: noisy or truncated serial input degrades to
// placeholders instead of errors.
package format

// DefaultEscape is the escape character used by Compile.
const DefaultEscape byte = '%'

// BadEscape is the placeholder emitted for malformed escape tokens and for
// the masked occurrences of the escaped-ascii directive.
const BadEscape = "<BADESC>"

// nonPrintable substitutes bytes the ascii renderings cannot show verbatim.
const nonPrintable = "."

// Kind classifies a compiled directive.
type Kind uint8

const (
	// KindLiteral is a fixed text run. Consumes no input.
	KindLiteral Kind = iota
	// KindAscii renders the next byte as its character (%a).
	KindAscii
	// KindDecimal renders the next byte in base 10, unpadded (%i).
	KindDecimal
	// KindHex renders the next byte as two lowercase hex digits (%h).
	KindHex
	// KindBinary renders the next byte in base 2, unpadded (%b).
	KindBinary
	// KindWord renders the next two bytes as one decimal integer (%d).
	KindWord
	// KindEscaped renders the next byte as alternating escaped ascii (%e).
	KindEscaped
	// KindNewline emits a line break (%n). Consumes no input.
	KindNewline
	// KindPercent emits the escape character itself (%%). Consumes no input.
	KindPercent
	// KindBad is an unrecognized selector. Renders BadEscape and still
	// consumes one byte, so bad format strings stay aligned with the stream.
	KindBad
)

// width reports how many input bytes a directive of kind k consumes.
func (k Kind) width() int {
	switch k {
	case KindLiteral, KindNewline, KindPercent:
		return 0
	case KindWord:
		return 2
	default:
		return 1
	}
}

// Directive is one parsed unit of a template. Text carries the rendered form
// of zero-width directives: the literal run, the line break, or the escape
// character.
type Directive struct {
	Kind Kind
	Text string
}

// selectors maps selector characters to directive kinds. The escape
// character itself is handled separately because it is configurable.
var selectors = map[byte]Kind{
	'a': KindAscii,
	'i': KindDecimal,
	'h': KindHex,
	'b': KindBinary,
	'd': KindWord,
	'e': KindEscaped,
	'n': KindNewline,
}

// Escape describes one selector of the format language for help output.
type Escape struct {
	Char        byte
	Description string
}

// Escapes returns the selector table in display order.
func Escapes() []Escape {
	return []Escape{
		{'a', "print next byte as ascii char"},
		{'i', "print next byte as decimal integer"},
		{'h', "print next byte as hexadecimal string"},
		{'b', "print next byte as binary string"},
		{'d', "print next word as decimal integer"},
		{'e', "print next byte as alternating escaped ascii"},
		{'n', "print new line"},
		{'%', "print the escape char itself"},
	}
}
