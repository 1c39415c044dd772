package netlist

import (
	"slices"

	"github.com/alecthomas/participle/v2/lexer"
)

// SpiLexer tokenizes SiEPIC-style .spi netlists. Line structure is kept, so
// newlines are tokens; a newline followed by "+" is a Continuation marker
// and the items after it belong to the line above.
var SpiLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `\*[^\n]*`},
	{Name: "Continuation", Pattern: `\n[ \t]*\+`},
	{Name: "Newline", Pattern: `\n`},
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
	{Name: "String", Pattern: `"[^"\n]*"`},
	{Name: "Equal", Pattern: `=`},
	{Name: "Word", Pattern: `[^\s="]+`},
})

// spiFile is the raw line-oriented syntax tree; meaning is assigned by the
// Parser afterwards.
type spiFile struct {
	Lines []*spiLine `parser:"( @@ | Newline )*"`
}

type spiLine struct {
	Pos     lexer.Position
	Items   []*spiItem   `parser:"@@+"`
	Options []*spiOption `parser:"@@* Newline"`
}

// spiOption is one "+" continuation line.
type spiOption struct {
	Items []*spiItem `parser:"Continuation @@*"`
}

type spiItem struct {
	Key   string  `parser:"@(Word | String)"`
	Value *string `parser:"( Equal @(Word | String) )?"`
}

func (i *spiItem) positional() bool { return i.Value == nil }

// all returns the items of the line followed by those of its continuations.
func (l *spiLine) all() []*spiItem {
	items := slices.Clone(l.Items)
	for _, o := range l.Options {
		items = append(items, o.Items...)
	}
	return items
}
