package netlist

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
)

// Deck is everything read from one .spi file: the flattened netlist plus the
// directives that are recorded but not executed. Includes lists the .include
// paths as written; the files they name are not read, so their components
// are not part of Netlist.
type Deck struct {
	Netlist     *Netlist
	Subcircuits []Subcircuit
	Params      map[string]float64
	Includes    []string
	Analyses    []Analysis
}

type Subcircuit struct {
	Name  string
	Ports []string
}

// Parser reads SiEPIC-style .spi netlists.
type Parser struct {
	parser *participle.Parser[spiFile]
}

func NewParser() (*Parser, error) {
	parser, err := participle.Build[spiFile](
		participle.Lexer(SpiLexer),
		participle.Elide("Comment", "Whitespace"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}

	return &Parser{parser: parser}, nil
}

func (p *Parser) Parse(r io.Reader) (*Deck, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading netlist: %w", err)
	}
	return p.ParseString(string(data))
}

func (p *Parser) ParseString(input string) (*Deck, error) {
	// the grammar terminates every line with a newline token
	file, err := p.parser.ParseString("", input+"\n")
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return build(file)
}

func (p *Parser) ParseFile(filename string) (*Deck, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return p.Parse(file)
}

type deckBuilder struct {
	deck      *Deck
	externals map[string]int
	subckts   map[string]bool
	open      string // name of the subcircuit being read, if any
}

func build(file *spiFile) (*Deck, error) {
	b := &deckBuilder{
		deck: &Deck{
			Netlist: New(),
			Params:  make(map[string]float64),
		},
		externals: make(map[string]int),
		subckts:   make(map[string]bool),
	}

	// subcircuit names are needed up front to recognize instantiations
	for _, line := range file.Lines {
		if len(line.Items) > 1 && strings.EqualFold(line.Items[0].Key, ".subckt") {
			b.subckts[line.Items[1].Key] = true
		}
	}

	for _, line := range file.Lines {
		var err error
		if strings.HasPrefix(line.Items[0].Key, ".") {
			err = b.directive(line)
		} else {
			err = b.component(line)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line.Pos.Line, err)
		}
	}

	if b.open != "" {
		return nil, fmt.Errorf("subcircuit %s: missing .ends", b.open)
	}
	return b.deck, nil
}

func (b *deckBuilder) directive(line *spiLine) error {
	name := strings.ToLower(line.Items[0].Key)
	args := line.all()[1:]

	switch name {
	case ".subckt":
		if b.open != "" {
			return fmt.Errorf("nested subcircuit inside %s", b.open)
		}
		if len(args) == 0 || !args[0].positional() {
			return errors.New(".subckt requires a name")
		}
		sub := Subcircuit{Name: args[0].Key}
		for _, a := range args[1:] {
			if a.positional() {
				sub.Ports = append(sub.Ports, a.Key)
			}
		}
		b.open = sub.Name
		b.deck.Subcircuits = append(b.deck.Subcircuits, sub)
		if b.deck.Netlist.Title == "" {
			b.deck.Netlist.Title = sub.Name
		}

	case ".ends":
		if b.open == "" {
			return errors.New(".ends without .subckt")
		}
		if len(args) > 0 && args[0].Key != b.open {
			return fmt.Errorf("%w: %s vs %s", ErrSubcircuitMismatch, b.open, args[0].Key)
		}
		b.open = ""

	case ".param":
		for _, a := range args {
			if a.positional() {
				return fmt.Errorf(".param %s: missing value", a.Key)
			}
			v, err := ParseValue(*a.Value)
			if err != nil {
				return fmt.Errorf(".param %s: %w", a.Key, err)
			}
			b.deck.Params[a.Key] = v
		}

	case ".include":
		if len(args) != 1 {
			return errors.New(".include requires one path")
		}
		b.deck.Includes = append(b.deck.Includes, unquote(args[0].Key))

	case ".ona":
		analysis, err := newAnalysis(line.Items[1:], line.Options)
		if err != nil {
			return fmt.Errorf(".ona: %w", err)
		}
		b.deck.Analyses = append(b.deck.Analyses, analysis)

	default:
		return fmt.Errorf("unsupported directive %s", line.Items[0].Key)
	}
	return nil
}

// component handles "name port... model key=value...".
func (b *deckBuilder) component(line *spiLine) error {
	items := line.all()

	split := len(items)
	for i, it := range items {
		if !it.positional() {
			split = i
			break
		}
	}
	positional, params := items[:split], items[split:]
	if len(positional) < 3 {
		return fmt.Errorf("component %s: expected name, ports and model", items[0].Key)
	}

	name := positional[0].Key
	model := positional[len(positional)-1].Key
	if b.subckts[model] {
		return nil
	}

	values := make(map[string]float64)
	for _, p := range params {
		if p.positional() {
			return fmt.Errorf("component %s: unexpected %s after parameters", name, p.Key)
		}
		if strings.HasPrefix(*p.Value, `"`) {
			continue // layout metadata such as library="..."
		}
		v, err := ParseValue(*p.Value)
		if err != nil {
			return fmt.Errorf("component %s: parameter %s: %w", name, p.Key, err)
		}
		values[p.Key] = v
	}

	var nets []int
	for _, port := range positional[1 : len(positional)-1] {
		net, err := b.net(port.Key)
		if err != nil {
			return fmt.Errorf("component %s: %w", name, err)
		}
		nets = append(nets, net)
	}

	c, err := NewComponent(name, model, values, nets)
	if err != nil {
		return err
	}
	return b.deck.Netlist.Add(c)
}

// net maps "N$k" to internal net k; any other port name is external and
// numbered -1, -2, ... in order of first appearance.
func (b *deckBuilder) net(port string) (int, error) {
	if rest, ok := strings.CutPrefix(port, "N$"); ok {
		n, err := strconv.Atoi(rest)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("malformed internal net %q", port)
		}
		return n, nil
	}

	if id, ok := b.externals[port]; ok {
		return id, nil
	}
	id := -(len(b.externals) + 1)
	b.externals[port] = id
	b.deck.Netlist.Externals[id] = port
	return id, nil
}

func unquote(s string) string {
	if u, err := strconv.Unquote(s); err == nil {
		return u
	}
	return s
}
