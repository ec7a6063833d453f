package instruction

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/holiman/uint256"

	"github.com/calebcase/cubench/integer"
)

// Arg is one named operand rendered as text.
type Arg struct {
	Name  string
	Value string
}

// Parse builds the instruction called name from textual operands. Unsigned
// operands accept base 10 or the word "max". Every operand must be given and
// no others are allowed.
func Parse(name string, args map[string]string) (_ Instruction, err error) {
	defer Error.WrapP(&err)

	tag, ok := Lookup(name)
	if !ok {
		return nil, Error.New("unknown instruction: %q", name)
	}

	ins, err := New(tag)
	if err != nil {
		return nil, err
	}

	p := &parser{
		args: args,
		used: map[string]bool{},
	}

	ins.visit(p)
	if p.err != nil {
		return nil, p.err
	}

	var extra []string
	for k := range args {
		if !p.used[k] {
			extra = append(extra, k)
		}
	}

	if len(extra) > 0 {
		sort.Strings(extra)
		return nil, Error.New("%s: unexpected arguments: %s", name, strings.Join(extra, ", "))
	}

	return ins, nil
}

// ParseArgs is like Parse with operands given as key=value pairs.
func ParseArgs(name string, pairs []string) (Instruction, error) {
	args := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, Error.New("invalid argument %q: want key=value", pair)
		}

		if _, dup := args[k]; dup {
			return nil, Error.New("duplicate argument %q", k)
		}

		args[k] = v
	}

	return Parse(name, args)
}

type parser struct {
	args map[string]string
	used map[string]bool
	err  error
}

func (p *parser) lookup(name string) (string, bool) {
	if p.err != nil {
		return "", false
	}

	s, ok := p.args[name]
	if !ok {
		p.err = Error.New("missing argument %q", name)
		return "", false
	}

	p.used[name] = true

	return s, true
}

func (p *parser) fail(name, s string, err error) {
	p.err = Error.New("argument %s=%q: %v", name, s, err)
}

func (p *parser) Uint64(name string, v *uint64) {
	s, ok := p.lookup(name)
	if !ok {
		return
	}

	if s == "max" {
		*v = math.MaxUint64
		return
	}

	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		p.fail(name, s, err)
		return
	}

	*v = n
}

func (p *parser) Uint128(name string, v *uint256.Int) {
	s, ok := p.lookup(name)
	if !ok {
		return
	}

	if s == "max" {
		v.Set(integer.MaxU128())
		return
	}

	n, err := integer.ParseU128(s)
	if err != nil {
		p.fail(name, s, err)
		return
	}

	v.Set(n)
}

func (p *parser) Float32(name string, v *float32) {
	s, ok := p.lookup(name)
	if !ok {
		return
	}

	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		p.fail(name, s, err)
		return
	}

	*v = float32(f)
}

func (p *parser) Float64(name string, v *float64) {
	s, ok := p.lookup(name)
	if !ok {
		return
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		p.fail(name, s, err)
		return
	}

	*v = f
}

type formatter struct {
	args []Arg
}

func (f *formatter) Uint64(name string, v *uint64) {
	f.args = append(f.args, Arg{name, strconv.FormatUint(*v, 10)})
}

func (f *formatter) Uint128(name string, v *uint256.Int) {
	f.args = append(f.args, Arg{name, v.Dec()})
}

func (f *formatter) Float32(name string, v *float32) {
	f.args = append(f.args, Arg{name, strconv.FormatFloat(float64(*v), 'g', -1, 32)})
}

func (f *formatter) Float64(name string, v *float64) {
	f.args = append(f.args, Arg{name, strconv.FormatFloat(*v, 'g', -1, 64)})
}

// Args returns the operands of ins in declaration order.
func Args(ins Instruction) []Arg {
	f := &formatter{}
	ins.visit(f)

	return f.args
}

// Format renders ins as its name followed by key=value operands. The output
// is accepted by ParseArgs.
func Format(ins Instruction) string {
	var b strings.Builder

	b.WriteString(ins.Tag().String())

	for _, a := range Args(ins) {
		b.WriteByte(' ')
		b.WriteString(a.Name)
		b.WriteByte('=')
		b.WriteString(a.Value)
	}

	return b.String()
}
