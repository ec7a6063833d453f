package instruction

import "strconv"

// Tag identifies a request variant on the wire.
type Tag uint8

// Tags in wire order.
const (
	TagPreciseSquareRoot Tag = iota
	TagSquareRootU64
	TagSquareRootU128
	TagU64Multiply
	TagU64Divide
	TagF32Multiply
	TagF32Divide
	TagF32Exponentiate
	TagF32NaturalLog
	TagF32NormalCDF
	TagF64Pow
	TagU128Multiply
	TagU128Divide
	TagF64Multiply
	TagF64Divide
	TagNoop
	TagPreciseMulDiv

	tagCount
)

type meta struct {
	name  string
	label string
	new   func() Instruction
}

var metas = [tagCount]meta{
	TagPreciseSquareRoot: {"precise_square_root", "Calculating square root using Decimal", func() Instruction { return &PreciseSquareRoot{} }},
	TagSquareRootU64:     {"square_root_u64", "Calculating u64 square root", func() Instruction { return &SquareRootU64{} }},
	TagSquareRootU128:    {"square_root_u128", "Calculating u128 square root", func() Instruction { return &SquareRootU128{} }},
	TagU64Multiply:       {"u64_multiply", "Calculating u64 multiply", func() Instruction { return &U64Multiply{} }},
	TagU64Divide:         {"u64_divide", "Calculating u64 divide", func() Instruction { return &U64Divide{} }},
	TagF32Multiply:       {"f32_multiply", "Calculating f32 multiply", func() Instruction { return &F32Multiply{} }},
	TagF32Divide:         {"f32_divide", "Calculating f32 divide", func() Instruction { return &F32Divide{} }},
	TagF32Exponentiate:   {"f32_exponentiate", "Calculating f32 exponent", func() Instruction { return &F32Exponentiate{} }},
	TagF32NaturalLog:     {"f32_natural_log", "Calculating f32 natural log", func() Instruction { return &F32NaturalLog{} }},
	TagF32NormalCDF:      {"f32_normal_cdf", "Calculating f32 normal CDF", func() Instruction { return &F32NormalCDF{} }},
	TagF64Pow:            {"f64_pow", "Calculating f64 pow", func() Instruction { return &F64Pow{} }},
	TagU128Multiply:      {"u128_multiply", "Calculating u128 multiply", func() Instruction { return &U128Multiply{} }},
	TagU128Divide:        {"u128_divide", "Calculating u128 divide", func() Instruction { return &U128Divide{} }},
	TagF64Multiply:       {"f64_multiply", "Calculating f64 multiply", func() Instruction { return &F64Multiply{} }},
	TagF64Divide:         {"f64_divide", "Calculating f64 divide", func() Instruction { return &F64Divide{} }},
	TagNoop:              {"noop", "Perform noop", func() Instruction { return &Noop{} }},
	TagPreciseMulDiv:     {"precise_mul_div", "Calculating muldiv using Decimal", func() Instruction { return &PreciseMulDiv{} }},
}

// Valid reports whether t names a known variant.
func (t Tag) Valid() bool {
	return t < tagCount
}

// String returns the snake case name of the variant.
func (t Tag) String() string {
	if !t.Valid() {
		return "tag(" + strconv.Itoa(int(t)) + ")"
	}

	return metas[t].name
}

// Label is the log line announcing an invocation of the variant.
func (t Tag) Label() string {
	if !t.Valid() {
		return ""
	}

	return metas[t].label
}

// Tags returns every known tag in wire order.
func Tags() []Tag {
	ts := make([]Tag, tagCount)
	for i := range ts {
		ts[i] = Tag(i)
	}

	return ts
}

// Lookup finds the tag with the given name.
func Lookup(name string) (Tag, bool) {
	for t, m := range metas {
		if m.name == name {
			return Tag(t), true
		}
	}

	return 0, false
}

// New returns a zero valued instruction for t.
func New(t Tag) (Instruction, error) {
	if !t.Valid() {
		return nil, Error.New("unknown tag: %d", uint8(t))
	}

	return metas[t].new(), nil
}
