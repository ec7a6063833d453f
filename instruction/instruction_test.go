package instruction_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/calebcase/oops"
	"github.com/davecgh/go-spew/spew"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/calebcase/cubench/instruction"
	"github.com/calebcase/cubench/integer"
)

func u128(s string) uint256.Int {
	return *uint256.MustFromDecimal(s)
}

// every has one instance of each variant.
var every = []instruction.Instruction{
	&instruction.PreciseSquareRoot{Radicand: math.MaxUint64},
	&instruction.SquareRootU64{Radicand: math.MaxUint64},
	&instruction.SquareRootU128{Radicand: *integer.MaxU128()},
	&instruction.U64Multiply{Multiplicand: 42, Multiplier: 84},
	&instruction.U64Divide{Dividend: 3, Divisor: 1},
	&instruction.F32Multiply{Multiplicand: 1.5, Multiplier: 2},
	&instruction.F32Divide{Dividend: 3, Divisor: 1.5},
	&instruction.F32Exponentiate{Base: 4, Exponent: 2},
	&instruction.F32NaturalLog{Argument: float32(math.E)},
	&instruction.F32NormalCDF{Argument: 0},
	&instruction.F64Pow{Base: 50, Exponent: 10.5},
	&instruction.U128Multiply{Multiplicand: u128("18446744073709551615"), Multiplier: u128("18446744073709551615")},
	&instruction.U128Divide{Dividend: *integer.MaxU128(), Divisor: u128("4931628506100557441498182716402437847")},
	&instruction.F64Multiply{Multiplicand: math.Pow(2, 42), Multiplier: 1e-4},
	&instruction.F64Divide{Dividend: math.Pow(2, 42), Divisor: 420420.6969},
	&instruction.Noop{},
	&instruction.PreciseMulDiv{Val: math.MaxUint64, Num: 7, Denom: 9},
}

func TestTags(t *testing.T) {
	tags := instruction.Tags()
	require.Len(t, tags, len(every))

	for i, ins := range every {
		require.Equal(t, instruction.Tag(i), ins.Tag())
		require.Equal(t, tags[i], ins.Tag())
		require.NotEmpty(t, ins.Tag().Label())

		tag, ok := instruction.Lookup(ins.Tag().String())
		require.True(t, ok)
		require.Equal(t, ins.Tag(), tag)
	}

	require.False(t, instruction.Tag(17).Valid())
	require.Equal(t, "tag(17)", instruction.Tag(17).String())
	require.Equal(t, "Calculating u64 square root", instruction.TagSquareRootU64.Label())
}

func TestRoundtrip(t *testing.T) {
	for _, ins := range every {
		t.Run(ins.Tag().String(), func(t *testing.T) {
			data, err := instruction.Encode(ins)
			require.NoError(t, err)

			t.Logf("encoded: %s", spew.Sdump(data))

			got, err := instruction.Decode(data)
			require.NoError(t, err)
			require.Equal(t, ins, got)
		})
	}
}

func TestEncode(t *testing.T) {
	type TC struct {
		name   string
		input  instruction.Instruction
		output []byte
	}

	tcs := []TC{
		{
			name:   "u64 multiply",
			input:  &instruction.U64Multiply{Multiplicand: 42, Multiplier: 84},
			output: []byte{0x83, 0x80 | 42, 0x80 | 84},
		},
		{
			name:   "u64 divide zero",
			input:  &instruction.U64Divide{Dividend: 0, Divisor: 3528},
			output: []byte{0x84, 0x80, 0x2D, 0xC8},
		},
		{
			name:   "f32 multiply",
			input:  &instruction.F32Multiply{Multiplicand: 1.5, Multiplier: 2},
			output: []byte{0x85, 0x43, 0x3F, 0xC0, 0x00, 0x00, 0x43, 0x40, 0x00, 0x00, 0x00},
		},
		{
			name:   "noop",
			input:  &instruction.Noop{},
			output: []byte{0x8F},
		},
		{
			name:   "precise mul div",
			input:  &instruction.PreciseMulDiv{Val: 1, Num: 2, Denom: 3},
			output: []byte{0x90, 0x81, 0x82, 0x83},
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			data, err := instruction.Encode(tc.input)
			require.NoError(t, err)
			require.Equal(t, tc.output, data)
		})
	}
}

func TestEncodeTooWide(t *testing.T) {
	var v uint256.Int
	v.Lsh(uint256.NewInt(1), 128)

	_, err := instruction.Encode(&instruction.SquareRootU128{Radicand: v})
	require.Error(t, err)
	require.True(t, instruction.Error.Has(err))
}

func TestDecodeErrors(t *testing.T) {
	type TC struct {
		name  string
		input []byte
	}

	valid := instruction.MustEncode(&instruction.F64Pow{Base: 50, Exponent: 10.5})

	tcs := []TC{
		{"empty", []byte{}},
		{"unknown tag", []byte{0x80 | 17}},
		{"huge tag", []byte{0x20, 0x01, 0x00}},
		{"missing operand", []byte{0x83, 0x80 | 42}},
		{"truncated operand", []byte{0x83, 0x80 | 42, 0x47, 0xFF}},
		{"truncated float", valid[:len(valid)-1]},
		{"trailing data", append([]byte{0x8F}, 0x80)},
		{"trailing garbage", append([]byte{0x8F}, 0x05)},
		{"empty operand", []byte{0x81, 0x01}},
		{"null operand", []byte{0x81, 0x00}},
		{"u64 too wide", append([]byte{0x81, 0x48}, bytes.Repeat([]byte{0xFF}, 9)...)},
		{"u128 too wide", append([]byte{0x82, 0x50}, bytes.Repeat([]byte{0xFF}, 17)...)},
		{"f32 as f64", []byte{0x88, 0x47, 0, 0, 0, 0, 0, 0, 0, 0}},
		{"f64 as f32", []byte{0x8A, 0x43, 0, 0, 0, 0, 0x43, 0, 0, 0, 0}},
		{"unsupported control byte", []byte{0x05}},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			ins, err := instruction.Decode(tc.input)
			require.Error(t, err, oops.New("decoded %s", spew.Sdump(ins)))
			require.Nil(t, ins)
			require.True(t, instruction.DecodeError.Has(err), "%+v", err)
		})
	}
}

func TestDecodeIdempotent(t *testing.T) {
	data := instruction.MustEncode(&instruction.U128Multiply{
		Multiplicand: u128("18446744073709551615"),
		Multiplier:   u128("18446744073709551615"),
	})

	a, err := instruction.Decode(data)
	require.NoError(t, err)

	b, err := instruction.Decode(data)
	require.NoError(t, err)

	require.Equal(t, a, b)
}
