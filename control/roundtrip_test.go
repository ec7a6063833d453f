package control_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calebcase/cubench/control"
	"github.com/calebcase/oops"
)

func shortName(i int, data []byte) string {
	sb := &strings.Builder{}

	sb.WriteString(fmt.Sprintf("%02d/", i))

	if len(data) == 0 {
		sb.WriteString("(len=0)")

		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("%02x", data[0]))
	prev := data[0]
	var dots bool

	for i, b := range data[1:] {
		if len(data) > 16 && prev == b {
			if !dots {
				sb.WriteString("..")
				dots = true
			}

			continue
		}

		if (i+1)%2 == 0 {
			sb.WriteString("_")
		}

		sb.WriteString(fmt.Sprintf("%02x", b))
		prev = b
		dots = false
	}

	sb.WriteString(fmt.Sprintf("(len=%d)", len(data)))

	return sb.String()
}

func TestRoundtrip(t *testing.T) {
	t.Run("data", func(t *testing.T) {
		type TC struct {
			Input  []byte
			Output []byte
			Type   control.Type
			Mark   error
		}

		tcs := []TC{
			{
				Input:  []byte{0b_0000_0000},
				Output: []byte{0b_1000_0000},
				Type:   control.Data,
				Mark:   oops.New("unexpected"),
			},
			{
				Input:  []byte{0b_0100_0000},
				Output: []byte{0b_1100_0000},
				Type:   control.Data,
				Mark:   oops.New("unexpected"),
			},
			{
				Input:  []byte{0b_1000_0000},
				Output: []byte{0b_0100_0000, 0b_1000_0000},
				Type:   control.DataSize,
				Mark:   oops.New("unexpected"),
			},
			{
				Input:  []byte{0b_0000_0000, 0b_0000_0000},
				Output: []byte{0b_0010_0000, 0b_0000_0000},
				Type:   control.Data1,
				Mark:   oops.New("unexpected"),
			},
			{
				Input:  []byte{0b_0001_0000, 0b_0000_0000},
				Output: []byte{0b_0011_0000, 0b_0000_0000},
				Type:   control.Data1,
				Mark:   oops.New("unexpected"),
			},
			{
				Input:  []byte{0b_0010_0000, 0b_0000_0000},
				Output: []byte{0b_0100_0001, 0b_0010_0000, 0b_0000_0000},
				Type:   control.DataSize,
				Mark:   oops.New("unexpected"),
			},
			{
				Input:  []byte{0b_0000_0000, 0b_0000_0000, 0b_0000_0000},
				Output: []byte{0b_0001_0000, 0b_0000_0000, 0b_0000_0000},
				Type:   control.Data2,
				Mark:   oops.New("unexpected"),
			},
			{
				Input:  []byte{0b_0000_1000, 0b_0000_0000, 0b_0000_0000},
				Output: []byte{0b_0001_1000, 0b_0000_0000, 0b_0000_0000},
				Type:   control.Data2,
				Mark:   oops.New("unexpected"),
			},
			{
				Input:  []byte{0b_0001_0000, 0b_0000_0000, 0b_0000_0000},
				Output: []byte{0b_0100_0010, 0b_0001_0000, 0b_0000_0000, 0b_0000_0000},
				Type:   control.DataSize,
				Mark:   oops.New("unexpected"),
			},
			{
				Input:  bytes.Repeat([]byte{0b_1111_1111}, 64),
				Output: append([]byte{0b_0111_1111}, bytes.Repeat([]byte{0b_1111_1111}, 64)...),
				Type:   control.DataSize,
				Mark:   oops.New("unexpected"),
			},
			{
				Input:  bytes.Repeat([]byte{0b_1111_1111}, 65),
				Output: append([]byte{0b_0000_1000, 0b_0100_0000}, bytes.Repeat([]byte{0b_1111_1111}, 65)...),
				Type:   control.DataSizeSize,
				Mark:   oops.New("unexpected"),
			},
			{
				Input:  bytes.Repeat([]byte{0b_1010_1010}, 300),
				Output: append([]byte{0b_0000_1001, 0b_0000_0001, 0b_0010_1011}, bytes.Repeat([]byte{0b_1010_1010}, 300)...),
				Type:   control.DataSizeSize,
				Mark:   oops.New("unexpected"),
			},
		}

		for i, tc := range tcs {
			t.Run(shortName(i, tc.Output), func(t *testing.T) {
				output := &bytes.Buffer{}
				e := control.NewEncoder(output)

				err := e.Data(tc.Input)
				require.NoError(t, err, tc.Mark)
				require.Equal(t, tc.Output, output.Bytes(), tc.Mark)

				d := control.NewDecoder(output)

				ok := d.Next()
				require.NoError(t, d.Err(), tc.Mark)
				require.True(t, ok, tc.Mark)
				require.Equal(t, tc.Type, d.Type(), tc.Mark)

				size, err := d.Size()
				require.NoError(t, err, tc.Mark)
				require.Equal(t, uint64(len(tc.Input)), size, tc.Mark)

				input, err := d.Data()
				require.NoError(t, err, tc.Mark)
				require.Equal(t, tc.Input, input, tc.Mark)

				ok = d.Next()
				require.NoError(t, d.Err(), tc.Mark)
				require.False(t, ok, tc.Mark)
				require.Equal(t, uint64(len(tc.Output)), d.Consumed(), tc.Mark)
			})
		}
	})

	t.Run("empty-null", func(t *testing.T) {
		output := &bytes.Buffer{}
		e := control.NewEncoder(output)

		require.NoError(t, e.Empty())
		require.NoError(t, e.Null())
		require.Equal(t, []byte{0b_0000_0001, 0b_0000_0000}, output.Bytes())

		d := control.NewDecoder(output)

		types := []control.Type{}
		for d.Next() {
			types = append(types, d.Type())
		}
		require.NoError(t, d.Err())
		require.Equal(t, []control.Type{control.Empty, control.Null}, types)
	})
}
