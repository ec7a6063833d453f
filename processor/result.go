package processor

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/calebcase/cubench/control"
	"github.com/calebcase/cubench/instruction"
	"github.com/calebcase/cubench/integer"
)

// Measurement is one measured window.
type Measurement struct {
	// Name is the instruction name, or the strategy for instructions with
	// several windows.
	Name string

	// Units is the corrected cost.
	Units uint64

	// Raw is before - after without the correction.
	Raw uint64

	// Value is the rendered result of the primitive.
	Value string
}

// Result of a successful invocation.
type Result struct {
	Instruction  instruction.Instruction
	Measurements []Measurement
}

// ComputeUnitsConsumed is the corrected cost of the first window.
func (r *Result) ComputeUnitsConsumed() uint64 {
	if len(r.Measurements) == 0 {
		return 0
	}

	return r.Measurements[0].Units
}

// Value is the result of the last window.
func (r *Result) Value() string {
	if len(r.Measurements) == 0 {
		return ""
	}

	return r.Measurements[len(r.Measurements)-1].Value
}

// MarshalBinary returns the return payload: the corrected cost as a u64
// data block.
func (r *Result) MarshalBinary() (_ []byte, err error) {
	defer Error.WrapP(&err)

	buf := &bytes.Buffer{}

	err = integer.NewEncoder(integer.U64, control.NewEncoder(buf)).EncodeUint64(r.ComputeUnitsConsumed())
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// DecodePayload reads the corrected cost from a return payload.
func DecodePayload(data []byte) (_ uint64, err error) {
	defer Error.WrapP(&err)

	cd := control.NewDecoder(bytes.NewReader(data))

	units, err := integer.NewDecoder(integer.U64, cd).DecodeUint64()
	if err != nil {
		return 0, err
	}

	if cd.Next() || cd.Err() != nil {
		return 0, Error.New("trailing bytes in payload")
	}

	return units, nil
}

// ParseConsumed extracts the units of every cost line in lines.
func ParseConsumed(lines []string) (units []uint64) {
	for _, line := range lines {
		s, ok := strings.CutPrefix(line, ConsumedPrefix)
		if !ok {
			continue
		}

		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			continue
		}

		units = append(units, n)
	}

	return units
}
