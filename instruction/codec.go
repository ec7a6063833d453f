package instruction

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/holiman/uint256"

	"github.com/calebcase/cubench/control"
	"github.com/calebcase/cubench/integer"
)

// Encode returns the wire form of ins.
func Encode(ins Instruction) (_ []byte, err error) {
	defer Error.WrapP(&err)

	buf := &bytes.Buffer{}
	ce := control.NewEncoder(buf)

	e := &encoder{
		ce:   ce,
		u64:  integer.NewEncoder(integer.U64, ce),
		u128: integer.NewEncoder(integer.U128, ce),
	}

	err = e.u64.EncodeUint64(uint64(ins.Tag()))
	if err != nil {
		return nil, err
	}

	ins.visit(e)
	if e.err != nil {
		return nil, e.err
	}

	return buf.Bytes(), nil
}

// MustEncode is like Encode but panics on failure.
func MustEncode(ins Instruction) []byte {
	data, err := Encode(ins)
	if err != nil {
		panic(err)
	}

	return data
}

type encoder struct {
	ce   control.Encoder
	u64  *integer.Encoder
	u128 *integer.Encoder
	err  error
}

func (e *encoder) Uint64(name string, v *uint64) {
	if e.err != nil {
		return
	}

	e.err = e.u64.EncodeUint64(*v)
	if e.err != nil {
		e.err = fieldError(name, e.err)
	}
}

func (e *encoder) Uint128(name string, v *uint256.Int) {
	if e.err != nil {
		return
	}

	e.err = e.u128.Encode(v)
	if e.err != nil {
		e.err = fieldError(name, e.err)
	}
}

func (e *encoder) Float32(name string, v *float32) {
	if e.err != nil {
		return
	}

	var b [4]byte
	binary.BigEndian.PutUint32(b[:], math.Float32bits(*v))

	e.err = e.ce.Data(b[:])
	if e.err != nil {
		e.err = fieldError(name, e.err)
	}
}

func (e *encoder) Float64(name string, v *float64) {
	if e.err != nil {
		return
	}

	var b [8]byte
	binary.BigEndian.PutUint64(b[:], math.Float64bits(*v))

	e.err = e.ce.Data(b[:])
	if e.err != nil {
		e.err = fieldError(name, e.err)
	}
}

func fieldError(name string, err error) error {
	return Error.Wrap(fmt.Errorf("%s: %w", name, err))
}

// Decode parses one request from data. The whole buffer must be consumed.
// Every failure is a DecodeError.
func Decode(data []byte) (_ Instruction, err error) {
	defer DecodeError.WrapP(&err)

	cd := control.NewDecoder(bytes.NewReader(data))
	d := &decoder{
		cd:   cd,
		u64:  integer.NewDecoder(integer.U64, cd),
		u128: integer.NewDecoder(integer.U128, cd),
	}

	tag, err := d.u64.DecodeUint64()
	if err != nil {
		return nil, fieldError("tag", err)
	}

	if tag >= uint64(tagCount) {
		return nil, Error.New("unknown tag: %d", tag)
	}

	ins, err := New(Tag(tag))
	if err != nil {
		return nil, err
	}

	ins.visit(d)
	if d.err != nil {
		return nil, d.err
	}

	if cd.Next() {
		return nil, Error.New("trailing %s block after %s", cd.Type(), ins.Tag())
	}

	if cd.Err() != nil {
		return nil, fieldError("trailing bytes after "+ins.Tag().String(), cd.Err())
	}

	return ins, nil
}

type decoder struct {
	cd   control.Decoder
	u64  *integer.Decoder
	u128 *integer.Decoder
	err  error
}

func (d *decoder) Uint64(name string, v *uint64) {
	if d.err != nil {
		return
	}

	*v, d.err = d.u64.DecodeUint64()
	if d.err != nil {
		d.err = fieldError(name, d.err)
	}
}

func (d *decoder) Uint128(name string, v *uint256.Int) {
	if d.err != nil {
		return
	}

	d.err = d.u128.Decode(v)
	if d.err != nil {
		d.err = fieldError(name, d.err)
	}
}

// float reads the next field as a data block of exactly size bytes.
func (d *decoder) float(name string, size int) []byte {
	if d.err != nil {
		return nil
	}

	if !d.cd.Next() {
		d.err = d.cd.Err()
		if d.err == nil {
			d.err = Error.New("%s: unexpected end of input", name)
		}

		return nil
	}

	if !control.IsData(d.cd.Type()) {
		d.err = Error.New("%s: unexpected %s block", name, d.cd.Type())
		return nil
	}

	data, err := d.cd.Data()
	if err != nil {
		d.err = fieldError(name, err)
		return nil
	}

	if len(data) != size {
		d.err = Error.New("%s: want %d byte float, got %d bytes", name, size, len(data))
		return nil
	}

	return data
}

func (d *decoder) Float32(name string, v *float32) {
	data := d.float(name, 4)
	if data == nil {
		return
	}

	*v = math.Float32frombits(binary.BigEndian.Uint32(data))
}

func (d *decoder) Float64(name string, v *float64) {
	data := d.float(name, 8)
	if data == nil {
		return
	}

	*v = math.Float64frombits(binary.BigEndian.Uint64(data))
}
