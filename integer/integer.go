// Package integer provides unsigned fixed-width integers: their wire blocks,
// checked scalar arithmetic, and floor square roots.
package integer

import (
	"github.com/holiman/uint256"
	"github.com/zeebo/errs"

	"github.com/calebcase/cubench/control"
)

// Error is the error class for integer failures.
var Error = errs.Class("integer")

// Schema for an unsigned integer.
type Schema struct {
	Bits uint64
}

var (
	U64  = Schema{Bits: 64}
	U128 = Schema{Bits: 128}
)

// Decoder is a decoder.
type Decoder struct {
	schema Schema
	cd     control.Decoder
}

// NewDecoder returns a new decoder.
func NewDecoder(schema Schema, cd control.Decoder) *Decoder {
	return &Decoder{
		schema: schema,
		cd:     cd,
	}
}

// Decode reads the next field into v. The field must be a data block whose
// value fits the schema width.
func (d *Decoder) Decode(v *uint256.Int) (err error) {
	defer Error.WrapP(&err)

	if !d.cd.Next() {
		if d.cd.Err() != nil {
			return d.cd.Err()
		}

		return Error.New("unexpected end of input: want u%d", d.schema.Bits)
	}

	if !control.IsData(d.cd.Type()) {
		return Error.New("unexpected %s block: want u%d", d.cd.Type(), d.schema.Bits)
	}

	data, err := d.cd.Data()
	if err != nil {
		return err
	}

	// Leading zero bytes carry no value.
	for len(data) > 1 && data[0] == 0 {
		data = data[1:]
	}

	if uint64(len(data))*8 > d.schema.Bits {
		return Error.New("value too large for u%d: %d bytes", d.schema.Bits, len(data))
	}

	v.SetBytes(data)

	return nil
}

// DecodeUint64 reads the next field as a u64.
func (d *Decoder) DecodeUint64() (_ uint64, err error) {
	var v uint256.Int

	err = d.Decode(&v)
	if err != nil {
		return 0, err
	}

	if !v.IsUint64() {
		return 0, Error.New("value too large for u64")
	}

	return v.Uint64(), nil
}

// Encoder is an encoder.
type Encoder struct {
	schema Schema
	ce     control.Encoder
}

// NewEncoder returns a new encoder.
func NewEncoder(schema Schema, ce control.Encoder) *Encoder {
	return &Encoder{
		schema: schema,
		ce:     ce,
	}
}

// Encode writes v as a minimal big-endian data block.
func (e *Encoder) Encode(v *uint256.Int) (err error) {
	defer Error.WrapP(&err)

	if uint64(v.BitLen()) > e.schema.Bits {
		return Error.New("value too large for u%d: %d bits", e.schema.Bits, v.BitLen())
	}

	bytes := v.Bytes()

	// Note: zero is encoded as an empty byte array, but we desire zero to
	// be an actual zero byte.
	if len(bytes) == 0 {
		bytes = []byte{0}
	}

	return e.ce.Data(bytes)
}

// EncodeUint64 writes a u64.
func (e *Encoder) EncodeUint64(v uint64) (err error) {
	return e.Encode(new(uint256.Int).SetUint64(v))
}
