package control

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/calebcase/oops"
)

// MaxSize is the largest data field the decoder will allocate for.
const MaxSize = 1 << 24

// Decoder reads control blocks from a stream one field at a time.
type Decoder interface {
	Seek() (err error)
	Next() (ok bool)
	Err() (err error)

	Type() Type
	Consumed() uint64

	Size() (_ uint64, err error)
	Data() (data []byte, err error)
}

type decoder struct {
	r io.Reader

	consumed uint64

	value    [1]byte
	t        Type
	finished bool

	size uint64
	data []byte

	err error
}

// NewDecoder returns a decoder reading control blocks from r.
func NewDecoder(r io.Reader) Decoder {
	return &decoder{
		r: r,
	}
}

// read fills buf from the stream. A short read is always an error because
// the control byte already promised the bytes.
func (d *decoder) read(buf []byte) (err error) {
	n, err := io.ReadFull(d.r, buf)
	d.consumed += uint64(n)
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}

		return oops.Trace(err)
	}

	return nil
}

// Seek moves the reading position to the end of the current field.
func (d *decoder) Seek() (err error) {
	defer func() {
		if err != nil {
			d.err = err
		}
	}()

	if d.consumed == 0 || d.finished {
		return nil
	}

	switch d.t {
	case Data, Empty, Null:
		// No additional bytes need to be read.
	case DataSize, Data1, Data2, DataSizeSize:
		// Data blocks in a request are small enough to just read directly.
		_, err = d.Data()
		if err != nil {
			return err
		}
	default:
		return Error.New("unknown field %q: %08b", d.t.Abbr, d.value[0])
	}

	d.finished = true

	return nil
}

// Next advances to the next field. It returns false at the end of the stream
// or on error; Err distinguishes the two.
func (d *decoder) Next() (ok bool) {
	if d.err != nil {
		return false
	}

	// Ensure current field was fully read before moving on...
	if !d.finished {
		d.err = d.Seek()
		if d.err != nil {
			return false
		}
	}

	// Reset state for next field.
	d.value[0] = 0
	d.t = Unknown

	d.size = 0
	d.data = nil
	d.finished = false

	// Read the field control block.
	_, err := io.ReadFull(d.r, d.value[:])
	if err != nil {
		if errors.Is(err, io.EOF) {
			d.finished = true
			return false
		}

		d.err = oops.Trace(err)

		return false
	}

	d.consumed++

	t, ok := Types.Match(d.value[0])
	if !ok {
		d.err = Error.New("unexpected byte: %08b", d.value[0])

		return false
	}

	switch t {
	case Empty, Null:
		d.finished = true
	}

	d.t = t

	return true
}

func (d *decoder) Err() error {
	return d.err
}

func (d *decoder) Type() Type {
	return d.t
}

func (d *decoder) Consumed() uint64 {
	return d.consumed
}

// Size returns the count of data bytes in the current field.
func (d *decoder) Size() (_ uint64, err error) {
	defer func() {
		if err != nil {
			d.size = 0
			d.err = err
		}
	}()

	if d.size != 0 {
		return d.size, nil
	}

	switch d.t {
	case Data:
		d.size = 1
	case DataSize:
		d.size = uint64(d.value[0]&d.t.Mask) + 1
	case Data1:
		d.size = 2
	case Data2:
		d.size = 3
	case DataSizeSize:
		sizeSize := int(d.value[0]&d.t.Mask) + 1
		if sizeSize > 8 {
			return 0, Error.New("unimplemented: size >= 2^64")
		}

		sizeBytes := make([]byte, 8)
		err = d.read(sizeBytes[8-sizeSize:])
		if err != nil {
			return 0, err
		}

		size := binary.BigEndian.Uint64(sizeBytes)
		if size == ^uint64(0) {
			return 0, Error.New("unimplemented: size >= 2^64")
		}

		d.size = size + 1
		if d.size > MaxSize {
			return 0, Error.New("data size exceeds limit: size=%d limit=%d", d.size, MaxSize)
		}
	default:
		return 0, oops.Trace(ErrInvalidOperation)
	}

	return d.size, nil
}

// Data reads data bits and bytes from the field. If the field does not contain
// data it returns nil and ErrInvalidOperation.
func (d *decoder) Data() (data []byte, err error) {
	defer func() {
		if err != nil {
			d.data = nil
			d.err = err
		}
	}()

	if !IsData(d.t) {
		return nil, oops.Trace(ErrInvalidOperation)
	}

	if d.data != nil {
		return d.data, nil
	}

	_, err = d.Size()
	if err != nil {
		return nil, err
	}

	switch d.t {
	case Data:
		d.data = []byte{d.value[0] & d.t.Mask}
	case DataSize, DataSizeSize:
		d.data = make([]byte, d.size)

		err = d.read(d.data)
		if err != nil {
			return nil, err
		}
	case Data1, Data2:
		d.data = make([]byte, d.size)
		d.data[0] = d.value[0] & d.t.Mask

		err = d.read(d.data[1:])
		if err != nil {
			return nil, err
		}
	}

	d.finished = true

	return d.data, nil
}
