package control

import (
	"encoding/binary"
	"io"

	"github.com/calebcase/oops"
)

// Encoder writes control blocks to a stream.
type Encoder interface {
	Data(data []byte) (err error)
	Empty() (err error)
	Null() (err error)
}

type encoder struct {
	w io.Writer
}

// NewEncoder returns an encoder writing control blocks to w.
func NewEncoder(w io.Writer) Encoder {
	return &encoder{
		w: w,
	}
}

func (e *encoder) write(bs []byte) (err error) {
	_, err = e.w.Write(bs)
	if err != nil {
		return oops.Trace(err)
	}

	return nil
}

// Data writes data using the smallest block that can carry it.
func (e *encoder) Data(data []byte) (err error) {
	size := len(data)

	switch {
	case size == 0:
		return Error.New("invalid: size=0")
	case size == 1 && data[0]&Data.Mask == data[0]:
		return e.write([]byte{
			Data.Prefix | data[0],
		})
	case size == 2 && data[0]&Data1.Mask == data[0]:
		return e.write([]byte{
			Data1.Prefix | data[0],
			data[1],
		})
	case size == 3 && data[0]&Data2.Mask == data[0]:
		return e.write([]byte{
			Data2.Prefix | data[0],
			data[1],
			data[2],
		})
	case size <= 64:
		return e.write(append(
			[]byte{DataSize.Prefix | byte(size-1)},
			data...,
		))
	case uint64(size) <= MaxSize:
		sb := make([]byte, 8)
		binary.BigEndian.PutUint64(sb, uint64(size-1))

		// Trim to the minimal big-endian size, keeping at least one byte.
		for len(sb) > 1 && sb[0] == 0 {
			sb = sb[1:]
		}

		err = e.write([]byte{DataSizeSize.Prefix | byte(len(sb)-1)})
		if err != nil {
			return err
		}

		err = e.write(sb)
		if err != nil {
			return err
		}

		return e.write(data)
	}

	return Error.New("data size exceeds limit: size=%d limit=%d", size, MaxSize)
}

// Empty writes an empty value.
func (e *encoder) Empty() (err error) {
	return e.write([]byte{Empty.Prefix})
}

// Null writes a null value.
func (e *encoder) Null() (err error) {
	return e.write([]byte{Null.Prefix})
}
