// Package control provides the self-describing block framing used for
// requests and result payloads.
//
// Control blocks use a prefix coding scheme to indicate the type of the
// current byte (which then further indicates how many bytes the field
// contains). The intention is to minimize signaling overhead and pack as much
// data directly into the control block as possible.
//
// Control Block
//
// This diagram indicates the bits that are fixed (filled in) vs bits that are
// available for encoding data (blanks). Data and size information is expected
// to be extracted by masking off the fixed bits. This is only the first byte
// (several control block types are multi-byte sequences).
//
//  | 0 | 1 | 2 | 3 | 4 | 5 | 6 | 7 || Type           |                                          |
//  |---------------|---------------||----------------|------------------------------------------|
//  | 1 |                           || Data           | 2^7 = 128 values                         |
//  | 0 . 1 |                       || Data Size      | 2^6 = 64 bytes                           |
//  | 0 . 0 . 1 |                   || Data + 1       | 2^(5+8) = 8192 values                    |
//  | 0 . 0 . 0 . 1 |               || Data + 2       | 2^(4+8+8) = 1048576 values               |
//  | 0 . 0 . 0 . 0 . 1 |           || Data Size Size | up to 2^3 = 8 bytes of size, then data   |
//  | 0 . 0 . 0 . 0 . 0 . 0 . 0 . 1 || Empty          | Empty value                              |
//  | 0 . 0 . 0 . 0 . 0 . 0 . 0 . 0 || Null           | Null value                               |
//  |---------------|---------------||----------------|------------------------------------------|
//
// All sizes are indexed starting at 1 to maximize their effective range. Zero
// length data cannot be written; use the Empty block instead.
//
// Data blocks allow for 7 bits of data to be encoded directly into the block.
//
// Data Size blocks have two parts:
//
//  1. Number of bytes that contain data
//  2. Data
//
// Data + 1 and Data + 2 blocks are two and three byte sequences whose first
// byte carries the high bits of the data.
//
// Data Size Size blocks have 3 parts:
//
//  1. Number of bytes for the data size
//  2. Number of bytes that contain data (big-endian)
//  3. Data
//
// The decoder refuses to allocate fields larger than MaxSize.
//
// The encoder always picks the smallest block able to carry the given bytes,
// so a byte sequence has exactly one encoding.
package control
