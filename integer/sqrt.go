package integer

import (
	"math/bits"

	"github.com/holiman/uint256"

	"github.com/calebcase/cubench/matherr"
)

// SqrtU64 returns floor(sqrt(n)).
//
// The root is built one bit at a time from the highest even bit position of
// n down, so every intermediate stays within 64 bits.
func SqrtU64(n uint64) uint64 {
	if n < 2 {
		return n
	}

	var root uint64

	bit := uint64(1) << ((63 - bits.LeadingZeros64(n)) &^ 1)
	for bit != 0 {
		if n >= root+bit {
			n -= root + bit
			root = root>>1 + bit
		} else {
			root >>= 1
		}

		bit >>= 2
	}

	return root
}

// SqrtU128 returns floor(sqrt(n)) for a 128-bit operand. It fails with
// matherr.Overflow only if n is wider than 128 bits.
func SqrtU128(n *uint256.Int) (_ *uint256.Int, err error) {
	if n.BitLen() > 128 {
		return nil, Error.Wrap(matherr.Overflow)
	}

	root := new(uint256.Int)
	if n.IsZero() {
		return root, nil
	}

	rem := new(uint256.Int).Set(n)
	bit := new(uint256.Int).Lsh(uint256.NewInt(1), uint(n.BitLen()-1)&^1)

	var t uint256.Int
	for !bit.IsZero() {
		t.Add(root, bit)

		if !rem.Lt(&t) {
			rem.Sub(rem, &t)
			root.Rsh(root, 1)
			root.Add(root, bit)
		} else {
			root.Rsh(root, 1)
		}

		bit.Rsh(bit, 2)
	}

	return root, nil
}
