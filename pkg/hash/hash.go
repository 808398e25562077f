// Package hash adapts gnark-crypto's field hash functions to the HashFn
// and Hasher contracts used by pkg/imt, pkg/leanimt and pkg/smt, so trees
// can be built over the same BN254 scalar field the circuits package
// verifies proofs in.
package hash

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/poseidon2"
)

// Digest is a single BN254 scalar field element. It is comparable, so it
// satisfies the `comparable` constraint the tree packages require of N.
type Digest = fr.Element

// Zero is the BN254 field's additive identity, used as the IMT/SMT "Z0"
// sentinel.
func Zero() Digest {
	var z Digest
	return z
}

// One returns the field element 1, used as the SMT "Z1" leaf tag.
func One() Digest {
	var one Digest
	one.SetOne()
	return one
}

// FromBytes reduces an arbitrary byte string into a field element. It is
// not collision resistant on its own; use it to build leaf values from
// external data before combining them with a hash below.
func FromBytes(b []byte) Digest {
	var d Digest
	d.SetBytes(b)
	return d
}

// FromUint64 embeds a small integer as a field element, handy for test
// fixtures and simple leaf values.
func FromUint64(v uint64) Digest {
	var d Digest
	d.SetUint64(v)
	return d
}

// KeyDigest maps an SMT key into the same field the leaf values and
// internal hashes live in, so pkg/smt can mix key, value and tag under
// one HashFn. Keys are assumed non-negative (pkg/smt validates this).
func KeyDigest(key *big.Int) Digest {
	var d Digest
	d.SetBigInt(key)
	return d
}

// Poseidon2 combines an ordered slice of digests with gnark-crypto's
// Poseidon2 Merkle-Damgard sponge. It satisfies imt.HashFn[Digest] and
// smt.HashFn[Digest] directly.
func Poseidon2(children []Digest) Digest {
	h := poseidon2.NewMerkleDamgardHasher()
	for _, c := range children {
		b := c.Bytes()
		h.Write(b[:])
	}
	var out Digest
	out.SetBytes(h.Sum(nil))
	return out
}

// Poseidon2Pair is Poseidon2 specialized to two children, matching
// leanimt.Hasher[Digest]'s two-argument shape.
func Poseidon2Pair(a, b Digest) Digest {
	return Poseidon2([]Digest{a, b})
}

// MiMC combines an ordered slice of digests with gnark-crypto's MiMC
// hash over BN254, the same permutation circuits/mimcproof verifies
// in-circuit via std/hash/mimc. It satisfies imt.HashFn[Digest] and
// smt.HashFn[Digest] directly.
func MiMC(children []Digest) Digest {
	h := mimc.NewMiMC()
	for _, c := range children {
		b := c.Bytes()
		h.Write(b[:])
	}
	var out Digest
	out.SetBytes(h.Sum(nil))
	return out
}

// MiMCPair is MiMC specialized to two children, matching
// leanimt.Hasher[Digest]'s two-argument shape.
func MiMCPair(a, b Digest) Digest {
	return MiMC([]Digest{a, b})
}

// Equal reports whether two digests hold the same field value. It
// satisfies the `func(a, b N) bool` shape pkg/leanimt accepts as its
// optional equality function.
func Equal(a, b Digest) bool {
	return a.Equal(&b)
}
