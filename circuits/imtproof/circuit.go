// Package imtproof verifies a binary Incremental Merkle Tree membership
// proof inside a gnark circuit. The gadget follows LeanIMT's padding
// convention: a sibling equal to the field's zero digest marks a level
// with no real sibling, and such a level is folded in without advancing
// the hash. pkg/imt hashes every level, zero siblings included, so an
// arity-2 IMT proof verifies here only when none of its siblings is the
// field's zero element.
package imtproof

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash"
	"github.com/consensys/gnark/std/permutation/poseidon2"

	"github.com/zkforge/merkletrees/config"
)

// Circuit mirrors pkg/leanimt.VerifyProof: Siblings[i] equal to the
// field's zero element means "promote unchanged", matching the host-side
// Empty sentinel. Unlike pkg/imt.VerifyProof, it does not hash against a
// zero sibling.
type Circuit struct {
	// Public inputs.
	Root frontend.Variable `gnark:"root,public"`

	// Private inputs.
	Leaf       frontend.Variable                         `gnark:"leaf"`
	Directions [config.IMTCircuitDepth]frontend.Variable `gnark:"directions"`
	Siblings   [config.IMTCircuitDepth]frontend.Variable `gnark:"siblings"`
}

// Define implements the circuit logic for binary Merkle proof
// verification.
func (c *Circuit) Define(api frontend.API) error {
	p, err := poseidon2.NewPoseidon2FromParameters(api, 2, 6, 50)
	if err != nil {
		return err
	}
	hasher := hash.NewMerkleDamgardHasher(api, p, 0)

	current := c.Leaf

	for i := 0; i < config.IMTCircuitDepth; i++ {
		sibling := c.Siblings[i]
		direction := c.Directions[i]

		siblingIsZero := api.IsZero(sibling)

		hasher.Reset()
		left := api.Select(direction, sibling, current)
		right := api.Select(direction, current, sibling)
		hasher.Write(left, right)
		combined := hasher.Sum()

		current = api.Select(siblingIsZero, current, combined)
	}

	api.AssertIsEqual(current, c.Root)
	return nil
}
