// Package mimcproof verifies a binary Incremental Merkle Tree membership
// proof inside a gnark circuit, using MiMC instead of circuits/imtproof's
// Poseidon2. Same LeanIMT padding convention: Siblings[i] equal to the
// field's zero element means "promote unchanged", so an arity-2 pkg/imt
// proof verifies here only when none of its siblings is that zero element.
package mimcproof

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/mimc"

	"github.com/zkforge/merkletrees/config"
)

// Circuit mirrors pkg/leanimt.VerifyProof, hashed with MiMC rather than
// Poseidon2. Unlike pkg/imt.VerifyProof, it does not hash against a zero
// sibling.
type Circuit struct {
	// Public inputs.
	Root frontend.Variable `gnark:"root,public"`

	// Private inputs.
	Leaf       frontend.Variable                         `gnark:"leaf"`
	Directions [config.IMTCircuitDepth]frontend.Variable `gnark:"directions"`
	Siblings   [config.IMTCircuitDepth]frontend.Variable `gnark:"siblings"`
}

// Define implements the circuit logic for binary Merkle proof verification.
func (c *Circuit) Define(api frontend.API) error {
	hasher, err := mimc.NewMiMC(api)
	if err != nil {
		return err
	}

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
