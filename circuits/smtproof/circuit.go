// Package smtproof verifies a Sparse Merkle Tree membership proof inside
// a gnark circuit. Non-membership verification stays host-side only
// (pkg/smt.VerifyProof already covers it); the circuit gadget, like the
// teacher's own circuits, only ever attests inclusion.
package smtproof

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash"
	"github.com/consensys/gnark/std/permutation/poseidon2"

	"github.com/zkforge/merkletrees/config"
)

// Circuit mirrors pkg/smt.VerifyProof's membership branch: it recomputes
// the leaf hash from Key/Value/LeafTag, then walks Siblings using Key's
// own bits (MSB-first, matching pkg/smt.bitAt) to pick each hash's
// left/right order.
//
// Unlike circuits/imtproof, a sibling equal to the field's zero element
// is not itself the padding signal here: pkg/smt's dense single-branch
// chains legitimately hash against a zero sibling. SiblingActive carries
// the real signal, mirroring the Enables-style bitmask pattern: 1 marks
// one of the len(proof.Siblings) levels pkg/smt actually walked, 0 marks
// trailing padding out to the fixed circuit depth.
type Circuit struct {
	// Public inputs.
	Root frontend.Variable `gnark:"root,public"`
	Key  frontend.Variable `gnark:"key,public"`

	// Private inputs.
	Value         frontend.Variable                          `gnark:"value"`
	LeafTag       frontend.Variable                          `gnark:"leafTag"`
	Siblings      [config.SMTCircuitDepth]frontend.Variable  `gnark:"siblings"`
	SiblingActive [config.SMTCircuitDepth]frontend.Variable  `gnark:"siblingActive"`
}

// Define implements the circuit logic for SMT membership verification.
func (c *Circuit) Define(api frontend.API) error {
	p, err := poseidon2.NewPoseidon2FromParameters(api, 2, 6, 50)
	if err != nil {
		return err
	}
	hasher := hash.NewMerkleDamgardHasher(api, p, 0)

	hasher.Write(c.Key, c.Value, c.LeafTag)
	current := hasher.Sum()

	keyBits := api.ToBinary(c.Key, config.SMTCircuitDepth)

	// Climb from the deepest level to the root, as pkg/smt.VerifyProof
	// does: inactive padding levels come last in Siblings, so they are
	// passed over first and leave current unchanged.
	for i := config.SMTCircuitDepth - 1; i >= 0; i-- {
		sibling := c.Siblings[i]
		active := c.SiblingActive[i]
		// bitAt(level=i) reads bit (depth-1-i), MSB-first, matching
		// pkg/smt.bitAt.
		direction := keyBits[config.SMTCircuitDepth-1-i]

		hasher.Reset()
		left := api.Select(direction, sibling, current)
		right := api.Select(direction, current, sibling)
		hasher.Write(left, right)
		combined := hasher.Sum()

		current = api.Select(active, combined, current)
	}

	api.AssertIsEqual(current, c.Root)
	return nil
}
