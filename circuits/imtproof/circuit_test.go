package imtproof_test

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/test"

	"github.com/zkforge/merkletrees/circuits/imtproof"
	"github.com/zkforge/merkletrees/config"
	"github.com/zkforge/merkletrees/pkg/hash"
	"github.com/zkforge/merkletrees/pkg/leanimt"
)

func toVariable(d hash.Digest) frontend.Variable {
	return d.BigInt(new(big.Int))
}

func TestIMTProofCircuitVerifiesLeanIMTProof(t *testing.T) {
	tree, err := leanimt.New(hash.Poseidon2Pair, hash.Equal, hash.Zero())
	if err != nil {
		t.Fatalf("leanimt.New: %v", err)
	}

	for i := uint64(1); i <= 9; i++ {
		if err := tree.Insert(hash.FromUint64(i)); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	const proofIndex = 5
	proof, err := tree.GenerateProof(proofIndex)
	if err != nil {
		t.Fatalf("GenerateProof: %v", err)
	}
	if !tree.VerifyProof(proof) {
		t.Fatal("host-side VerifyProof rejected a freshly generated proof")
	}

	var directions [config.IMTCircuitDepth]frontend.Variable
	var siblings [config.IMTCircuitDepth]frontend.Variable

	index := proof.Index
	for i := 0; i < config.IMTCircuitDepth; i++ {
		if i < len(proof.Siblings) {
			sibling := proof.Siblings[i]
			siblings[i] = toVariable(sibling)
			if hash.Equal(sibling, hash.Zero()) {
				directions[i] = 0
			} else {
				directions[i] = index % 2
			}
			index /= 2
		} else {
			siblings[i] = toVariable(hash.Zero())
			directions[i] = 0
		}
	}

	circuit := &imtproof.Circuit{}
	witness := &imtproof.Circuit{
		Root:       toVariable(proof.Root),
		Leaf:       toVariable(proof.Leaf),
		Directions: directions,
		Siblings:   siblings,
	}

	assert := test.NewAssert(t)
	assert.SolvingSucceeded(circuit, witness, test.WithCurves(ecc.BN254), test.WithBackends(backend.GROTH16))
}
