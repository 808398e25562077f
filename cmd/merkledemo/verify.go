package main

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/plonk"
	"github.com/consensys/gnark/frontend"

	"github.com/zkforge/merkletrees/circuits/imtproof"
	"github.com/zkforge/merkletrees/circuits/mimcproof"
	"github.com/zkforge/merkletrees/circuits/smtproof"
	"github.com/zkforge/merkletrees/config"
	"github.com/zkforge/merkletrees/pkg/hash"
	"github.com/zkforge/merkletrees/pkg/leanimt"
	"github.com/zkforge/merkletrees/pkg/setup"
	"github.com/zkforge/merkletrees/pkg/smt"
)

// runVerify compiles the named circuit, loads the keys a prior "dev" run
// exported, builds a small worked-example witness, proves and verifies it.
// It exercises setup.LoadKeys/setup.LoadPlonkKeys, which dev/ceremony never
// need (they only ever export keys, not reload them).
func runVerify(name string) error {
	entry := lookupCircuit(name)

	assignment, err := buildWitness(name)
	if err != nil {
		return fmt.Errorf("build witness: %w", err)
	}

	if entry.backend == setup.PlonkBackend {
		return verifyPlonk(entry, name, assignment)
	}
	return verifyGroth16(entry, name, assignment)
}

func verifyGroth16(entry circuitEntry, name string, assignment frontend.Circuit) error {
	ccs, err := setup.CompileCircuit(entry.newCircuit())
	if err != nil {
		return err
	}

	pk, vk, err := setup.LoadKeys(".", name)
	if err != nil {
		return fmt.Errorf("load keys (run `merkledemo dev %s` first): %w", name, err)
	}

	witness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return fmt.Errorf("build witness: %w", err)
	}
	publicWitness, err := witness.Public()
	if err != nil {
		return err
	}

	proof, err := groth16.Prove(ccs, pk, witness)
	if err != nil {
		return fmt.Errorf("prove: %w", err)
	}
	if err := groth16.Verify(proof, vk, publicWitness); err != nil {
		return fmt.Errorf("verify: %w", err)
	}

	fmt.Printf("%s: Groth16 proof verified successfully\n", name)
	return nil
}

func verifyPlonk(entry circuitEntry, name string, assignment frontend.Circuit) error {
	ccs, err := setup.CompileCircuitForBackend(entry.newCircuit(), setup.PlonkBackend)
	if err != nil {
		return err
	}

	pk, vk, err := setup.LoadPlonkKeys(".", name)
	if err != nil {
		return fmt.Errorf("load keys (run `merkledemo dev %s` first): %w", name, err)
	}

	witness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return fmt.Errorf("build witness: %w", err)
	}
	publicWitness, err := witness.Public()
	if err != nil {
		return err
	}

	proof, err := plonk.Prove(ccs, pk, witness)
	if err != nil {
		return fmt.Errorf("prove: %w", err)
	}
	if err := plonk.Verify(proof, vk, publicWitness); err != nil {
		return fmt.Errorf("verify: %w", err)
	}

	fmt.Printf("%s: PLONK proof verified successfully\n", name)
	return nil
}

// buildWitness assembles a small worked-example tree and proof for the
// named circuit and returns the fully populated circuit assignment.
func buildWitness(name string) (frontend.Circuit, error) {
	switch name {
	case "imt":
		return buildIMTWitness(hash.Poseidon2Pair)
	case "mimc":
		return buildMiMCWitness()
	case "smt":
		return buildSMTWitness()
	default:
		return nil, fmt.Errorf("no witness builder for circuit %q", name)
	}
}

func toVariable(d hash.Digest) frontend.Variable {
	return d.BigInt(new(big.Int))
}

func buildIMTWitness(pairHash leanimt.Hasher[hash.Digest]) (*imtproof.Circuit, error) {
	tree, err := leanimt.New(pairHash, hash.Equal, hash.Zero())
	if err != nil {
		return nil, err
	}
	for i := uint64(1); i <= 9; i++ {
		if err := tree.Insert(hash.FromUint64(i)); err != nil {
			return nil, err
		}
	}

	const proofIndex = 5
	proof, err := tree.GenerateProof(proofIndex)
	if err != nil {
		return nil, err
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

	return &imtproof.Circuit{
		Root:       toVariable(proof.Root),
		Leaf:       toVariable(proof.Leaf),
		Directions: directions,
		Siblings:   siblings,
	}, nil
}

func buildMiMCWitness() (*mimcproof.Circuit, error) {
	imtWitness, err := buildIMTWitness(hash.MiMCPair)
	if err != nil {
		return nil, err
	}
	return &mimcproof.Circuit{
		Root:       imtWitness.Root,
		Leaf:       imtWitness.Leaf,
		Directions: imtWitness.Directions,
		Siblings:   imtWitness.Siblings,
	}, nil
}

func buildSMTWitness() (*smtproof.Circuit, error) {
	tree, err := smt.New[hash.Digest](hash.Poseidon2, hash.KeyDigest, config.SMTCircuitDepth, hash.Zero(), hash.One(), true)
	if err != nil {
		return nil, err
	}

	keys := []int64{3, 9, 40, 1000}
	for _, k := range keys {
		if err := tree.Add(big.NewInt(k), hash.FromUint64(uint64(k)*7+1)); err != nil {
			return nil, err
		}
	}

	const target = 40
	proof := tree.CreateProof(big.NewInt(target))
	if !proof.Membership {
		return nil, fmt.Errorf("worked example key %d unexpectedly missing", target)
	}

	var siblings [config.SMTCircuitDepth]frontend.Variable
	var active [config.SMTCircuitDepth]frontend.Variable
	for i := 0; i < config.SMTCircuitDepth; i++ {
		if i < len(proof.Siblings) {
			siblings[i] = toVariable(proof.Siblings[i])
			active[i] = 1
		} else {
			siblings[i] = toVariable(hash.Zero())
			active[i] = 0
		}
	}

	return &smtproof.Circuit{
		Root:          toVariable(proof.Root),
		Key:           proof.Key,
		Value:         toVariable(proof.Value),
		LeafTag:       toVariable(hash.One()),
		Siblings:      siblings,
		SiblingActive: active,
	}, nil
}
