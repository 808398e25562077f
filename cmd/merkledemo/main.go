// Command merkledemo drives dev setup, MPC ceremonies and witness
// verification for the Merkle-proof circuits.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/consensys/gnark/frontend"

	"github.com/zkforge/merkletrees/circuits/imtproof"
	"github.com/zkforge/merkletrees/circuits/mimcproof"
	"github.com/zkforge/merkletrees/circuits/smtproof"
	"github.com/zkforge/merkletrees/pkg/setup"
)

// circuitEntry pairs a circuit constructor with the backend its dev setup
// and ceremony should target. newCircuit returns a fresh zero-value circuit
// each time, since compiling happens independently in dev, ceremony and
// verify.
type circuitEntry struct {
	newCircuit func() frontend.Circuit
	backend    setup.Backend
}

var circuitRegistry = map[string]circuitEntry{
	"imt":  {newCircuit: func() frontend.Circuit { return &imtproof.Circuit{} }, backend: setup.Groth16Backend},
	"mimc": {newCircuit: func() frontend.Circuit { return &mimcproof.Circuit{} }, backend: setup.Groth16Backend},
	"smt":  {newCircuit: func() frontend.Circuit { return &smtproof.Circuit{} }, backend: setup.PlonkBackend},
}

func lookupCircuit(name string) circuitEntry {
	entry, ok := circuitRegistry[name]
	if !ok {
		log.Fatalf("unknown circuit: %s (available: imt, mimc, smt)", name)
	}
	return entry
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "dev":
		if len(os.Args) < 3 {
			printUsage()
			os.Exit(1)
		}
		handleDev(os.Args[2])
	case "ceremony":
		if len(os.Args) < 4 {
			printUsage()
			os.Exit(1)
		}
		handleCeremony(os.Args[2], os.Args[3], os.Args[4:])
	case "verify":
		if len(os.Args) < 3 {
			printUsage()
			os.Exit(1)
		}
		if err := runVerify(os.Args[2]); err != nil {
			log.Fatal(err)
		}
	default:
		printUsage()
		os.Exit(1)
	}
}

func handleDev(name string) {
	entry := lookupCircuit(name)

	switch entry.backend {
	case setup.PlonkBackend:
		if err := setup.PlonkDevSetup(entry.newCircuit(), ".", name); err != nil {
			log.Fatal(err)
		}
	default:
		if err := setup.DevSetup(entry.newCircuit(), ".", name); err != nil {
			log.Fatal(err)
		}
	}
}

func handleCeremony(name, step string, rest []string) {
	entry := lookupCircuit(name)
	if entry.backend != setup.Groth16Backend {
		log.Fatalf("MPC ceremony is only supported for Groth16 circuits. %q uses PLONK (universal SRS, dev setup only).", name)
	}

	var err error
	switch step {
	case "p1-init":
		err = setup.CeremonyP1Init(entry.newCircuit())
	case "p1-contribute":
		err = setup.CeremonyP1Contribute()
	case "p1-verify":
		if len(rest) < 1 {
			log.Fatalf("usage: merkledemo ceremony %s p1-verify BEACON_HEX", name)
		}
		err = setup.CeremonyP1Verify(entry.newCircuit(), rest[0])
	case "p2-init":
		err = setup.CeremonyP2Init(entry.newCircuit())
	case "p2-contribute":
		err = setup.CeremonyP2Contribute()
	case "p2-verify":
		if len(rest) < 1 {
			log.Fatalf("usage: merkledemo ceremony %s p2-verify BEACON_HEX", name)
		}
		err = setup.CeremonyP2Verify(entry.newCircuit(), rest[0], ".", name)
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func printUsage() {
	fmt.Println(`Usage:
  merkledemo dev <circuit>                            Single-party dev setup (insecure)
  merkledemo verify <circuit>                         Prove and verify a worked-example witness using saved keys

  merkledemo ceremony <circuit> p1-init                Initialize Phase 1 (Powers of Tau)
  merkledemo ceremony <circuit> p1-contribute          Add a Phase 1 contribution
  merkledemo ceremony <circuit> p1-verify HEX          Verify Phase 1 & seal with random beacon

  merkledemo ceremony <circuit> p2-init                Initialize Phase 2 (circuit-specific)
  merkledemo ceremony <circuit> p2-contribute          Add a Phase 2 contribution
  merkledemo ceremony <circuit> p2-verify HEX          Verify Phase 2, seal & export keys

Circuits: imt (Poseidon2, Groth16), mimc (MiMC, Groth16), smt (Poseidon2, PLONK)

Note: MPC ceremony is only available for Groth16 circuits.
      PLONK circuits use a universal SRS and only need "dev" setup.

Ceremony workflow (Groth16 only):
  1. p1-init          Coordinator creates the initial Phase 1 state
  2. p1-contribute    Each participant contributes (repeat N times)
  3. p1-verify        Coordinator verifies all & seals with a public beacon
  4. p2-init          Coordinator initializes Phase 2 with the circuit
  5. p2-contribute    Each participant contributes (repeat M times)
  6. p2-verify        Coordinator verifies all, seals, and exports final keys

Security: 1-of-N honest — if any single contributor is honest, the setup is secure.
Beacon: use a public randomness source (e.g. League of Entropy) evaluated AFTER the last contribution.`)
}
