// Package config centralizes the fixed-size parameters the circuits
// package compiles against. Host-side trees (pkg/imt, pkg/leanimt,
// pkg/smt) are not bound by these: their depth, arity and key width are
// ordinary constructor arguments, chosen per tree instance.
package config

const (
	// IMTCircuitDepth and IMTCircuitArity bound circuits/imtproof's
	// witness size. The gadget only supports the binary case, which also
	// covers LeanIMT proofs (see circuits/imtproof's doc comment).
	IMTCircuitDepth = 20
	IMTCircuitArity = 2

	// SMTCircuitDepth bounds circuits/smtproof's witness size: the key
	// bit-width the gadget decomposes Key into.
	SMTCircuitDepth = 32
)
