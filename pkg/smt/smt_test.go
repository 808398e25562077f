package smt_test

import (
	"fmt"
	"math/big"
	"strings"
	"testing"

	"github.com/zkforge/merkletrees/pkg/smt"
)

// joinHash mirrors the other tree packages' tests: a human-readable,
// order-sensitive stand-in for a real hash function.
func joinHash(children []string) string {
	return strings.Join(children, "|")
}

func keyDigest(key *big.Int) string {
	return "k" + key.String()
}

const (
	zero  = "Z0"
	one   = "Z1"
	depth = 6
)

func newTree(t *testing.T) *smt.SMT[string] {
	t.Helper()
	tree, err := smt.New(joinHash, keyDigest, depth, zero, one, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return tree
}

func TestEmptyTreeRootIsZero(t *testing.T) {
	tree := newTree(t)
	if got := tree.Root(); got != zero {
		t.Fatalf("Root() = %q, want %q", got, zero)
	}
}

func TestAddGetUpdateDelete(t *testing.T) {
	tree := newTree(t)

	if err := tree.Add(big.NewInt(5), "v5"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if got, ok := tree.Get(big.NewInt(5)); !ok || got != "v5" {
		t.Fatalf("Get(5) = (%q, %v), want (\"v5\", true)", got, ok)
	}

	if err := tree.Update(big.NewInt(5), "v5-updated"); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got, _ := tree.Get(big.NewInt(5)); got != "v5-updated" {
		t.Fatalf("Get(5) after Update = %q, want v5-updated", got)
	}

	if err := tree.Delete(big.NewInt(5)); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := tree.Get(big.NewInt(5)); ok {
		t.Fatal("Get(5) after Delete ok = true, want false")
	}
	if got := tree.Root(); got != zero {
		t.Fatalf("Root() after deleting the only key = %q, want %q", got, zero)
	}
}

func TestDeleteRestoresPriorRoot(t *testing.T) {
	tree := newTree(t)
	if err := tree.Add(big.NewInt(1), "v1"); err != nil {
		t.Fatalf("Add(1): %v", err)
	}
	rootAfterFirst := tree.Root()

	if err := tree.Add(big.NewInt(50), "v50"); err != nil {
		t.Fatalf("Add(50): %v", err)
	}
	if err := tree.Delete(big.NewInt(50)); err != nil {
		t.Fatalf("Delete(50): %v", err)
	}

	if got := tree.Root(); got != rootAfterFirst {
		t.Fatalf("Root() after add-then-delete = %q, want %q (the pre-add root)", got, rootAfterFirst)
	}
}

func TestAddRejectsDuplicateKey(t *testing.T) {
	tree := newTree(t)
	_ = tree.Add(big.NewInt(7), "v7")
	if err := tree.Add(big.NewInt(7), "other"); err != smt.ErrKeyAlreadyExists {
		t.Fatalf("Add duplicate error = %v, want ErrKeyAlreadyExists", err)
	}
}

func TestUpdateAndDeleteMissingKey(t *testing.T) {
	tree := newTree(t)
	if err := tree.Update(big.NewInt(9), "v"); err != smt.ErrKeyDoesNotExist {
		t.Fatalf("Update missing error = %v, want ErrKeyDoesNotExist", err)
	}
	if err := tree.Delete(big.NewInt(9)); err != smt.ErrKeyDoesNotExist {
		t.Fatalf("Delete missing error = %v, want ErrKeyDoesNotExist", err)
	}
}

func TestKeyOutOfRange(t *testing.T) {
	tree := newTree(t)
	tooBig := new(big.Int).Lsh(big.NewInt(1), depth+1)
	if err := tree.Add(tooBig, "v"); err != smt.ErrInvalidParameterType {
		t.Fatalf("Add(tooBig) error = %v, want ErrInvalidParameterType", err)
	}
	if err := tree.Add(big.NewInt(-1), "v"); err != smt.ErrInvalidParameterType {
		t.Fatalf("Add(-1) error = %v, want ErrInvalidParameterType", err)
	}
}

func TestMembershipProofRoundTrip(t *testing.T) {
	tree := newTree(t)
	keys := []int64{1, 2, 3, 17, 30, 63}
	for _, k := range keys {
		if err := tree.Add(big.NewInt(k), fmt.Sprintf("v%d", k)); err != nil {
			t.Fatalf("Add(%d): %v", k, err)
		}
	}

	for _, k := range keys {
		proof := tree.CreateProof(big.NewInt(k))
		if !proof.Membership {
			t.Fatalf("CreateProof(%d).Membership = false, want true", k)
		}
		if !tree.VerifyProof(proof) {
			t.Fatalf("VerifyProof(%d) = false, want true", k)
		}
	}
}

func TestNonMembershipProofEmptySlot(t *testing.T) {
	tree := newTree(t)
	_ = tree.Add(big.NewInt(1), "v1")
	// A second key makes the root an internal node, so the walk for 40
	// (first bit 1) reaches an empty child instead of a lone root leaf.
	_ = tree.Add(big.NewInt(2), "v2")

	proof := tree.CreateProof(big.NewInt(40))
	if proof.Membership {
		t.Fatal("CreateProof(40).Membership = true, want false (key was never added)")
	}
	if proof.HasMatching {
		t.Fatal("CreateProof(40).HasMatching = true, want false (slot should be empty)")
	}
	if !tree.VerifyProof(proof) {
		t.Fatal("VerifyProof(40) = false, want true")
	}
}

func TestNonMembershipProofCollider(t *testing.T) {
	tree := newTree(t)
	// Two keys sharing a long common bit prefix so the walk for the
	// absent one terminates at the other's leaf (a "collider").
	if err := tree.Add(big.NewInt(16), "v16"); err != nil {
		t.Fatalf("Add(16): %v", err)
	}

	proof := tree.CreateProof(big.NewInt(17))
	if proof.Membership {
		t.Fatal("CreateProof(17).Membership = true, want false")
	}
	if !proof.HasMatching {
		t.Fatal("CreateProof(17).HasMatching = false, want true (should surface the colliding leaf)")
	}
	if proof.MatchingKey.Cmp(big.NewInt(16)) != 0 {
		t.Fatalf("MatchingKey = %v, want 16", proof.MatchingKey)
	}
	if !tree.VerifyProof(proof) {
		t.Fatal("VerifyProof(17) = false, want true")
	}
}

func TestVerifyProofRejectsTamperedRoot(t *testing.T) {
	tree := newTree(t)
	_ = tree.Add(big.NewInt(3), "v3")

	proof := tree.CreateProof(big.NewInt(3))
	proof.Root = "tampered"
	if tree.VerifyProof(proof) {
		t.Fatal("VerifyProof() = true for tampered root, want false")
	}
}

func TestVerifyProofRejectsForgedValue(t *testing.T) {
	tree := newTree(t)
	_ = tree.Add(big.NewInt(3), "v3")

	proof := tree.CreateProof(big.NewInt(3))
	proof.Value = "forged"
	if tree.VerifyProof(proof) {
		t.Fatal("VerifyProof() = true for forged value, want false")
	}
}

func TestManyKeysProofsVerifyAndDeleteReAddRestoresRoot(t *testing.T) {
	tree := newTree(t)
	keys := []int64{2, 4, 8, 9, 20, 21, 40, 62}
	for _, k := range keys {
		if err := tree.Add(big.NewInt(k), fmt.Sprintf("v%d", k)); err != nil {
			t.Fatalf("Add(%d): %v", k, err)
		}
	}

	for _, k := range keys {
		proof := tree.CreateProof(big.NewInt(k))
		if !tree.VerifyProof(proof) {
			t.Fatalf("VerifyProof(%d) = false after bulk Add, want true", k)
		}
	}

	// Deleting and re-adding the same key/value should restore the root.
	before := tree.Root()
	if err := tree.Delete(big.NewInt(40)); err != nil {
		t.Fatalf("Delete(40): %v", err)
	}
	if err := tree.Add(big.NewInt(40), "v40"); err != nil {
		t.Fatalf("Add(40) again: %v", err)
	}
	if got := tree.Root(); got != before {
		t.Fatalf("Root() after delete+re-add = %q, want %q", got, before)
	}
}
