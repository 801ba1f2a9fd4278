package auth

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestNewBcryptHasherCost(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{0, bcrypt.DefaultCost},
		{bcrypt.MinCost - 1, bcrypt.DefaultCost},
		{bcrypt.MaxCost + 1, bcrypt.DefaultCost},
		{bcrypt.MinCost, bcrypt.MinCost},
		{bcrypt.DefaultCost + 2, bcrypt.DefaultCost + 2},
	}
	for _, tc := range cases {
		if got := NewBcryptHasher(tc.in).cost; got != tc.want {
			t.Fatalf("cost %d: expected %d, got %d", tc.in, tc.want, got)
		}
	}
}

func TestBcryptHasherHashAndCompare(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("secret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if cost, err := bcrypt.Cost([]byte(hash)); err != nil || cost != bcrypt.MinCost {
		t.Fatalf("unexpected stored cost %d err=%v", cost, err)
	}
	if err := hasher.Compare(hash, "secret"); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if err := hasher.Compare(hash, "wrong"); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected mismatch, got %v", err)
	}
	if err := hasher.Compare("not-a-hash", "secret"); err == nil || errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected corrupt hash error, got %v", err)
	}
}

func TestBcryptHasherRejectsLongPassword(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)
	if _, err := hasher.Hash(strings.Repeat("p", MaxPasswordBytes+1)); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("expected too long error, got %v", err)
	}
	if _, err := hasher.Hash(strings.Repeat("p", MaxPasswordBytes)); err != nil {
		t.Fatalf("expected %d bytes to hash, got %v", MaxPasswordBytes, err)
	}
}
