package anchor

import (
	"crypto/sha256"
	"errors"

	"filippo.io/edwards25519"
	"github.com/gagliardetto/solana-go"
)

const MaxSeeds = 16
const MaxSeedLen = 32
const PdaMarker = "ProgramDerivedAddress"

var (
	ErrTooManySeeds = errors.New("Max seeds (16) exceeded")
	ErrSeedLength   = errors.New("Max seed length (32) exceeded")
	ErrOnCurve      = errors.New("Invalid seeds - derived address must be off-curve")
	ErrNoValidBump  = errors.New("No valid bump found for the given seeds")
)

// DerivedAddress is a program derived address together with the bump that
// produced it.
type DerivedAddress struct {
	Address solana.PublicKey
	Bump    uint8
}

// CreateProgramAddress derives the address for the given seeds without a
// bump search. Returns ErrOnCurve when the candidate lands on the ed25519
// curve, i.e. would be signable.
func CreateProgramAddress(seeds [][]byte, programID solana.PublicKey) (solana.PublicKey, error) {
	if len(seeds) > MaxSeeds {
		return solana.PublicKey{}, ErrTooManySeeds
	}

	hasher := sha256.New()
	for _, seed := range seeds {
		if len(seed) > MaxSeedLen {
			return solana.PublicKey{}, ErrSeedLength
		}
		hasher.Write(seed)
	}

	hasher.Write(programID[:])
	hasher.Write([]byte(PdaMarker))
	hash := hasher.Sum(nil)

	if IsOnCurve(hash) {
		return solana.PublicKey{}, ErrOnCurve
	}

	return solana.PublicKeyFromBytes(hash), nil
}

// FindProgramAddress searches bumps from 255 down to 0 and returns the
// first off-curve derivation. The search is deterministic; ErrNoValidBump
// is returned only when the full byte range is exhausted.
func FindProgramAddress(seeds [][]byte, programID solana.PublicKey) (DerivedAddress, error) {
	for bump := 255; bump >= 0; bump-- {
		addr, err := CreateProgramAddressWithBump(seeds, uint8(bump), programID)
		if err == nil {
			return DerivedAddress{Address: addr, Bump: uint8(bump)}, nil
		}
		if !errors.Is(err, ErrOnCurve) {
			return DerivedAddress{}, err
		}
	}
	return DerivedAddress{}, ErrNoValidBump
}

// CreateProgramAddressWithBump re-derives an address whose bump is already
// known, skipping the search.
func CreateProgramAddressWithBump(seeds [][]byte, bump uint8, programID solana.PublicKey) (solana.PublicKey, error) {
	if len(seeds) >= MaxSeeds {
		return solana.PublicKey{}, ErrTooManySeeds
	}
	withBump := make([][]byte, 0, len(seeds)+1)
	withBump = append(withBump, seeds...)
	withBump = append(withBump, []byte{bump})
	return CreateProgramAddress(withBump, programID)
}

// IsOnCurve checks if b is a valid point on the ed25519 curve.
func IsOnCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}
