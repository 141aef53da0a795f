package idl

import (
	"errors"
	"fmt"

	"github.com/brimigs/anchor-litesvm/pkg/ledger"
	"github.com/gagliardetto/solana-go"
)

var ErrMissingRole = errors.New("ErrMissingRole")

// AccountRole is a call-site binding of a role name to an address with
// signer/writable annotations.
type AccountRole struct {
	Address    solana.PublicKey
	IsSigner   bool
	IsWritable bool
}

// RoleSet maps role names to bindings. It is unordered on purpose: the
// resolver alone decides positions.
type RoleSet map[string]AccountRole

func ReadOnly(address solana.PublicKey) AccountRole {
	return AccountRole{Address: address}
}

func Writable(address solana.PublicKey) AccountRole {
	return AccountRole{Address: address, IsWritable: true}
}

// Signer marks a writable signer, the common case for fee-paying
// authorities.
func Signer(address solana.PublicKey) AccountRole {
	return AccountRole{Address: address, IsSigner: true, IsWritable: true}
}

func ReadOnlySigner(address solana.PublicKey) AccountRole {
	return AccountRole{Address: address, IsSigner: true}
}

// Resolve converts a role set into the positionally-ordered account list
// the instruction definition declares. The output order is exactly the
// definition's canonical order regardless of how the caller enumerated the
// set; a required role absent from the set fails with ErrMissingRole naming
// it. Flags are the union of the definition's and the call site's, so a
// caller can never silently demote a signer or writable role.
func Resolve(def *InstructionDef, roles RoleSet) ([]ledger.AccountMeta, error) {
	metas := make([]ledger.AccountMeta, 0, len(def.Accounts))
	for _, role := range def.Accounts {
		binding, ok := roles[role.Name]
		if !ok {
			return nil, fmt.Errorf("%w: instruction %q requires role %q", ErrMissingRole, def.Name, role.Name)
		}
		metas = append(metas, ledger.AccountMeta{
			Pubkey:     binding.Address,
			IsSigner:   role.IsSigner || binding.IsSigner,
			IsWritable: role.IsMut || binding.IsWritable,
		})
	}
	return metas, nil
}
