package harness

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/brimigs/anchor-litesvm/pkg/anchor"
	"github.com/brimigs/anchor-litesvm/pkg/ledger"
	"github.com/gagliardetto/solana-go"
)

var (
	ErrAccountNotFound       = errors.New("ErrAccountNotFound")
	ErrDiscriminatorMismatch = errors.New("ErrDiscriminatorMismatch")
)

// ReadAccount reads the account at the address, verifies its leading bytes
// equal the discriminator of the named account type and decodes the
// remainder into T. The decoded value is a snapshot of the ledger state at
// read time.
func ReadAccount[T any](l ledger.Ledger, name string, address solana.PublicKey) (*T, error) {
	acct, ok := l.GetAccount(address)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, address)
	}

	disc := anchor.AccountDiscriminator(name)
	if len(acct.Data) < anchor.DiscriminatorLen ||
		!bytes.Equal(acct.Data[:anchor.DiscriminatorLen], disc[:]) {
		return nil, fmt.Errorf("%w: account %s is not a %q record", ErrDiscriminatorMismatch, address, name)
	}

	var record T
	if err := anchor.DecodeArgs(acct.Data[anchor.DiscriminatorLen:], &record); err != nil {
		return nil, fmt.Errorf("account %s: %w", address, err)
	}
	return &record, nil
}

// ReadAccountUnchecked skips the discriminator without verifying it, for
// accounts that predate discriminator conventions or belong to external
// programs.
func ReadAccountUnchecked[T any](l ledger.Ledger, address solana.PublicKey) (*T, error) {
	acct, ok := l.GetAccount(address)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, address)
	}
	if len(acct.Data) < anchor.DiscriminatorLen {
		return nil, fmt.Errorf("account %s: data shorter than discriminator", address)
	}

	var record T
	if err := anchor.DecodeArgs(acct.Data[anchor.DiscriminatorLen:], &record); err != nil {
		return nil, fmt.Errorf("account %s: %w", address, err)
	}
	return &record, nil
}

// WriteAccount seeds an account with discriminator-prefixed borsh state.
// Test setup convenience; the inverse of ReadAccount.
func WriteAccount(l *ledger.MemLedger, name string, address solana.PublicKey, owner solana.PublicKey, lamports uint64, record interface{}) error {
	encoded, err := anchor.StructArgs{Value: record}.EncodeArgs()
	if err != nil {
		return err
	}

	disc := anchor.AccountDiscriminator(name)
	data := make([]byte, 0, anchor.DiscriminatorLen+len(encoded))
	data = append(data, disc[:]...)
	data = append(data, encoded...)

	l.SetAccount(address, &ledger.Account{
		Lamports: lamports,
		Data:     data,
		Owner:    owner,
	})
	return nil
}
