// Package ledger defines the in-process ledger the harness executes
// against, together with a deterministic in-memory implementation.
package ledger

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// AccountMeta is one positional account reference of an instruction.
type AccountMeta struct {
	Pubkey     solana.PublicKey
	IsSigner   bool
	IsWritable bool
}

// Instruction is immutable once built: target program, positional account
// list and opaque payload bytes (discriminator ++ serialized args).
type Instruction struct {
	ProgramID solana.PublicKey
	Accounts  []AccountMeta
	Data      []byte
}

// Account mirrors the on-ledger account layout.
type Account struct {
	Lamports   uint64
	Data       []byte
	Owner      solana.PublicKey
	Executable bool
	RentEpoch  uint64
}

// Transaction is a set of instructions anchored to a recent blockhash and
// signed by the listed identities. Not reusable across blockhashes.
type Transaction struct {
	Instructions    []Instruction
	FeePayer        solana.PublicKey
	RecentBlockhash solana.Hash
	Signatures      []SignatureEntry
}

// SignatureEntry binds one signing identity to its signature over the
// transaction message.
type SignatureEntry struct {
	Pubkey    solana.PublicKey
	Signature solana.Signature
}

// Outcome is the immutable snapshot of one execution. Failure is data, not
// a Go error: Err carries the raw execution error while Logs and
// ComputeUnits are populated either way.
type Outcome struct {
	Success      bool
	ComputeUnits uint64
	Logs         []string
	Err          error
}

// InstructionError is the raw error attached to a failed Outcome: the index
// of the instruction that failed plus the program-reported cause.
type InstructionError struct {
	Index int
	Cause error
}

func (e *InstructionError) Error() string {
	return fmt.Sprintf("Error processing Instruction %d: %v", e.Index, e.Cause)
}

func (e *InstructionError) Unwrap() error {
	return e.Cause
}

// CustomError is a numeric error code returned by a program, rendered the
// way the Solana runtime renders it.
type CustomError struct {
	Code uint32
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("custom program error: %#x", e.Code)
}

// Ledger is the external collaborator the harness drives. Implementations
// are single-threaded and exclusively owned by one test; every call is
// blocking and in-order.
type Ledger interface {
	DeployProgram(programID solana.PublicKey, data []byte)
	SendTransaction(tx *Transaction) *Outcome
	GetAccount(pubkey solana.PublicKey) (*Account, bool)
	Airdrop(pubkey solana.PublicKey, lamports uint64) error
	LatestBlockhash() solana.Hash
	Advance(slots uint64)
}
