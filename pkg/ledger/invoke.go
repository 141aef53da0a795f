package ledger

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

var (
	ErrMissingRequiredSignature = errors.New("ErrMissingRequiredSignature")
	ErrReadonlyDataModified     = errors.New("ErrReadonlyDataModified")
	ErrMissingAccount           = errors.New("ErrMissingAccount")
	ErrInvalidInstructionData   = errors.New("ErrInvalidInstructionData")
)

// Handler is the in-process stand-in for a deployed program. It observes
// and mutates ledger state through the InvokeContext.
type Handler func(ctx *InvokeContext) error

// InvokeContext is handed to a program handler for the duration of one
// instruction.
type InvokeContext struct {
	ProgramID solana.PublicKey
	Meter     *ComputeMeter

	ledger *MemLedger
	log    Logger
	instr  Instruction
}

// Data returns the opaque instruction payload.
func (ctx *InvokeContext) Data() []byte {
	return ctx.instr.Data
}

// Accounts returns the positional account list of the instruction.
func (ctx *InvokeContext) Accounts() []AccountMeta {
	return ctx.instr.Accounts
}

// Account fetches the account at instruction position idx.
func (ctx *InvokeContext) Account(idx int) (*Account, error) {
	if idx >= len(ctx.instr.Accounts) {
		return nil, ErrMissingAccount
	}
	acct, ok := ctx.ledger.GetAccount(ctx.instr.Accounts[idx].Pubkey)
	if !ok {
		return &Account{Owner: solana.SystemProgramID}, nil
	}
	return acct, nil
}

// StoreAccount writes back the account at instruction position idx. The
// position must be marked writable.
func (ctx *InvokeContext) StoreAccount(idx int, acct *Account) error {
	if idx >= len(ctx.instr.Accounts) {
		return ErrMissingAccount
	}
	meta := ctx.instr.Accounts[idx]
	if !meta.IsWritable {
		return ErrReadonlyDataModified
	}
	ctx.ledger.setAccount(meta.Pubkey, acct)
	return nil
}

// ExpectSigner errors unless the account at position idx signed the
// transaction.
func (ctx *InvokeContext) ExpectSigner(idx int) error {
	if idx >= len(ctx.instr.Accounts) {
		return ErrMissingAccount
	}
	if !ctx.instr.Accounts[idx].IsSigner {
		return ErrMissingRequiredSignature
	}
	return nil
}

// Log emits a program log line in the runtime's format.
func (ctx *InvokeContext) Log(format string, args ...interface{}) {
	ctx.log.Log("Program log: " + fmt.Sprintf(format, args...))
}

// EmitEvent emits raw event bytes (discriminator ++ borsh fields) as a
// base64 "Program data:" log line, mirroring Anchor's emit! macro.
func (ctx *InvokeContext) EmitEvent(data []byte) {
	ctx.log.Log("Program data: " + base64.StdEncoding.EncodeToString(data))
}

// LogAnchorError emits the diagnostic lines Anchor prints before a program
// returns a named error.
func (ctx *InvokeContext) LogAnchorError(name string, code uint32, msg string) {
	ctx.log.Log(fmt.Sprintf("Program log: AnchorError occurred. Error Code: %s. Error Number: %d. Error Message: %s.", name, code, msg))
}
