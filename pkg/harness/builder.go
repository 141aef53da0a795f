// Package harness builds protocol-correct Anchor instructions, executes
// them against an in-process ledger and analyzes the resulting outcome.
package harness

import (
	"errors"
	"fmt"

	"github.com/brimigs/anchor-litesvm/pkg/anchor"
	"github.com/brimigs/anchor-litesvm/pkg/idl"
	"github.com/brimigs/anchor-litesvm/pkg/ledger"
	"github.com/gagliardetto/solana-go"
)

var (
	ErrIncompleteBuilder = errors.New("ErrIncompleteBuilder")
	ErrSigningMismatch   = errors.New("ErrSigningMismatch")
	ErrEmptyTransaction  = errors.New("ErrEmptyTransaction")
)

// InstructionBuilder accumulates a target program, an instruction
// definition, a role set and an argument value. All validation happens at
// Build time; no partial instruction is ever produced.
type InstructionBuilder struct {
	programID solana.PublicKey
	def       *idl.InstructionDef
	roles     idl.RoleSet
	args      anchor.Args
}

// NewInstruction starts a builder for one instruction of the program.
func NewInstruction(programID solana.PublicKey, def *idl.InstructionDef) *InstructionBuilder {
	return &InstructionBuilder{
		programID: programID,
		def:       def,
		roles:     make(idl.RoleSet),
	}
}

// Role binds a named role. Call order is irrelevant; positions come from
// the instruction definition at Build time.
func (b *InstructionBuilder) Role(name string, role idl.AccountRole) *InstructionBuilder {
	b.roles[name] = role
	return b
}

// Signer binds a role as a writable signer.
func (b *InstructionBuilder) Signer(name string, address solana.PublicKey) *InstructionBuilder {
	return b.Role(name, idl.Signer(address))
}

// Writable binds a role as writable, non-signing.
func (b *InstructionBuilder) Writable(name string, address solana.PublicKey) *InstructionBuilder {
	return b.Role(name, idl.Writable(address))
}

// ReadOnly binds a role as read-only, non-signing.
func (b *InstructionBuilder) ReadOnly(name string, address solana.PublicKey) *InstructionBuilder {
	return b.Role(name, idl.ReadOnly(address))
}

// SystemProgram binds the conventional system_program role.
func (b *InstructionBuilder) SystemProgram() *InstructionBuilder {
	return b.ReadOnly("system_program", solana.SystemProgramID)
}

// TokenProgram binds the conventional token_program role.
func (b *InstructionBuilder) TokenProgram() *InstructionBuilder {
	return b.ReadOnly("token_program", solana.TokenProgramID)
}

// AssociatedTokenProgram binds the conventional associated_token_program
// role.
func (b *InstructionBuilder) AssociatedTokenProgram() *InstructionBuilder {
	return b.ReadOnly("associated_token_program", solana.SPLAssociatedTokenAccountProgramID)
}

// Args sets the argument value serialized into the payload.
func (b *InstructionBuilder) Args(args anchor.Args) *InstructionBuilder {
	b.args = args
	return b
}

// Build finalizes the instruction: validates required fields, computes the
// discriminator, serializes the arguments and resolves the role set into
// the canonical account order.
func (b *InstructionBuilder) Build() (ledger.Instruction, error) {
	if b.programID.IsZero() {
		return ledger.Instruction{}, fmt.Errorf("%w: no target program", ErrIncompleteBuilder)
	}
	if b.def == nil {
		return ledger.Instruction{}, fmt.Errorf("%w: no instruction definition", ErrIncompleteBuilder)
	}

	data, err := anchor.InstructionData(b.def.Name, b.args)
	if err != nil {
		return ledger.Instruction{}, err
	}

	metas, err := idl.Resolve(b.def, b.roles)
	if err != nil {
		return ledger.Instruction{}, err
	}

	return ledger.Instruction{
		ProgramID: b.programID,
		Accounts:  metas,
		Data:      data,
	}, nil
}

// TransactionBuilder wraps built instructions into a signed transaction
// anchored to the ledger's current blockhash.
type TransactionBuilder struct {
	instructions []ledger.Instruction
	feePayer     solana.PrivateKey
	signers      []solana.PrivateKey
}

func NewTransaction() *TransactionBuilder {
	return &TransactionBuilder{}
}

func (b *TransactionBuilder) Add(instr ledger.Instruction) *TransactionBuilder {
	b.instructions = append(b.instructions, instr)
	return b
}

// FeePayer sets the fee paying identity. Defaults to the first signer.
func (b *TransactionBuilder) FeePayer(key solana.PrivateKey) *TransactionBuilder {
	b.feePayer = key
	return b
}

func (b *TransactionBuilder) Signers(keys ...solana.PrivateKey) *TransactionBuilder {
	b.signers = append(b.signers, keys...)
	return b
}

// Build validates the builder, checks that the supplied signers cover every
// account marked is_signer, signs the canonical message and returns the
// transaction. The result is bound to the current blockhash and must not be
// reused after the ledger advances.
func (b *TransactionBuilder) Build(l ledger.Ledger) (*ledger.Transaction, error) {
	if len(b.instructions) == 0 {
		return nil, ErrEmptyTransaction
	}

	feePayer := b.feePayer
	if feePayer == nil {
		if len(b.signers) == 0 {
			return nil, fmt.Errorf("%w: no fee payer and no signers", ErrIncompleteBuilder)
		}
		feePayer = b.signers[0]
	}

	keys := make(map[solana.PublicKey]solana.PrivateKey, len(b.signers)+1)
	keys[feePayer.PublicKey()] = feePayer
	for _, key := range b.signers {
		keys[key.PublicKey()] = key
	}

	for _, instr := range b.instructions {
		for _, meta := range instr.Accounts {
			if meta.IsSigner {
				if _, ok := keys[meta.Pubkey]; !ok {
					return nil, fmt.Errorf("%w: no key for required signer %s", ErrSigningMismatch, meta.Pubkey)
				}
			}
		}
	}

	tx := &ledger.Transaction{
		Instructions:    b.instructions,
		FeePayer:        feePayer.PublicKey(),
		RecentBlockhash: l.LatestBlockhash(),
	}

	msg := tx.Message()
	// fee payer first, then the remaining signers in supply order
	signed := map[solana.PublicKey]bool{}
	ordered := append([]solana.PrivateKey{feePayer}, b.signers...)
	for _, key := range ordered {
		pub := key.PublicKey()
		if signed[pub] {
			continue
		}
		sig, err := key.Sign(msg)
		if err != nil {
			return nil, fmt.Errorf("sign transaction: %w", err)
		}
		tx.Signatures = append(tx.Signatures, ledger.SignatureEntry{Pubkey: pub, Signature: sig})
		signed[pub] = true
	}

	return tx, nil
}
