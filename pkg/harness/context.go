package harness

import (
	"fmt"

	"github.com/brimigs/anchor-litesvm/pkg/idl"
	"github.com/brimigs/anchor-litesvm/pkg/ledger"
	"github.com/gagliardetto/solana-go"
	"k8s.io/klog/v2"
)

// DefaultPayerLamports funds the context payer generously enough for any
// reasonable test sequence.
const DefaultPayerLamports = 10_000_000_000

// Context ties a ledger, a primary program and its definition together for
// one test. The ledger is exclusively owned; every method is a blocking,
// in-order operation.
type Context struct {
	Ledger    ledger.Ledger
	ProgramID solana.PublicKey
	Idl       *idl.Idl
	Payer     solana.PrivateKey
}

// New creates a context with a freshly funded payer.
func New(l ledger.Ledger, programID solana.PublicKey, spec *idl.Idl) (*Context, error) {
	payer, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("create payer: %w", err)
	}
	if err := l.Airdrop(payer.PublicKey(), DefaultPayerLamports); err != nil {
		return nil, fmt.Errorf("fund payer: %w", err)
	}

	klog.V(1).Infof("harness context for program %s, payer %s", programID, payer.PublicKey())
	return &Context{
		Ledger:    l,
		ProgramID: programID,
		Idl:       spec,
		Payer:     payer,
	}, nil
}

// Instruction starts an instruction builder for the named instruction of
// the primary program.
func (c *Context) Instruction(name string) (*InstructionBuilder, error) {
	def, err := c.Idl.Instruction(name)
	if err != nil {
		return nil, err
	}
	return NewInstruction(c.ProgramID, def), nil
}

// Execute submits the transaction synchronously and returns the analyzed
// result. Execution failure is reported inside the result; only a
// structurally malformed transaction errors here, before submission.
func (c *Context) Execute(tx *ledger.Transaction) (*Result, error) {
	return c.executeLabeled(tx, "")
}

func (c *Context) executeLabeled(tx *ledger.Transaction, label string) (*Result, error) {
	if len(tx.Instructions) == 0 {
		return nil, ErrEmptyTransaction
	}
	outcome := c.Ledger.SendTransaction(tx)
	return NewResult(outcome, label), nil
}

// ExecuteInstruction wraps one built instruction into a transaction signed
// by the given keys (the context payer pays when no signers are supplied)
// and executes it.
func (c *Context) ExecuteInstruction(instr ledger.Instruction, signers ...solana.PrivateKey) (*Result, error) {
	return c.ExecuteInstructions([]ledger.Instruction{instr}, signers...)
}

// ExecuteInstructions runs multiple instructions in a single transaction,
// in the order given.
func (c *Context) ExecuteInstructions(instrs []ledger.Instruction, signers ...solana.PrivateKey) (*Result, error) {
	builder := NewTransaction()
	for _, instr := range instrs {
		builder.Add(instr)
	}
	if len(signers) == 0 {
		builder.FeePayer(c.Payer)
	} else {
		builder.FeePayer(signers[0]).Signers(signers...)
	}

	tx, err := builder.Build(c.Ledger)
	if err != nil {
		return nil, err
	}
	label := ""
	if len(instrs) == 1 {
		label = fmt.Sprintf("instruction to %s", instrs[0].ProgramID)
	} else {
		label = "batch transaction"
	}
	return c.executeLabeled(tx, label)
}

// Run builds the instruction, wraps it and executes it in one call.
func (c *Context) Run(b *InstructionBuilder, signers ...solana.PrivateKey) (*Result, error) {
	instr, err := b.Build()
	if err != nil {
		return nil, err
	}
	return c.ExecuteInstruction(instr, signers...)
}

// CreateFundedAccount generates a keypair and airdrops it the given
// balance.
func (c *Context) CreateFundedAccount(lamports uint64) (solana.PrivateKey, error) {
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, err
	}
	if err := c.Ledger.Airdrop(key.PublicKey(), lamports); err != nil {
		return nil, fmt.Errorf("airdrop to %s: %w", key.PublicKey(), err)
	}
	return key, nil
}

// CreateFundedAccounts generates count keypairs with identical balances.
func (c *Context) CreateFundedAccounts(count int, lamports uint64) ([]solana.PrivateKey, error) {
	keys := make([]solana.PrivateKey, 0, count)
	for i := 0; i < count; i++ {
		key, err := c.CreateFundedAccount(lamports)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// AccountExists reports whether any account lives at the address.
func (c *Context) AccountExists(address solana.PublicKey) bool {
	_, ok := c.Ledger.GetAccount(address)
	return ok
}

// Balance returns the lamport balance at the address, zero when absent.
func (c *Context) Balance(address solana.PublicKey) uint64 {
	acct, ok := c.Ledger.GetAccount(address)
	if !ok {
		return 0
	}
	return acct.Lamports
}
