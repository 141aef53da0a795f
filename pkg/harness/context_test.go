package harness

import (
	"bytes"
	"testing"

	"github.com/brimigs/anchor-litesvm/pkg/anchor"
	"github.com/brimigs/anchor-litesvm/pkg/idl"
	"github.com/brimigs/anchor-litesvm/pkg/ledger"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEscrowIdlJSON = `{
  "name": "anchor_escrow",
  "version": "0.1.0",
  "address": "Stake11111111111111111111111111111111111111",
  "instructions": [
    {
      "name": "make",
      "accounts": [
        {"name": "maker", "isMut": true, "isSigner": true},
        {"name": "escrow", "isMut": true, "isSigner": false},
        {"name": "system_program", "isMut": false, "isSigner": false}
      ],
      "args": [
        {"name": "seed", "type": "u64"},
        {"name": "receive", "type": "u64"},
        {"name": "amount", "type": "u64"}
      ]
    }
  ],
  "accounts": [
    {
      "name": "Escrow",
      "type": {
        "kind": "struct",
        "fields": [
          {"name": "seed", "type": "u64"},
          {"name": "maker", "type": "publicKey"},
          {"name": "receive", "type": "u64"},
          {"name": "bump", "type": "u8"}
        ]
      }
    }
  ],
  "errors": [
    {"code": 6000, "name": "InvalidAmount", "msg": "Amount must be greater than zero"}
  ]
}`

// escrowProgram behaves like a compiled make instruction: it validates the
// payload, persists an Escrow record at the second account position and
// emits an EscrowCreated event.
func escrowProgram(ctx *ledger.InvokeContext) error {
	if err := ctx.Meter.Consume(1200); err != nil {
		return err
	}

	data := ctx.Data()
	disc := anchor.InstructionDiscriminator("make")
	if len(data) < anchor.DiscriminatorLen || !bytes.Equal(data[:anchor.DiscriminatorLen], disc[:]) {
		return ledger.ErrInvalidInstructionData
	}

	var args makeArgs
	if err := anchor.DecodeArgs(data[anchor.DiscriminatorLen:], &args); err != nil {
		return ledger.ErrInvalidInstructionData
	}

	ctx.Log("Instruction: Make")
	if err := ctx.ExpectSigner(0); err != nil {
		return err
	}

	if args.Amount == 0 {
		ctx.LogAnchorError("InvalidAmount", 6000, "Amount must be greater than zero")
		return &ledger.CustomError{Code: 6000}
	}

	maker := ctx.Accounts()[0].Pubkey
	state, err := anchor.StructArgs{Value: escrowState{
		Seed:    args.Seed,
		Maker:   maker,
		Receive: args.Receive,
		Bump:    254,
	}}.EncodeArgs()
	if err != nil {
		return err
	}

	acctDisc := anchor.AccountDiscriminator("Escrow")
	if err := ctx.StoreAccount(1, &ledger.Account{
		Lamports: 1_000_000,
		Data:     append(acctDisc[:], state...),
		Owner:    ctx.ProgramID,
	}); err != nil {
		return err
	}

	eventDisc := anchor.EventDiscriminator("EscrowCreated")
	event, err := anchor.StructArgs{Value: escrowCreated{Seed: args.Seed, Amount: args.Amount}}.EncodeArgs()
	if err != nil {
		return err
	}
	ctx.EmitEvent(append(eventDisc[:], event...))
	return nil
}

func newEscrowContext(t *testing.T) (*Context, *ledger.MemLedger) {
	t.Helper()

	spec, err := idl.Parse([]byte(testEscrowIdlJSON))
	require.NoError(t, err)
	programID, err := spec.ProgramID()
	require.NoError(t, err)

	l := ledger.NewMemLedger()
	l.RegisterProgram(programID, escrowProgram)

	ctx, err := New(l, programID, spec)
	require.NoError(t, err)
	return ctx, l
}

func TestContext_MakeEndToEnd(t *testing.T) {
	ctx, l := newEscrowContext(t)

	maker, err := ctx.CreateFundedAccount(1_000_000_000)
	require.NoError(t, err)
	escrow := solana.NewWallet().PublicKey()

	builder, err := ctx.Instruction("make")
	require.NoError(t, err)
	builder.
		Signer("maker", maker.PublicKey()).
		Writable("escrow", escrow).
		SystemProgram().
		Args(anchor.StructArgs{Value: makeArgs{Seed: 42, Receive: 500, Amount: 1000}})

	result, err := ctx.Run(builder, maker)
	require.NoError(t, err)

	result.AssertSuccess(t).
		AssertLog(t, "Instruction: Make").
		AssertEventEmitted(t, "EscrowCreated")
	assert.Equal(t, uint64(1200), result.ComputeUnits())
	assert.False(t, result.MissingComputeSummary())

	event, err := ParseEvent[escrowCreated](result, "EscrowCreated")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), event.Seed)
	assert.Equal(t, uint64(1000), event.Amount)

	state, err := ReadAccount[escrowState](l, "Escrow", escrow)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), state.Seed)
	assert.Equal(t, maker.PublicKey(), state.Maker)
	assert.Equal(t, uint64(500), state.Receive)

	ctx.AssertAccountExists(t, escrow)
	ctx.AssertAccountOwner(t, escrow, ctx.ProgramID)
	ctx.AssertBalance(t, escrow, 1_000_000)
}

func TestContext_MakeInvalidAmount(t *testing.T) {
	ctx, _ := newEscrowContext(t)

	maker, err := ctx.CreateFundedAccount(1_000_000_000)
	require.NoError(t, err)
	escrow := solana.NewWallet().PublicKey()

	builder, err := ctx.Instruction("make")
	require.NoError(t, err)
	builder.
		Signer("maker", maker.PublicKey()).
		Writable("escrow", escrow).
		SystemProgram().
		Args(anchor.StructArgs{Value: makeArgs{Seed: 1, Receive: 1, Amount: 0}})

	result, err := ctx.Run(builder, maker)
	require.NoError(t, err)

	result.AssertFailure(t).
		AssertErrorCode(t, ctx.Idl, 6000).
		AssertAnchorError(t, ctx.Idl, "InvalidAmount")

	resolved := result.ResolveError(ctx.Idl)
	require.NotNil(t, resolved)
	assert.Equal(t, TierCustom, resolved.Tier)
	assert.Equal(t, "InvalidAmount", resolved.Name)

	// escrow was never created and the fee was still charged
	ctx.AssertAccountClosed(t, escrow)
	assert.Less(t, ctx.Balance(maker.PublicKey()), uint64(1_000_000_000))
}

func TestContext_UnknownInstruction(t *testing.T) {
	ctx, _ := newEscrowContext(t)
	_, err := ctx.Instruction("take")
	assert.ErrorIs(t, err, idl.ErrUnknownInstruction)
}

func TestContext_PayerIsDefaultFeePayer(t *testing.T) {
	ctx, _ := newEscrowContext(t)
	before := ctx.Balance(ctx.Payer.PublicKey())

	// payer signs as maker implicitly when no signers are passed
	builder, err := ctx.Instruction("make")
	require.NoError(t, err)
	builder.
		Signer("maker", ctx.Payer.PublicKey()).
		Writable("escrow", solana.NewWallet().PublicKey()).
		SystemProgram().
		Args(anchor.StructArgs{Value: makeArgs{Seed: 3, Receive: 3, Amount: 3}})

	instr, err := builder.Build()
	require.NoError(t, err)

	result, err := ctx.ExecuteInstruction(instr)
	require.NoError(t, err)
	result.AssertSuccess(t)

	assert.Equal(t, before-ledger.LamportsPerSignature, ctx.Balance(ctx.Payer.PublicKey()))
}

func TestContext_ExecuteEmptyTransaction(t *testing.T) {
	ctx, l := newEscrowContext(t)
	_, err := ctx.Execute(&ledger.Transaction{RecentBlockhash: l.LatestBlockhash()})
	assert.ErrorIs(t, err, ErrEmptyTransaction)
}

func TestContext_BatchExecution(t *testing.T) {
	ctx, _ := newEscrowContext(t)

	maker, err := ctx.CreateFundedAccount(1_000_000_000)
	require.NoError(t, err)

	var instrs []ledger.Instruction
	escrows := []solana.PublicKey{solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey()}
	for i, escrow := range escrows {
		builder, err := ctx.Instruction("make")
		require.NoError(t, err)
		instr, err := builder.
			Signer("maker", maker.PublicKey()).
			Writable("escrow", escrow).
			SystemProgram().
			Args(anchor.StructArgs{Value: makeArgs{Seed: uint64(i), Receive: 10, Amount: 10}}).
			Build()
		require.NoError(t, err)
		instrs = append(instrs, instr)
	}

	result, err := ctx.ExecuteInstructions(instrs, maker)
	require.NoError(t, err)
	result.AssertSuccess(t)
	assert.Equal(t, uint64(2400), result.ComputeUnits())
	assert.Equal(t, "batch transaction", result.Label())

	for _, escrow := range escrows {
		ctx.AssertAccountExists(t, escrow)
	}
}
