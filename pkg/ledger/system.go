package ledger

import (
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// system program instruction tags
const (
	SystemInstrCreateAccount = 0
	SystemInstrTransfer      = 2
)

// system program error codes
const (
	SystemErrAccountAlreadyInUse        = 0
	SystemErrResultWithNegativeLamports = 1
)

const systemInstrBaseUnits = 150

type systemCreateAccount struct {
	Lamports uint64
	Space    uint64
	Owner    solana.PublicKey
}

type systemTransfer struct {
	Lamports uint64
}

// systemProgramHandler implements the subset of the system program the
// harness needs: account creation and lamport transfers.
func systemProgramHandler(ctx *InvokeContext) error {
	if err := ctx.Meter.Consume(systemInstrBaseUnits); err != nil {
		return err
	}

	decoder := bin.NewBinDecoder(ctx.Data())
	tag, err := decoder.ReadUint32(bin.LE)
	if err != nil {
		return ErrInvalidInstructionData
	}

	switch tag {
	case SystemInstrCreateAccount:
		var params systemCreateAccount
		if err := decoder.Decode(&params); err != nil {
			return ErrInvalidInstructionData
		}
		return systemCreateAccountExec(ctx, params)
	case SystemInstrTransfer:
		var params systemTransfer
		if err := decoder.Decode(&params); err != nil {
			return ErrInvalidInstructionData
		}
		return systemTransferExec(ctx, params.Lamports)
	default:
		return ErrInvalidInstructionData
	}
}

func systemCreateAccountExec(ctx *InvokeContext, params systemCreateAccount) error {
	if err := ctx.ExpectSigner(0); err != nil {
		return err
	}
	if err := ctx.ExpectSigner(1); err != nil {
		return err
	}

	from, err := ctx.Account(0)
	if err != nil {
		return err
	}
	to, err := ctx.Account(1)
	if err != nil {
		return err
	}

	if to.Lamports != 0 || len(to.Data) != 0 {
		ctx.Log("Create Account: account %s already in use", ctx.Accounts()[1].Pubkey)
		return &CustomError{Code: SystemErrAccountAlreadyInUse}
	}
	if from.Lamports < params.Lamports {
		ctx.Log("Transfer: insufficient lamports %d, need %d", from.Lamports, params.Lamports)
		return &CustomError{Code: SystemErrResultWithNegativeLamports}
	}

	from.Lamports -= params.Lamports
	to.Lamports = params.Lamports
	to.Data = make([]byte, params.Space)
	to.Owner = params.Owner

	if err := ctx.StoreAccount(0, from); err != nil {
		return err
	}
	return ctx.StoreAccount(1, to)
}

func systemTransferExec(ctx *InvokeContext, lamports uint64) error {
	if err := ctx.ExpectSigner(0); err != nil {
		return err
	}

	from, err := ctx.Account(0)
	if err != nil {
		return err
	}
	to, err := ctx.Account(1)
	if err != nil {
		return err
	}

	if from.Lamports < lamports {
		ctx.Log("Transfer: insufficient lamports %d, need %d", from.Lamports, lamports)
		return &CustomError{Code: SystemErrResultWithNegativeLamports}
	}

	from.Lamports -= lamports
	to.Lamports += lamports

	if err := ctx.StoreAccount(0, from); err != nil {
		return err
	}
	return ctx.StoreAccount(1, to)
}
