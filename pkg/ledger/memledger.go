package ledger

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"k8s.io/klog/v2"
)

const LamportsPerSignature = 5000

var (
	ErrEmptyTransaction        = errors.New("ErrEmptyTransaction")
	ErrBlockhashNotFound       = errors.New("ErrBlockhashNotFound")
	ErrSignatureFailure        = errors.New("ErrSignatureFailure")
	ErrMissingFeePayerSig      = errors.New("ErrMissingFeePayerSignature")
	ErrInsufficientFundsForFee = errors.New("ErrInsufficientFundsForFee")
	ErrProgramNotDeployed      = errors.New("ErrProgramNotDeployed")
)

// MemLedger is a deterministic in-memory ledger. It executes transactions
// synchronously in call order against a single exclusively-owned account
// map; each transaction observes the cumulative state of all prior ones.
// Programs are Go handlers registered per program id.
type MemLedger struct {
	accounts  map[solana.PublicKey]*Account
	handlers  map[solana.PublicKey]Handler
	slot      uint64
	blockhash solana.Hash
	txCount   uint64
}

func NewMemLedger() *MemLedger {
	l := &MemLedger{
		accounts: make(map[solana.PublicKey]*Account),
		handlers: make(map[solana.PublicKey]Handler),
		slot:     1,
	}
	l.blockhash = sha256.Sum256([]byte("anchor-litesvm:genesis"))
	l.handlers[solana.SystemProgramID] = systemProgramHandler
	l.accounts[solana.SystemProgramID] = &Account{
		Lamports:   1,
		Owner:      solana.BPFLoaderProgramID,
		Executable: true,
	}
	return l
}

// DeployProgram installs the program account. Execution behavior comes from
// a handler registered for the same id; the bytes are held as account data
// the way a loader would hold them.
func (l *MemLedger) DeployProgram(programID solana.PublicKey, data []byte) {
	l.accounts[programID] = &Account{
		Lamports:   1,
		Data:       data,
		Owner:      solana.BPFLoaderUpgradeableProgramID,
		Executable: true,
	}
	klog.V(1).Infof("deployed program %s (%d bytes)", programID, len(data))
}

// RegisterProgram attaches an in-process handler for the program id,
// deploying an empty program account if none exists yet.
func (l *MemLedger) RegisterProgram(programID solana.PublicKey, handler Handler) {
	l.handlers[programID] = handler
	if _, ok := l.accounts[programID]; !ok {
		l.DeployProgram(programID, nil)
	}
}

// GetAccount returns a snapshot of the account, valid for the ledger state
// at read time.
func (l *MemLedger) GetAccount(pubkey solana.PublicKey) (*Account, bool) {
	acct, ok := l.accounts[pubkey]
	if !ok {
		return nil, false
	}
	cp := *acct
	cp.Data = append([]byte(nil), acct.Data...)
	return &cp, true
}

// SetAccount places raw account state, bypassing execution. Test seeding
// only.
func (l *MemLedger) SetAccount(pubkey solana.PublicKey, acct *Account) {
	l.setAccount(pubkey, acct)
}

func (l *MemLedger) setAccount(pubkey solana.PublicKey, acct *Account) {
	cp := *acct
	cp.Data = append([]byte(nil), acct.Data...)
	l.accounts[pubkey] = &cp
}

func (l *MemLedger) Airdrop(pubkey solana.PublicKey, lamports uint64) error {
	acct, ok := l.accounts[pubkey]
	if !ok {
		acct = &Account{Owner: solana.SystemProgramID}
		l.accounts[pubkey] = acct
	}
	acct.Lamports += lamports
	klog.V(2).Infof("airdropped %d lamports to %s", lamports, pubkey)
	return nil
}

func (l *MemLedger) LatestBlockhash() solana.Hash {
	return l.blockhash
}

// Advance moves the ledger forward by the given number of slots, rolling
// the blockhash once per slot.
func (l *MemLedger) Advance(slots uint64) {
	for i := uint64(0); i < slots; i++ {
		l.slot++
		var buf [40]byte
		copy(buf[:32], l.blockhash[:])
		binary.LittleEndian.PutUint64(buf[32:], l.slot)
		l.blockhash = sha256.Sum256(buf[:])
	}
}

func (l *MemLedger) Slot() uint64 {
	return l.slot
}

// SendTransaction executes the transaction and always returns an Outcome;
// execution failure is reported as outcome data, never panics. State
// changes of a failed transaction are rolled back except for the fee.
func (l *MemLedger) SendTransaction(tx *Transaction) *Outcome {
	if len(tx.Instructions) == 0 {
		return &Outcome{Err: ErrEmptyTransaction}
	}
	if tx.RecentBlockhash != l.blockhash {
		return &Outcome{Err: ErrBlockhashNotFound}
	}

	msg := tx.Message()
	if !tx.SignerFor(tx.FeePayer) {
		return &Outcome{Err: ErrMissingFeePayerSig}
	}
	for _, entry := range tx.Signatures {
		if !ed25519.Verify(ed25519.PublicKey(entry.Pubkey[:]), msg, entry.Signature[:]) {
			return &Outcome{Err: fmt.Errorf("%w: %s", ErrSignatureFailure, entry.Pubkey)}
		}
	}

	fee := uint64(LamportsPerSignature) * uint64(len(tx.Signatures))
	payer, ok := l.accounts[tx.FeePayer]
	if !ok || payer.Lamports < fee {
		return &Outcome{Err: ErrInsufficientFundsForFee}
	}
	payer.Lamports -= fee

	checkpoint := l.snapshot()
	recorder := new(LogRecorder)
	var totalUnits uint64

	for idx, instr := range tx.Instructions {
		units, err := l.invoke(instr, recorder)
		totalUnits += units
		if err != nil {
			// checkpoint was taken after the fee charge, so the fee
			// survives the rollback
			l.restore(checkpoint)
			l.txCount++
			return &Outcome{
				ComputeUnits: totalUnits,
				Logs:         recorder.Logs,
				Err:          &InstructionError{Index: idx, Cause: err},
			}
		}
	}

	l.txCount++
	return &Outcome{
		Success:      true,
		ComputeUnits: totalUnits,
		Logs:         recorder.Logs,
	}
}

func (l *MemLedger) invoke(instr Instruction, recorder *LogRecorder) (uint64, error) {
	handler, ok := l.handlers[instr.ProgramID]
	if !ok {
		return 0, ErrProgramNotDeployed
	}

	recorder.Log(fmt.Sprintf("Program %s invoke [1]", instr.ProgramID))

	meter := NewComputeMeter(DefaultComputeBudget)
	ctx := &InvokeContext{
		ProgramID: instr.ProgramID,
		Meter:     &meter,
		ledger:    l,
		log:       recorder,
		instr:     instr,
	}

	err := handler(ctx)
	recorder.Log(fmt.Sprintf("Program %s consumed %d of %d compute units",
		instr.ProgramID, meter.Used(), DefaultComputeBudget))
	if err != nil {
		recorder.Log(fmt.Sprintf("Program %s failed: %v", instr.ProgramID, err))
		return meter.Used(), err
	}
	recorder.Log(fmt.Sprintf("Program %s success", instr.ProgramID))
	return meter.Used(), nil
}

func (l *MemLedger) snapshot() map[solana.PublicKey]*Account {
	snap := make(map[solana.PublicKey]*Account, len(l.accounts))
	for key, acct := range l.accounts {
		cp := *acct
		cp.Data = append([]byte(nil), acct.Data...)
		snap[key] = &cp
	}
	return snap
}

func (l *MemLedger) restore(snap map[solana.PublicKey]*Account) {
	l.accounts = snap
}
