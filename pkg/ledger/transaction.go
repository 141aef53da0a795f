package ledger

import (
	"bytes"

	bin "github.com/gagliardetto/binary"
)

// Message produces the canonical byte encoding of the transaction that
// signing identities sign over. Signatures are excluded; everything else is
// encoded in order so any mutation invalidates existing signatures.
func (tx *Transaction) Message() []byte {
	buf := new(bytes.Buffer)
	enc := bin.NewBorshEncoder(buf)

	_ = enc.WriteBytes(tx.FeePayer[:], false)
	_ = enc.WriteBytes(tx.RecentBlockhash[:], false)
	_ = enc.WriteUint32(uint32(len(tx.Instructions)), bin.LE)
	for _, instr := range tx.Instructions {
		_ = enc.WriteBytes(instr.ProgramID[:], false)
		_ = enc.WriteUint32(uint32(len(instr.Accounts)), bin.LE)
		for _, meta := range instr.Accounts {
			_ = enc.WriteBytes(meta.Pubkey[:], false)
			_ = enc.WriteBool(meta.IsSigner)
			_ = enc.WriteBool(meta.IsWritable)
		}
		_ = enc.WriteBytes(instr.Data, true)
	}

	return buf.Bytes()
}

// SignerFor reports whether the transaction carries a signature entry for
// the given pubkey.
func (tx *Transaction) SignerFor(pubkey [32]byte) bool {
	for _, entry := range tx.Signatures {
		if entry.Pubkey == pubkey {
			return true
		}
	}
	return false
}
