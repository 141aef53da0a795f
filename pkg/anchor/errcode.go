package anchor

// Anchor reserves framework error codes below 6000, grouped by fixed
// offsets. Program-defined errors start at CustomErrorStart.
const (
	ErrCodeInstructionOffset = 100
	ErrCodeIdlOffset         = 1000
	ErrCodeEventOffset       = 1500
	ErrCodeConstraintOffset  = 2000
	ErrCodeAccountOffset     = 3000
	ErrCodeMiscOffset        = 4100
	CustomErrorStart         = 6000
)

var errorNames = map[uint32]string{
	// instructions
	ErrCodeInstructionOffset + 0: "InstructionMissing",
	ErrCodeInstructionOffset + 1: "InstructionFallbackNotFound",
	ErrCodeInstructionOffset + 2: "InstructionDidNotDeserialize",
	ErrCodeInstructionOffset + 3: "InstructionDidNotSerialize",

	// IDL instructions
	ErrCodeIdlOffset + 0: "IdlInstructionStub",
	ErrCodeIdlOffset + 1: "IdlInstructionInvalidProgram",
	ErrCodeIdlOffset + 2: "IdlAccountNotEmpty",

	// event instructions
	ErrCodeEventOffset + 0: "EventInstructionStub",

	// constraints
	ErrCodeConstraintOffset + 0:  "ConstraintMut",
	ErrCodeConstraintOffset + 1:  "ConstraintHasOne",
	ErrCodeConstraintOffset + 2:  "ConstraintSigner",
	ErrCodeConstraintOffset + 3:  "ConstraintRaw",
	ErrCodeConstraintOffset + 4:  "ConstraintOwner",
	ErrCodeConstraintOffset + 5:  "ConstraintRentExempt",
	ErrCodeConstraintOffset + 6:  "ConstraintSeeds",
	ErrCodeConstraintOffset + 7:  "ConstraintExecutable",
	ErrCodeConstraintOffset + 8:  "ConstraintState",
	ErrCodeConstraintOffset + 9:  "ConstraintAssociated",
	ErrCodeConstraintOffset + 10: "ConstraintAssociatedInit",
	ErrCodeConstraintOffset + 11: "ConstraintClose",
	ErrCodeConstraintOffset + 12: "ConstraintAddress",
	ErrCodeConstraintOffset + 13: "ConstraintZero",
	ErrCodeConstraintOffset + 14: "ConstraintTokenMint",
	ErrCodeConstraintOffset + 15: "ConstraintTokenOwner",
	ErrCodeConstraintOffset + 16: "ConstraintMintMintAuthority",
	ErrCodeConstraintOffset + 17: "ConstraintMintFreezeAuthority",
	ErrCodeConstraintOffset + 18: "ConstraintMintDecimals",
	ErrCodeConstraintOffset + 19: "ConstraintSpace",

	// accounts
	ErrCodeAccountOffset + 0:  "AccountDiscriminatorAlreadySet",
	ErrCodeAccountOffset + 1:  "AccountDiscriminatorNotFound",
	ErrCodeAccountOffset + 2:  "AccountDiscriminatorMismatch",
	ErrCodeAccountOffset + 3:  "AccountDidNotDeserialize",
	ErrCodeAccountOffset + 4:  "AccountDidNotSerialize",
	ErrCodeAccountOffset + 5:  "AccountNotEnoughKeys",
	ErrCodeAccountOffset + 6:  "AccountNotMutable",
	ErrCodeAccountOffset + 7:  "AccountOwnedByWrongProgram",
	ErrCodeAccountOffset + 8:  "InvalidProgramId",
	ErrCodeAccountOffset + 9:  "InvalidProgramExecutable",
	ErrCodeAccountOffset + 10: "AccountNotSigner",
	ErrCodeAccountOffset + 11: "AccountNotSystemOwned",
	ErrCodeAccountOffset + 12: "AccountNotInitialized",
	ErrCodeAccountOffset + 13: "AccountNotProgramData",
	ErrCodeAccountOffset + 14: "AccountNotAssociatedTokenAccount",
	ErrCodeAccountOffset + 15: "AccountSysvarMismatch",

	// misc
	ErrCodeMiscOffset + 0: "DeclaredProgramIdMismatch",
	ErrCodeMiscOffset + 1: "TryingToInitPayerAsProgramAccount",
}

var errorCodes = func() map[string]uint32 {
	m := make(map[string]uint32, len(errorNames))
	for code, name := range errorNames {
		m[name] = code
	}
	return m
}()

// ErrorName resolves a framework error code to its name.
func ErrorName(code uint32) (string, bool) {
	name, ok := errorNames[code]
	return name, ok
}

// ErrorCodeByName resolves a framework error name to its numeric code.
func ErrorCodeByName(name string) (uint32, bool) {
	code, ok := errorCodes[name]
	return code, ok
}

// IsCustomError reports whether the code lies in the program-defined range
// above Anchor's reserved codes.
func IsCustomError(code uint32) bool {
	return code >= CustomErrorStart
}
