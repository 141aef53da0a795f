package anchor

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type makeArgs struct {
	Seed    uint64
	Receive uint64
	Amount  uint64
}

func TestInstructionData_MakeScenario(t *testing.T) {
	data, err := InstructionData("make", StructArgs{Value: makeArgs{
		Seed:    42,
		Receive: 500_000_000,
		Amount:  1_000_000_000,
	}})
	require.NoError(t, err)

	// 8 byte selector followed by 24 bytes of little-endian arguments
	require.Equal(t, DiscriminatorLen+24, len(data))

	disc := InstructionDiscriminator("make")
	assert.Equal(t, disc[:], data[:DiscriminatorLen])
	assert.Equal(t, uint64(42), binary.LittleEndian.Uint64(data[8:16]))
	assert.Equal(t, uint64(500_000_000), binary.LittleEndian.Uint64(data[16:24]))
	assert.Equal(t, uint64(1_000_000_000), binary.LittleEndian.Uint64(data[24:32]))
}

func TestTuple_MatchesStructLayout(t *testing.T) {
	fromStruct, err := StructArgs{Value: makeArgs{Seed: 42, Receive: 500_000_000, Amount: 1_000_000_000}}.EncodeArgs()
	require.NoError(t, err)

	fromTuple, err := Tuple{uint64(42), uint64(500_000_000), uint64(1_000_000_000)}.EncodeArgs()
	require.NoError(t, err)

	assert.Equal(t, fromStruct, fromTuple)
}

func TestInstructionData_NoArgs(t *testing.T) {
	data, err := InstructionData("refund", nil)
	require.NoError(t, err)
	assert.Equal(t, DiscriminatorLen, len(data))
}

type nestedRecord struct {
	Owner   solana.PublicKey
	Amounts innerAmounts
	Memo    string
	Flags   []byte
	Active  bool
}

type innerAmounts struct {
	Deposit  uint64
	Withdraw uint64
}

func TestArgs_RoundTrip_AllFieldKinds(t *testing.T) {
	original := nestedRecord{
		Owner:   solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"),
		Amounts: innerAmounts{Deposit: 1, Withdraw: 1 << 40},
		Memo:    "escrow-memo",
		Flags:   []byte{0x01, 0x02, 0x03},
		Active:  true,
	}

	encoded, err := StructArgs{Value: original}.EncodeArgs()
	require.NoError(t, err)

	var decoded nestedRecord
	require.NoError(t, DecodeArgs(encoded, &decoded))
	assert.Equal(t, original, decoded)
}

func TestArgs_IntegerWidthsRoundTrip(t *testing.T) {
	type widths struct {
		A uint8
		B uint16
		C uint32
		D uint64
		E int8
		F int16
		G int32
		H int64
	}
	original := widths{A: 1, B: 2, C: 3, D: 4, E: -1, F: -2, G: -3, H: -4}

	encoded, err := StructArgs{Value: original}.EncodeArgs()
	require.NoError(t, err)
	assert.Equal(t, 1+2+4+8+1+2+4+8, len(encoded))

	var decoded widths
	require.NoError(t, DecodeArgs(encoded, &decoded))
	assert.Equal(t, original, decoded)
}
