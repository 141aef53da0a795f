package anchor

import (
	"bytes"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/near/borsh-go"
)

var ErrEncoding = errors.New("ErrEncoding")

// Args is anything that can serialize itself into the borsh argument layout
// of an instruction.
type Args interface {
	EncodeArgs() ([]byte, error)
}

// StructArgs encodes a named argument struct field by field in declaration
// order, exactly as Anchor's codegen does for the matching Rust struct.
type StructArgs struct {
	Value interface{}
}

func (a StructArgs) EncodeArgs() ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := bin.NewBorshEncoder(buf)
	if err := enc.Encode(a.Value); err != nil {
		return nil, fmt.Errorf("%w: struct args: %v", ErrEncoding, err)
	}
	return buf.Bytes(), nil
}

// Tuple encodes a plain ordered list of values with no field names, for
// instructions where no argument struct has been generated.
type Tuple []interface{}

func (t Tuple) EncodeArgs() ([]byte, error) {
	buf := new(bytes.Buffer)
	for i, v := range t {
		b, err := borsh.Serialize(v)
		if err != nil {
			return nil, fmt.Errorf("%w: tuple arg %d: %v", ErrEncoding, i, err)
		}
		buf.Write(b)
	}
	return buf.Bytes(), nil
}

// NoArgs is the argument value for instructions that take none.
type NoArgs struct{}

func (NoArgs) EncodeArgs() ([]byte, error) {
	return nil, nil
}

// InstructionData builds the full instruction payload for a method:
// discriminator followed by the serialized arguments.
func InstructionData(name string, args Args) ([]byte, error) {
	if args == nil {
		args = NoArgs{}
	}

	encoded, err := args.EncodeArgs()
	if err != nil {
		return nil, err
	}

	disc := InstructionDiscriminator(name)
	data := make([]byte, 0, DiscriminatorLen+len(encoded))
	data = append(data, disc[:]...)
	data = append(data, encoded...)
	return data, nil
}

// DecodeArgs decodes borsh-encoded bytes back into the given argument
// struct. Used by tests and by account decoding for round-trip checks.
func DecodeArgs(data []byte, out interface{}) error {
	dec := bin.NewBorshDecoder(data)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrEncoding, err)
	}
	return nil
}
