// Package anchor implements the wire-level conventions of the Anchor
// framework: 8-byte sighash discriminators, borsh argument encoding and
// program derived addresses.
package anchor

import (
	"crypto/sha256"
)

const DiscriminatorLen = 8

// Sighash namespaces used by Anchor's codegen.
const (
	NamespaceGlobal  = "global"
	NamespaceAccount = "account"
	NamespaceEvent   = "event"
)

type Discriminator [DiscriminatorLen]byte

// Sighash computes the discriminator for a namespaced name. The result is
// the first 8 bytes of sha256("namespace:name") and must match the selector
// table compiled into the target program byte for byte.
func Sighash(namespace string, name string) Discriminator {
	h := sha256.Sum256([]byte(namespace + ":" + name))

	var disc Discriminator
	copy(disc[:], h[:DiscriminatorLen])
	return disc
}

// InstructionDiscriminator returns the discriminator for a global
// (instruction) method name.
func InstructionDiscriminator(name string) Discriminator {
	return Sighash(NamespaceGlobal, name)
}

// AccountDiscriminator returns the discriminator prepended to account data
// of the named account type.
func AccountDiscriminator(name string) Discriminator {
	return Sighash(NamespaceAccount, name)
}

// EventDiscriminator returns the discriminator leading emitted event
// payloads of the named event type.
func EventDiscriminator(name string) Discriminator {
	return Sighash(NamespaceEvent, name)
}
