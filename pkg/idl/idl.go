// Package idl models the program-definition descriptor generated from an
// Anchor program's interface: per-instruction canonical account order,
// argument layouts, account types and the program's error table.
package idl

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

var (
	ErrUnknownInstruction = errors.New("ErrUnknownInstruction")
	ErrUnknownAccountType = errors.New("ErrUnknownAccountType")
)

// Idl is the parsed program definition.
type Idl struct {
	Name         string           `json:"name"`
	Version      string           `json:"version"`
	Address      string           `json:"address"`
	Instructions []InstructionDef `json:"instructions"`
	Accounts     []AccountDef     `json:"accounts"`
	Errors       []ErrorDef       `json:"errors"`
}

// ProgramID decodes the IDL's base58 program address.
func (i *Idl) ProgramID() (solana.PublicKey, error) {
	raw, err := base58.Decode(i.Address)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("idl address: %w", err)
	}
	if len(raw) != solana.PublicKeyLength {
		return solana.PublicKey{}, fmt.Errorf("idl address: wrong key length %d", len(raw))
	}
	return solana.PublicKeyFromBytes(raw), nil
}

// InstructionDef names one instruction and fixes the canonical order of its
// account roles. The harness resolves call-site role sets against this
// order; it is the single source of truth for account positions.
type InstructionDef struct {
	Name     string     `json:"name"`
	Accounts []RoleDef  `json:"accounts"`
	Args     []FieldDef `json:"args"`
}

// RoleDef is one named account role in an instruction's canonical order.
type RoleDef struct {
	Name     string `json:"name"`
	IsMut    bool   `json:"isMut"`
	IsSigner bool   `json:"isSigner"`
}

// FieldDef describes one argument or account field.
type FieldDef struct {
	Name string      `json:"name"`
	Type interface{} `json:"type"`
}

// AccountDef describes one account type's field layout.
type AccountDef struct {
	Name string `json:"name"`
	Type struct {
		Kind   string     `json:"kind"`
		Fields []FieldDef `json:"fields"`
	} `json:"type"`
}

// ErrorDef is one program-defined error.
type ErrorDef struct {
	Code uint32 `json:"code"`
	Name string `json:"name"`
	Msg  string `json:"msg"`
}

// Parse decodes a JSON IDL as produced by Anchor's build.
func Parse(data []byte) (*Idl, error) {
	var parsed Idl
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse idl: %w", err)
	}
	return &parsed, nil
}

// Load reads and parses an IDL file.
func Load(path string) (*Idl, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load idl: %w", err)
	}
	return Parse(data)
}

// Instruction looks up an instruction definition by name.
func (i *Idl) Instruction(name string) (*InstructionDef, error) {
	for idx := range i.Instructions {
		if i.Instructions[idx].Name == name {
			return &i.Instructions[idx], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownInstruction, name)
}

// Account looks up an account type definition by name.
func (i *Idl) Account(name string) (*AccountDef, error) {
	for idx := range i.Accounts {
		if i.Accounts[idx].Name == name {
			return &i.Accounts[idx], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownAccountType, name)
}

// ErrorByCode resolves a program error code to its definition.
func (i *Idl) ErrorByCode(code uint32) (*ErrorDef, bool) {
	for idx := range i.Errors {
		if i.Errors[idx].Code == code {
			return &i.Errors[idx], true
		}
	}
	return nil, false
}

// ErrorByName resolves a program error name to its definition.
func (i *Idl) ErrorByName(name string) (*ErrorDef, bool) {
	for idx := range i.Errors {
		if i.Errors[idx].Name == name {
			return &i.Errors[idx], true
		}
	}
	return nil, false
}
