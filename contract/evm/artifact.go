package evm

import (
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// Artifact is a compiled contract: the abi and the creation bytecode
type Artifact struct {
	ContractName string
	Abi          *abi.ABI
	Bytecode     []byte
}

// LoadArtifact reads a Hardhat (or solc standard json) artifact file
func LoadArtifact(path string) (*Artifact, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	art, err := ParseArtifact(bs)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return art, nil
}

// ParseArtifact parses the artifact json
// bytecode is taken from "bytecode" (hardhat, uniswap build) or "evm.bytecode.object" (solc)
func ParseArtifact(bs []byte) (*Artifact, error) {
	if !gjson.ValidBytes(bs) {
		return nil, errors.WithStack(ErrInvalidArtifact)
	}
	abiRaw := gjson.GetBytes(bs, "abi")
	if !abiRaw.IsArray() {
		return nil, errors.Wrap(ErrInvalidArtifact, "missing abi")
	}
	parsed, err := ParseABI(abiRaw.Raw)
	if err != nil {
		return nil, err
	}

	code := gjson.GetBytes(bs, "bytecode")
	if code.IsObject() {
		code = code.Get("object")
	}
	if !code.Exists() {
		code = gjson.GetBytes(bs, "evm.bytecode.object")
	}
	var bytecode []byte
	if hexcode := code.String(); hexcode != "" && hexcode != "0x" {
		if !strings.HasPrefix(hexcode, "0x") {
			hexcode = "0x" + hexcode
		}
		if bytecode, err = hexutil.Decode(hexcode); err != nil {
			return nil, errors.Wrap(ErrInvalidArtifact, err.Error())
		}
	}

	return &Artifact{
		ContractName: gjson.GetBytes(bs, "contractName").String(),
		Abi:          parsed,
		Bytecode:     bytecode,
	}, nil
}

// ParseABI parses an abi json array
func ParseABI(data string) (*abi.ABI, error) {
	parsed, err := abi.JSON(strings.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(ErrInvalidArtifact, err.Error())
	}
	if err := checkArguments("constructor", parsed.Constructor.Inputs); err != nil {
		return nil, err
	}
	for name, m := range parsed.Methods {
		if err := checkArguments(name, m.Inputs); err != nil {
			return nil, err
		}
		if err := checkArguments(name, m.Outputs); err != nil {
			return nil, err
		}
	}
	for name, ev := range parsed.Events {
		if err := checkArguments(name, ev.Inputs); err != nil {
			return nil, err
		}
	}
	return &parsed, nil
}

// checkArguments rejects sized types abi.JSON lets through, such as uint7 or bytes33
func checkArguments(name string, args abi.Arguments) error {
	for _, arg := range args {
		if err := checkType(&arg.Type); err != nil {
			return errors.Wrapf(err, "%s(%s)", name, arg.Type.String())
		}
	}
	return nil
}

func checkType(t *abi.Type) error {
	switch t.T {
	case abi.IntTy, abi.UintTy:
		if t.Size < 8 || t.Size > 256 || t.Size%8 != 0 {
			return errors.Wrapf(ErrInvalidArtifact, "invalid integer size %d", t.Size)
		}
	case abi.FixedBytesTy:
		if t.Size < 1 || t.Size > 32 {
			return errors.Wrapf(ErrInvalidArtifact, "invalid bytes size %d", t.Size)
		}
	case abi.SliceTy, abi.ArrayTy:
		return checkType(t.Elem)
	case abi.TupleTy:
		for _, el := range t.TupleElems {
			if err := checkType(el); err != nil {
				return err
			}
		}
	}
	return nil
}

// MustParseABI parses the abi json or panics
func MustParseABI(data string) *abi.ABI {
	parsed, err := ParseABI(data)
	if err != nil {
		panic(err)
	}
	return parsed
}
