package evm

import "errors"

// errors
var (
	ErrInvalidArtifact   = errors.New("invalid artifact")
	ErrNoBytecode        = errors.New("artifact has no bytecode")
	ErrNoContractAddress = errors.New("receipt has no contract address")
	ErrUnexpectedOutput  = errors.New("unexpected call output")
)
