package reportserver

import "github.com/pkg/errors"

// errors
var (
	ErrInvalidArgumentIndex = errors.New("invalid argument index")
	ErrInvalidArgumentType  = errors.New("invalid argument type")
	ErrInvalidAddress       = errors.New("invalid address")
	ErrInvalidMethod        = errors.New("invalid method")
)
