package reportserver

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// Handler handles a rpc method
type Handler func(ctx context.Context, arg *Argument) (interface{}, error)

// JRPCRequest is a jrpc request
type JRPCRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      interface{}   `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

// JRPCResponse is a jrpc response
type JRPCResponse struct {
	ID      interface{} `json:"id"`
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result"`
}

// JRPCResponseWithError is a jrpc response with an error
type JRPCResponseWithError struct {
	ID      interface{} `json:"id"`
	JSONRPC string      `json:"jsonrpc"`
	Error   *JRPCError  `json:"error"`
}

// JRPCError is the error object of a jrpc response
type JRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Argument parses rpc arguments
type Argument struct {
	args []interface{}
}

// NewArgument returns a Argument
func NewArgument(args []interface{}) *Argument {
	return &Argument{
		args: args,
	}
}

// Len returns length of arguments
func (arg *Argument) Len() int {
	return len(arg.args)
}

// String returns a string value of the index
func (arg *Argument) String(index int) (string, error) {
	if index < 0 || index >= len(arg.args) {
		return "", errors.WithStack(ErrInvalidArgumentIndex)
	}
	a := arg.args[index]
	if a == nil {
		return "", errors.WithStack(ErrInvalidArgumentType)
	}
	return fmt.Sprintf("%v", a), nil
}

// Address returns an address value of the index
func (arg *Argument) Address(index int) (common.Address, error) {
	str, err := arg.String(index)
	if err != nil {
		return common.Address{}, err
	}
	return parseAddress(str)
}

func parseAddress(str string) (common.Address, error) {
	if !common.IsHexAddress(str) {
		return common.Address{}, errors.Wrap(ErrInvalidAddress, str)
	}
	return common.HexToAddress(str), nil
}

// jrpc error codes
const (
	CodeParseError     = -32700
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeServerError    = -32000
)

func parseError(err error) *JRPCResponseWithError {
	return &JRPCResponseWithError{
		JSONRPC: "2.0",
		Error:   &JRPCError{Code: CodeParseError, Message: "parse error: " + err.Error()},
	}
}

func (s *ReportServer) handleJRPC(ctx context.Context, req *JRPCRequest) interface{} {
	h, has := s.funcMap[req.Method]
	if !has {
		return &JRPCResponseWithError{
			ID:      req.ID,
			JSONRPC: req.JSONRPC,
			Error:   &JRPCError{Code: CodeMethodNotFound, Message: errors.Wrap(ErrInvalidMethod, req.Method).Error()},
		}
	}
	res, err := h(ctx, NewArgument(req.Params))
	if err != nil {
		code := CodeServerError
		if errors.Is(err, ErrInvalidAddress) || errors.Is(err, ErrInvalidArgumentIndex) || errors.Is(err, ErrInvalidArgumentType) {
			code = CodeInvalidParams
		}
		return &JRPCResponseWithError{
			ID:      req.ID,
			JSONRPC: req.JSONRPC,
			Error:   &JRPCError{Code: code, Message: err.Error()},
		}
	}
	return &JRPCResponse{
		ID:      req.ID,
		JSONRPC: req.JSONRPC,
		Result:  res,
	}
}

func (s *ReportServer) setMethods() {
	s.funcMap = map[string]Handler{
		"kekfork.fixture": func(ctx context.Context, arg *Argument) (interface{}, error) {
			return s.src.Fixture(ctx)
		},
		"kekfork.report": func(ctx context.Context, arg *Argument) (interface{}, error) {
			return s.src.Report(ctx)
		},
		"kekfork.reserves": func(ctx context.Context, arg *Argument) (interface{}, error) {
			return s.src.Reserves(ctx)
		},
		"kekfork.balance": func(ctx context.Context, arg *Argument) (interface{}, error) {
			addr, err := arg.Address(0)
			if err != nil {
				return nil, err
			}
			return s.src.Balances(ctx, addr)
		},
	}
}
