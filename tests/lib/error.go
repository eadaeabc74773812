package testlib

import "github.com/pkg/errors"

var (
	ErrUnknownAccount = errors.New("unknown account")
	ErrNoContract     = errors.New("no contract at address")
	ErrNotPayable     = errors.New("deploy with value is not supported")
	ErrForcedRevert   = errors.New("forced revert")
)
