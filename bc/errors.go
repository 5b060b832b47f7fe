package bc

import "errors"

var (
	ErrNoProvider          = errors.New("no wallet provider detected")
	ErrAccessDenied        = errors.New("wallet access denied")
	ErrNetworkNotSupported = errors.New("the contract is not deployed to the detected network")
	ErrNotConnected        = errors.New("wallet is not connected")
	ErrRejected            = errors.New("transaction rejected by user")
	ErrReverted            = errors.New("transaction reverted")
	ErrInvalidName         = errors.New("invalid name")
	ErrInvalidOperation    = errors.New("invalid operation")
)
