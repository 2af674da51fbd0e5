package payment

import (
	"errors"
	"fmt"
)

var (
	ErrWalletUnavailable = errors.New("payment: wallet runtime is not installed")
	ErrInvalidAmount     = errors.New("payment: invalid amount")
	ErrNetwork           = errors.New("payment: backend unreachable")
	ErrMalformedResponse = errors.New("payment: malformed backend response")
	ErrWalletRejected    = errors.New("payment: wallet rejected the command")
)

// Kind separates the failure modes of a send attempt.
type Kind string

const (
	KindWalletUnavailable Kind = "wallet_unavailable"
	KindNetwork           Kind = "network"
	KindMalformedResponse Kind = "malformed_response"
	KindInvalidAmount     Kind = "invalid_amount"
	KindWalletRejected    Kind = "wallet_rejected"
)

var kindSentinels = map[Kind]error{
	KindWalletUnavailable: ErrWalletUnavailable,
	KindNetwork:           ErrNetwork,
	KindMalformedResponse: ErrMalformedResponse,
	KindInvalidAmount:     ErrInvalidAmount,
	KindWalletRejected:    ErrWalletRejected,
}

// Error is a tagged send failure. errors.Is matches it against the Kind's sentinel.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	s, ok := kindSentinels[e.Kind]
	return ok && s == target
}

// Wrap tags err with kind unless it already carries one.
func Wrap(kind Kind, op string, err error) error {
	var pe *Error
	if errors.As(err, &pe) {
		return err
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf reports the Kind of err, or "" when it is untagged.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	for k, s := range kindSentinels {
		if errors.Is(err, s) {
			return k
		}
	}
	return ""
}
