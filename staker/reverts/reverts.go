// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// Kind classifies why an operation was reverted.
type Kind uint8

const (
	Arithmetic Kind = iota + 1
	InsufficientBalance
	InsufficientWithdrawable
	PoolNotFound
	Unauthorized
	InvalidInput
	InvalidSignature
	DivisionByZero
	NotInvertible
)

var kindNames = map[Kind]string{
	Arithmetic:               "arithmetic",
	InsufficientBalance:      "insufficient balance",
	InsufficientWithdrawable: "insufficient withdrawable",
	PoolNotFound:             "pool not found",
	Unauthorized:             "unauthorized",
	InvalidInput:             "invalid input",
	InvalidSignature:         "invalid signature",
	DivisionByZero:           "division by zero",
	NotInvertible:            "not invertible",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Sentinels for errors.Is matching, e.g. errors.Is(err, reverts.ErrPoolNotFound).
var (
	ErrArithmetic               = &ErrRevert{kind: Arithmetic, message: Arithmetic.String()}
	ErrInsufficientBalance      = &ErrRevert{kind: InsufficientBalance, message: InsufficientBalance.String()}
	ErrInsufficientWithdrawable = &ErrRevert{kind: InsufficientWithdrawable, message: InsufficientWithdrawable.String()}
	ErrPoolNotFound             = &ErrRevert{kind: PoolNotFound, message: PoolNotFound.String()}
	ErrUnauthorized             = &ErrRevert{kind: Unauthorized, message: Unauthorized.String()}
	ErrInvalidInput             = &ErrRevert{kind: InvalidInput, message: InvalidInput.String()}
	ErrInvalidSignature         = &ErrRevert{kind: InvalidSignature, message: InvalidSignature.String()}
	ErrDivisionByZero           = &ErrRevert{kind: DivisionByZero, message: DivisionByZero.String()}
	ErrNotInvertible            = &ErrRevert{kind: NotInvertible, message: NotInvertible.String()}
)

// ErrRevert aborts the triggering operation without any state change.
type ErrRevert struct {
	kind    Kind
	message string
}

func New(kind Kind, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
	}
}

func Newf(kind Kind, format string, args ...any) *ErrRevert {
	return New(kind, fmt.Sprintf(format, args...))
}

func (e *ErrRevert) Error() string {
	return e.message
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
}

// Is matches any revert of the same kind.
func (e *ErrRevert) Is(target error) bool {
	t, ok := target.(*ErrRevert)
	return ok && t.kind == e.kind
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// KindOf returns the kind of the revert wrapped in err, or zero.
func KindOf(err error) Kind {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.kind
	}
	return 0
}
