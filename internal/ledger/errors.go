// Package ledger defines the typed failures returned by the trading and
// account services. Handlers map kinds to transport-level responses; the
// services themselves never format user-facing text.
package ledger

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindInvalidCredentials
	KindUserNotFound
	KindPortfolioNotFound
	KindSecurityNotAvailable
	KindAuthorization
	KindInsufficientFunds
	KindInsufficientShares
	KindAdminProtection
	KindUniqueConstraint
	KindEmptyHoldings
	KindDataAccess
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindUserNotFound:
		return "user_not_found"
	case KindPortfolioNotFound:
		return "portfolio_not_found"
	case KindSecurityNotAvailable:
		return "security_not_available"
	case KindAuthorization:
		return "authorization"
	case KindInsufficientFunds:
		return "insufficient_funds"
	case KindInsufficientShares:
		return "insufficient_shares"
	case KindAdminProtection:
		return "admin_protection"
	case KindUniqueConstraint:
		return "unique_constraint"
	case KindEmptyHoldings:
		return "empty_holdings"
	case KindDataAccess:
		return "data_access"
	}
	return "unknown"
}

// Error is a typed failure. Code is a stable machine-readable identifier
// (e.g. INSUFFICIENT_FUNDS) carried alongside the broader Kind.
type Error struct {
	Kind Kind
	Code string
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.err
}

func newError(kind Kind, code string, format string, args ...interface{}) *Error {
	return &Error{
		Kind: kind,
		Code: code,
		msg:  fmt.Sprintf(format, args...),
	}
}

func NewValidation(code string, format string, args ...interface{}) *Error {
	return newError(KindValidation, code, format, args...)
}

func NewInvalidCredentials(code string, format string, args ...interface{}) *Error {
	return newError(KindInvalidCredentials, code, format, args...)
}

func NewUserNotFound(username string) *Error {
	return newError(KindUserNotFound, "USER_NOT_FOUND", "user %q not found", username)
}

func NewPortfolioNotFound(id int32) *Error {
	return newError(KindPortfolioNotFound, "PORTFOLIO_NOT_FOUND", "portfolio %d not found", id)
}

func NewSecurityNotAvailable(ticker string) *Error {
	return newError(KindSecurityNotAvailable, "SYMBOL_NOT_AVAILABLE", "symbol %q is not available for trading", ticker)
}

func NewAuthorization(code string, format string, args ...interface{}) *Error {
	return newError(KindAuthorization, code, format, args...)
}

func NewInsufficientFunds(format string, args ...interface{}) *Error {
	return newError(KindInsufficientFunds, "INSUFFICIENT_FUNDS", format, args...)
}

func NewInsufficientShares(format string, args ...interface{}) *Error {
	return newError(KindInsufficientShares, "INSUFFICIENT_SHARES", format, args...)
}

func NewAdminProtection(format string, args ...interface{}) *Error {
	return newError(KindAdminProtection, "LAST_ADMIN", format, args...)
}

func NewUniqueConstraint(code string, format string, args ...interface{}) *Error {
	return newError(KindUniqueConstraint, code, format, args...)
}

func NewEmptyHoldings(username string) *Error {
	return newError(KindEmptyHoldings, "NO_HOLDINGS", "user %q has no holdings to liquidate", username)
}

// NewDataAccess wraps a storage failure. The wrapped error stays reachable
// through errors.Unwrap for logging.
func NewDataAccess(err error, format string, args ...interface{}) *Error {
	e := newError(KindDataAccess, "DATA_ACCESS_FAILED", format, args...)
	e.err = err
	return e
}

// KindOf extracts the failure kind from any error in the chain.
// Untyped errors report KindUnknown.
func KindOf(err error) Kind {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	return KindUnknown
}

// CodeOf extracts the stable failure code, or "" for untyped errors.
func CodeOf(err error) string {
	var le *Error
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}
