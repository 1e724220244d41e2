// Package errdefs defines the failure taxonomy every public SDK operation
// funnels through. Remote calls and validated arithmetic surface exactly one
// of four kinds: missing-wallet, account-not-found, invalid-argument or
// transaction-failed. Callers never see an unmapped transport error.
package errdefs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/soulboard-labs/soulboard-go/types"
)

// MissingWalletError is raised proactively before any call that needs a
// signer when no wallet public key is available.
type MissingWalletError struct {
	Operation string
}

func (e *MissingWalletError) Error() string {
	if e.Operation == "" {
		return "no wallet configured"
	}
	return fmt.Sprintf("no wallet configured for %s", e.Operation)
}

// NewMissingWallet returns a MissingWalletError for the named operation.
func NewMissingWallet(operation string) error {
	return &MissingWalletError{Operation: operation}
}

// AccountNotFoundError means the queried address has no account on chain.
// Address is the derived address, the identifier a caller can act on; Cause
// is the underlying fetch error, kept for diagnostics.
type AccountNotFoundError struct {
	Address types.PublicKey
	Cause   error
}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("account %s not found", e.Address)
}

func (e *AccountNotFoundError) Unwrap() error { return e.Cause }

// NewAccountNotFound wraps cause as an AccountNotFoundError for address.
func NewAccountNotFound(address types.PublicKey, cause error) error {
	return &AccountNotFoundError{Address: address, Cause: cause}
}

// InvalidArgumentError reports a caller-supplied value that failed
// validation. It is raised synchronously, before any network call.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid argument: %s", e.Reason)
	}
	return fmt.Sprintf("invalid argument %q: %s", e.Field, e.Reason)
}

// NewInvalidArgument builds an InvalidArgumentError for field with a
// formatted reason.
func NewInvalidArgument(field, format string, args ...any) error {
	return &InvalidArgumentError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// TransactionFailedError is the catch-all for remote execution failures. It
// carries whatever program log lines were available together with the
// original cause.
type TransactionFailedError struct {
	Operation string
	Logs      []string
	Cause     error
}

func (e *TransactionFailedError) Error() string {
	if e.Operation == "" {
		return fmt.Sprintf("transaction failed: %v", e.Cause)
	}
	return fmt.Sprintf("%s: transaction failed: %v", e.Operation, e.Cause)
}

func (e *TransactionFailedError) Unwrap() error { return e.Cause }

// NewTransactionFailed wraps cause, attaching the operation label and any
// program logs.
func NewTransactionFailed(operation string, logs []string, cause error) error {
	return &TransactionFailedError{Operation: operation, Logs: logs, Cause: cause}
}

// IsMissingWallet reports whether err is a MissingWalletError.
func IsMissingWallet(err error) bool {
	var target *MissingWalletError
	return errors.As(err, &target)
}

// IsAccountNotFound reports whether err is an AccountNotFoundError.
func IsAccountNotFound(err error) bool {
	var target *AccountNotFoundError
	return errors.As(err, &target)
}

// IsInvalidArgument reports whether err is an InvalidArgumentError.
func IsInvalidArgument(err error) bool {
	var target *InvalidArgumentError
	return errors.As(err, &target)
}

// IsTransactionFailed reports whether err is a TransactionFailedError.
func IsTransactionFailed(err error) bool {
	var target *TransactionFailedError
	return errors.As(err, &target)
}

// notFoundPatterns are the transport messages, matched case-insensitively,
// that mean "no account at this address" rather than a failed call.
var notFoundPatterns = []string{
	"account does not exist",
	"could not find account",
	"account not found",
}

// MapFetchError translates a raw account-fetch failure. Messages matching a
// known not-found pattern become AccountNotFoundError carrying the queried
// address; anything else becomes TransactionFailedError. Errors already in
// the taxonomy pass through unchanged, and a nil err maps to nil.
func MapFetchError(operation string, address types.PublicKey, err error) error {
	if err == nil {
		return nil
	}
	if IsAccountNotFound(err) || IsInvalidArgument(err) || IsMissingWallet(err) || IsTransactionFailed(err) {
		return err
	}
	msg := strings.ToLower(err.Error())
	for _, pattern := range notFoundPatterns {
		if strings.Contains(msg, pattern) {
			return NewAccountNotFound(address, err)
		}
	}
	return NewTransactionFailed(operation, ProgramLogs(err), err)
}

// MapExecutionError translates a raw transaction-submission failure into the
// taxonomy, preserving taxonomy errors and attaching program logs when the
// cause exposes them.
func MapExecutionError(operation string, err error) error {
	if err == nil {
		return nil
	}
	if IsAccountNotFound(err) || IsInvalidArgument(err) || IsMissingWallet(err) || IsTransactionFailed(err) {
		return err
	}
	return NewTransactionFailed(operation, ProgramLogs(err), err)
}

// logCarrier is implemented by transport errors that captured program logs.
type logCarrier interface {
	ProgramLogs() []string
}

// ProgramLogs extracts program log lines from err's chain, if any were
// captured by the transport.
func ProgramLogs(err error) []string {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if lc, ok := e.(logCarrier); ok {
			return lc.ProgramLogs()
		}
	}
	return nil
}
