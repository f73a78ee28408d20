package ledger

import (
	"errors"
	"strings"
)

// Semantic errors: per-record, recoverable, never fatal to the session.
// Each is a comparable sentinel, matched with errors.Is in the
// fs.ErrNotExist style.
var (
	ErrDifferentClient            = errors.New("ledger: transaction belongs to a different client")
	ErrNoAmount                   = errors.New("ledger: referenced transaction has no amount")
	ErrDepositAmountInvalid       = errors.New("ledger: deposit amount must be positive")
	ErrWithdrawalAmountInvalid    = errors.New("ledger: withdrawal amount must be positive")
	ErrTransactionRepeated        = errors.New("ledger: transaction id already logged")
	ErrInsufficientFunds          = errors.New("ledger: insufficient available funds")
	ErrAccountNotFound            = errors.New("ledger: account not found")
	ErrTransactionNotFound        = errors.New("ledger: transaction not found")
	ErrAdditionOverflow           = errors.New("ledger: addition overflow")
	ErrSubtractionOverflow        = errors.New("ledger: subtraction overflow")
	ErrAccountLocked              = errors.New("ledger: account is locked")
	ErrTransactionAlreadyDisputed = errors.New("ledger: transaction already disputed")
	ErrTransactionNotDisputed     = errors.New("ledger: transaction is not disputed")
)

// I/O and serialization errors: may abort the current operation rather
// than being collected per-record.
var (
	ErrInvalidClientID = errors.New("ledger: invalid client id")
	ErrInvalidDecimal  = errors.New("ledger: invalid decimal amount")
	ErrInvalidBool     = errors.New("ledger: invalid boolean")
	ErrUnknownKind     = errors.New("ledger: unknown transaction kind")
)

// MultipleErrors aggregates the per-record errors collected over one
// ingestion session. Its Error method renders a bulleted report, the shape
// stderr output takes at end-of-stream.
type MultipleErrors struct {
	Errors []error
}

func (m *MultipleErrors) Error() string {
	var b strings.Builder
	b.WriteString("some errors occurred while processing transactions:\n")
	for _, e := range m.Errors {
		b.WriteString("  - ")
		b.WriteString(e.Error())
		b.WriteByte('\n')
	}
	return b.String()
}

// Add appends err to the aggregate, ignoring nil.
func (m *MultipleErrors) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// Len reports the number of collected errors.
func (m *MultipleErrors) Len() int { return len(m.Errors) }

// ErrOrNil returns m if it holds at least one error, otherwise nil — so
// callers can return the aggregate directly from a function signature
// without an extra nil check at every call site.
func (m *MultipleErrors) ErrOrNil() error {
	if m == nil || len(m.Errors) == 0 {
		return nil
	}
	return m
}
