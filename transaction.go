package ledger

import (
	"fmt"
	"strconv"
	"strings"
)

// TransactionID uniquely identifies a transaction within a session.
type TransactionID uint32

// Kind is one of the five transaction kinds the engine understands.
type Kind int

const (
	Deposit Kind = iota
	Withdrawal
	Dispute
	Resolve
	Chargeback
)

func (k Kind) String() string {
	switch k {
	case Deposit:
		return "deposit"
	case Withdrawal:
		return "withdrawal"
	case Dispute:
		return "dispute"
	case Resolve:
		return "resolve"
	case Chargeback:
		return "chargeback"
	default:
		return "unknown"
	}
}

// ParseKind converts a case-insensitive token to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deposit":
		return Deposit, nil
	case "withdrawal":
		return Withdrawal, nil
	case "dispute":
		return Dispute, nil
	case "resolve":
		return Resolve, nil
	case "chargeback":
		return Chargeback, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Transaction is the tuple (kind, client, tx, amount?, disputed). Amount is
// present for Deposit and Withdrawal only; Disputed is always false on
// ingress and is owned by the engine thereafter.
type Transaction struct {
	Kind     Kind
	Client   ClientID
	Tx       TransactionID
	Amount   *Money
	Disputed bool
}

// hasAmount reports whether this transaction kind is one that carries a
// logged amount.
func (t Transaction) hasAmount() bool {
	return t.Kind == Deposit || t.Kind == Withdrawal
}

// parseTransaction builds a Transaction from a raw CSV row already split
// into fields, following the input grammar "type,client,tx,amount". Field
// whitespace is trimmed before parsing. Amount is required for deposit and
// withdrawal; for the three dispute-family kinds the amount field is
// ignored and may be empty.
func parseTransaction(fields []string) (Transaction, error) {
	if len(fields) < 4 {
		return Transaction{}, fmt.Errorf("ledger: %w: expected 4 fields, got %d", ErrInvalidDecimal, len(fields))
	}
	kind, err := ParseKind(fields[0])
	if err != nil {
		return Transaction{}, err
	}
	clientRaw := strings.TrimSpace(fields[1])
	client, err := strconv.ParseUint(clientRaw, 10, 16)
	if err != nil {
		return Transaction{}, fmt.Errorf("%w: %q", ErrInvalidClientID, clientRaw)
	}
	txRaw := strings.TrimSpace(fields[2])
	tx, err := strconv.ParseUint(txRaw, 10, 32)
	if err != nil {
		return Transaction{}, fmt.Errorf("ledger: invalid transaction id %q: %w", txRaw, err)
	}

	t := Transaction{
		Kind:   kind,
		Client: ClientID(client),
		Tx:     TransactionID(tx),
	}

	if !t.hasAmount() {
		return t, nil
	}
	amount, err := MoneyFromString(strings.TrimSpace(fields[3]))
	if err != nil {
		return Transaction{}, err
	}
	t.Amount = &amount
	return t, nil
}
