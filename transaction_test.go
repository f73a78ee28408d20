package ledger

import (
	"errors"
	"testing"
)

func TestParseKindCaseInsensitive(t *testing.T) {
	for _, s := range []string{"Deposit", "DEPOSIT", "deposit", " deposit "} {
		k, err := ParseKind(s)
		if err != nil || k != Deposit {
			t.Errorf("ParseKind(%q) = (%v, %v), want (Deposit, nil)", s, k, err)
		}
	}
	if _, err := ParseKind("transfer"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("ParseKind(%q): got %v, want ErrUnknownKind", "transfer", err)
	}
}

func TestParseTransactionAmountOptional(t *testing.T) {
	tx, err := parseTransaction([]string{"dispute", "1", "42", ""})
	if err != nil {
		t.Fatal(err)
	}
	if tx.Amount != nil {
		t.Errorf("expected nil amount for dispute, got %v", tx.Amount)
	}
	if tx.Client != 1 || tx.Tx != 42 || tx.Kind != Dispute {
		t.Errorf("unexpected transaction: %+v", tx)
	}
}

func TestParseTransactionWhitespaceTolerated(t *testing.T) {
	tx, err := parseTransaction([]string{" deposit ", " 7 ", " 9 ", " 12.5000 "})
	if err != nil {
		t.Fatal(err)
	}
	if tx.Amount == nil || tx.Amount.String() != "12.5" {
		t.Errorf("got amount %v, want 12.5", tx.Amount)
	}
}
