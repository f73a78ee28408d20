package ledger

import (
	"errors"
	"math"
	"testing"
)

func TestMoneyFromStringRoundsHalfToEven(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"100.0", "100"},
		{"30.12345", "30.1234"}, // 5th digit rounds down: 4 is even
		{"30.12335", "30.1234"}, // rounds up: 4 is even, nearest even wins
		{"-5.00005", "-5"},      // away-from-even digit rounds toward even (0)
		{" 12.5 ", "12.5"},
	}
	for _, c := range cases {
		m, err := MoneyFromString(c.in)
		if err != nil {
			t.Fatalf("MoneyFromString(%q): %v", c.in, err)
		}
		if got := m.String(); got != c.want {
			t.Errorf("MoneyFromString(%q).String() = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestMoneyFromStringRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "  ", "abc", "1.2.3"} {
		if _, err := MoneyFromString(in); err == nil {
			t.Errorf("MoneyFromString(%q): expected error, got nil", in)
		} else if !errors.Is(err, ErrInvalidDecimal) {
			t.Errorf("MoneyFromString(%q): got %v, want ErrInvalidDecimal", in, err)
		}
	}
}

func TestMoneyAddSub(t *testing.T) {
	a, _ := MoneyFromString("10.5")
	b, _ := MoneyFromString("3.25")
	sum, err := a.Add(b)
	if err != nil || sum.String() != "13.75" {
		t.Fatalf("10.5+3.25 = %v (%v), want 13.75", sum, err)
	}
	diff, err := a.Sub(b)
	if err != nil || diff.String() != "7.25" {
		t.Fatalf("10.5-3.25 = %v (%v), want 7.25", diff, err)
	}
}

func TestMoneyAddOverflow(t *testing.T) {
	a := moneyFromScaled(math.MaxInt64)
	one, _ := MoneyFromString("0.0001")
	if _, err := a.Add(one); !errors.Is(err, ErrAdditionOverflow) {
		t.Fatalf("got %v, want ErrAdditionOverflow", err)
	}
}

func TestMoneySubOverflow(t *testing.T) {
	a := moneyFromScaled(math.MinInt64)
	one, _ := MoneyFromString("0.0001")
	if _, err := a.Sub(one); !errors.Is(err, ErrSubtractionOverflow) {
		t.Fatalf("got %v, want ErrSubtractionOverflow", err)
	}
}

func TestMoneySignsAndComparisons(t *testing.T) {
	neg, _ := MoneyFromString("-1")
	pos, _ := MoneyFromString("1")
	if !neg.IsNegative() || !pos.IsPositive() || !Zero.IsZero() {
		t.Fatal("sign predicates disagree with construction")
	}
	if !neg.LessThan(pos) {
		t.Fatal("expected -1 < 1")
	}
	if !neg.Equal(moneyFromScaled(-moneyScale)) {
		t.Fatal("expected -1 to equal its scaled literal")
	}
}
