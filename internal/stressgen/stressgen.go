// Package stressgen generates synthetic transaction CSVs for the
// stress-test CLI command. It is an external-collaborator convenience,
// not part of the tested engine core: its output is random and it makes
// no correctness claims about the engine beyond not crashing it.
package stressgen

import (
	"fmt"
	"io"
	"math/rand/v2"
)

var kinds = [...]string{"deposit", "withdrawal", "dispute", "resolve", "chargeback"}

// Write emits a header row plus n synthetic transaction rows to w, in the
// same shape as the original implementation's random-transaction
// generator: client ids uniform over 1..=1000 (well inside the 16-bit
// client id range so rows actually parse), tx ids uniform and starting at
// 1, a uniform amount for deposit/withdrawal, and an empty amount for the
// other three kinds.
func Write(w io.Writer, n int) error {
	if _, err := io.WriteString(w, "type,client,tx,amount\n"); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		kind := kinds[rand.IntN(len(kinds))]
		client := rand.IntN(1_000) + 1
		tx := rand.IntN(10_000_000) + 1
		amount := ""
		if kind == "deposit" || kind == "withdrawal" {
			amount = fmt.Sprintf("%.4f", rand.Float64()*100_000)
		}
		if _, err := fmt.Fprintf(w, "%s,%d,%d,%s\n", kind, client, tx, amount); err != nil {
			return err
		}
	}
	return nil
}
