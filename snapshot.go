package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// transactionLogFileName is the fixed dump file name written to the
// current working directory when the CLI's -dump flag is given.
const transactionLogFileName = "transactions_log.csv"

// DumpAccounts writes every account as CSV rows
// "client,available,held,total,locked" to w. Row order follows shard
// iteration order, which carries no cross-shard guarantee.
func (e *Engine) DumpAccounts(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"client", "available", "held", "total", "locked"}); err != nil {
		return fmt.Errorf("ledger: %w", err)
	}
	for client, acc := range e.accounts.All() {
		row := []string{
			strconv.FormatUint(uint64(client), 10),
			acc.Available.String(),
			acc.Held.String(),
			acc.Total.String(),
			strconv.FormatBool(acc.Locked),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("ledger: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// DumpTransactionLog writes every logged transaction as CSV rows
// "type,client,tx,amount,disputed" to w.
func (e *Engine) DumpTransactionLog(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"type", "client", "tx", "amount", "disputed"}); err != nil {
		return fmt.Errorf("ledger: %w", err)
	}
	for _, tx := range e.log.All() {
		amount := ""
		if tx.Amount != nil {
			amount = tx.Amount.String()
		}
		row := []string{
			tx.Kind.String(),
			strconv.FormatUint(uint64(tx.Client), 10),
			strconv.FormatUint(uint64(tx.Tx), 10),
			amount,
			strconv.FormatBool(tx.Disputed),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("ledger: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// DumpTransactionLogToFile writes the transaction log to
// transactions_log.csv in the current working directory, the fixed name
// the -dump CLI flag produces.
func (e *Engine) DumpTransactionLogToFile() error {
	f, err := os.Create(transactionLogFileName)
	if err != nil {
		return fmt.Errorf("ledger: creating %s: %w", transactionLogFileName, err)
	}
	defer f.Close()
	return e.DumpTransactionLog(f)
}

// LoadFromPreviousSession populates the engine's accounts and
// transaction-log maps directly from previously dumped CSV files,
// bypassing every §4.2 semantic check. It is meant for a fast warm start
// from a snapshot already known to be internally consistent; callers are
// responsible for verifying the snapshot's integrity (e.g. via a content
// hash) before calling this. It is not reachable from the CLI.
func (e *Engine) LoadFromPreviousSession(accountsPath, logPath string) error {
	af, err := os.Open(accountsPath)
	if err != nil {
		return fmt.Errorf("ledger: opening %s: %w", accountsPath, err)
	}
	defer af.Close()
	if err := e.loadAccounts(af); err != nil {
		return err
	}

	lf, err := os.Open(logPath)
	if err != nil {
		return fmt.Errorf("ledger: opening %s: %w", logPath, err)
	}
	defer lf.Close()
	return e.loadTransactionLog(lf)
}

func (e *Engine) loadAccounts(r io.Reader) error {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("ledger: reading accounts header: %w", err)
	}
	if !isAccountsHeaderRow(header) {
		if err := e.loadAccountRow(header); err != nil {
			return err
		}
	}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("ledger: %w: %v", ErrInvalidDecimal, err)
		}
		if err := e.loadAccountRow(record); err != nil {
			return err
		}
	}
}

func isAccountsHeaderRow(fields []string) bool {
	return len(fields) >= 1 && (fields[0] == "client" || fields[0] == "Client")
}

func (e *Engine) loadAccountRow(fields []string) error {
	if len(fields) < 5 {
		return fmt.Errorf("ledger: %w: expected 5 account fields, got %d", ErrInvalidDecimal, len(fields))
	}
	client, err := strconv.ParseUint(fields[0], 10, 16)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidClientID, fields[0])
	}
	available, err := MoneyFromString(fields[1])
	if err != nil {
		return err
	}
	held, err := MoneyFromString(fields[2])
	if err != nil {
		return err
	}
	total, err := MoneyFromString(fields[3])
	if err != nil {
		return err
	}
	locked, err := strconv.ParseBool(fields[4])
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidBool, fields[4])
	}
	e.accounts.Insert(ClientID(client), Account{
		Client:    ClientID(client),
		Available: available,
		Held:      held,
		Total:     total,
		Locked:    locked,
	})
	return nil
}

func (e *Engine) loadTransactionLog(r io.Reader) error {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("ledger: reading transaction log header: %w", err)
	}
	if !isHeaderRow(header) {
		if err := e.loadLogRow(header); err != nil {
			return err
		}
	}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("ledger: %w: %v", ErrInvalidDecimal, err)
		}
		if err := e.loadLogRow(record); err != nil {
			return err
		}
	}
}

func (e *Engine) loadLogRow(fields []string) error {
	if len(fields) < 5 {
		return fmt.Errorf("ledger: %w: expected 5 log fields, got %d", ErrInvalidDecimal, len(fields))
	}
	kind, err := ParseKind(fields[0])
	if err != nil {
		return err
	}
	client, err := strconv.ParseUint(fields[1], 10, 16)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidClientID, fields[1])
	}
	tx, err := strconv.ParseUint(fields[2], 10, 32)
	if err != nil {
		return fmt.Errorf("ledger: invalid transaction id %q: %w", fields[2], err)
	}
	t := Transaction{Kind: kind, Client: ClientID(client), Tx: TransactionID(tx)}
	if fields[3] != "" {
		amount, err := MoneyFromString(fields[3])
		if err != nil {
			return err
		}
		t.Amount = &amount
	}
	disputed, err := strconv.ParseBool(fields[4])
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidBool, fields[4])
	}
	t.Disputed = disputed
	e.log.Insert(t.Tx, t)
	return nil
}
