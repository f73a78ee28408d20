package ledger

import (
	"fmt"

	"github.com/cellarflow/ledgerengine/shardmap"
)

// Engine is the synchronous ledger: any number of goroutines may call
// Process concurrently. Mutation of a single account or transaction-log
// entry is serialized by that entry's shard lock. A transition never holds
// an accounts lock and a log lock at the same time: it writes the account
// first and the log entry afterwards, which rules out deadlock.
type Engine struct {
	accounts *shardmap.Map[ClientID, Account]
	log      *shardmap.Map[TransactionID, Transaction]
}

// NewEngine constructs an empty engine. shards, if 0, uses
// shardmap.DefaultShardCount.
func NewEngine(shards int) *Engine {
	if shards <= 0 {
		shards = shardmap.DefaultShardCount()
	}
	return &Engine{
		accounts: shardmap.New[ClientID, Account](shards),
		log:      shardmap.New[TransactionID, Transaction](shards),
	}
}

// Process executes the §4.2 state transition for tx against the engine's
// account and transaction-log maps. It is safe to call concurrently from
// multiple goroutines; ordering across distinct accounts is not
// guaranteed, only per-account serialization.
func (e *Engine) Process(tx Transaction) error {
	switch tx.Kind {
	case Deposit:
		return e.processDeposit(tx)
	case Withdrawal:
		return e.processWithdrawal(tx)
	case Dispute:
		return e.processDispute(tx)
	case Resolve:
		return e.processResolve(tx)
	case Chargeback:
		return e.processChargeback(tx)
	default:
		return fmt.Errorf("%w: %v", ErrUnknownKind, tx.Kind)
	}
}

func (e *Engine) processDeposit(tx Transaction) error {
	if tx.Amount == nil {
		return ErrNoAmount
	}
	amount := *tx.Amount
	if !amount.IsPositive() {
		return ErrDepositAmountInvalid
	}
	if e.log.Contains(tx.Tx) {
		return ErrTransactionRepeated
	}
	err := e.accounts.WithEntry(tx.Client, func(acc Account, ok bool) (Account, bool, error) {
		if !ok {
			acc = newAccount(tx.Client)
		}
		if acc.Locked {
			return acc, true, ErrAccountLocked
		}
		var err error
		if acc.Available, err = acc.Available.Add(amount); err != nil {
			return acc, true, err
		}
		if acc.Total, err = acc.Total.Add(amount); err != nil {
			return acc, true, err
		}
		return acc, true, nil
	})
	if err != nil {
		return err
	}
	tx.Disputed = false
	e.log.Insert(tx.Tx, tx)
	return nil
}

func (e *Engine) processWithdrawal(tx Transaction) error {
	if tx.Amount == nil {
		return ErrNoAmount
	}
	amount := *tx.Amount
	if !amount.IsPositive() {
		return ErrWithdrawalAmountInvalid
	}
	if !e.accounts.Contains(tx.Client) {
		return ErrAccountNotFound
	}
	if e.log.Contains(tx.Tx) {
		return ErrTransactionRepeated
	}
	err := e.accounts.WithEntry(tx.Client, func(acc Account, ok bool) (Account, bool, error) {
		if !ok {
			return acc, true, ErrAccountNotFound
		}
		if acc.Locked {
			return acc, true, ErrAccountLocked
		}
		if acc.Available.LessThan(amount) {
			return acc, true, ErrInsufficientFunds
		}
		var err error
		if acc.Available, err = acc.Available.Sub(amount); err != nil {
			return acc, true, err
		}
		if acc.Total, err = acc.Total.Sub(amount); err != nil {
			return acc, true, err
		}
		return acc, true, nil
	})
	if err != nil {
		return err
	}
	tx.Disputed = false
	e.log.Insert(tx.Tx, tx)
	return nil
}

// disputeAmount returns the signed amount check_transaction_semantic
// computes: positive for a deposit, negative for a withdrawal, so a single
// add/sub pair expresses both the dispute and resolve transitions for
// either origin kind.
func disputeAmount(original Transaction) (Money, error) {
	if original.Amount == nil {
		return Money{}, ErrNoAmount
	}
	amount := *original.Amount
	if original.Kind == Withdrawal {
		amount = moneyFromScaled(-amount.scaled)
	}
	return amount, nil
}

func (e *Engine) processDispute(tx Transaction) error {
	original, ok := e.log.Get(tx.Tx)
	if !ok {
		return ErrTransactionNotFound
	}
	if original.Client != tx.Client {
		return ErrDifferentClient
	}
	if original.Disputed {
		return ErrTransactionAlreadyDisputed
	}
	amount, err := disputeAmount(original)
	if err != nil {
		return err
	}
	if err := e.accounts.WithEntry(tx.Client, func(acc Account, ok bool) (Account, bool, error) {
		if !ok {
			return acc, true, ErrAccountNotFound
		}
		if acc.Locked {
			return acc, true, ErrAccountLocked
		}
		var err error
		if acc.Available, err = acc.Available.Sub(amount); err != nil {
			return acc, true, err
		}
		if acc.Held, err = acc.Held.Add(amount); err != nil {
			return acc, true, err
		}
		return acc, true, nil
	}); err != nil {
		return err
	}
	return e.log.WithEntry(tx.Tx, func(t Transaction, ok bool) (Transaction, bool, error) {
		if !ok {
			return t, true, ErrTransactionNotFound
		}
		t.Disputed = true
		return t, true, nil
	})
}

func (e *Engine) processResolve(tx Transaction) error {
	original, ok := e.log.Get(tx.Tx)
	if !ok {
		return ErrTransactionNotFound
	}
	if original.Client != tx.Client {
		return ErrDifferentClient
	}
	if !original.Disputed {
		return ErrTransactionNotDisputed
	}
	amount, err := disputeAmount(original)
	if err != nil {
		return err
	}
	if err := e.accounts.WithEntry(tx.Client, func(acc Account, ok bool) (Account, bool, error) {
		if !ok {
			return acc, true, ErrAccountNotFound
		}
		if acc.Locked {
			return acc, true, ErrAccountLocked
		}
		var err error
		if acc.Available, err = acc.Available.Add(amount); err != nil {
			return acc, true, err
		}
		if acc.Held, err = acc.Held.Sub(amount); err != nil {
			return acc, true, err
		}
		return acc, true, nil
	}); err != nil {
		return err
	}
	return e.log.WithEntry(tx.Tx, func(t Transaction, ok bool) (Transaction, bool, error) {
		if !ok {
			return t, true, ErrTransactionNotFound
		}
		t.Disputed = false
		return t, true, nil
	})
}

func (e *Engine) processChargeback(tx Transaction) error {
	original, ok := e.log.Get(tx.Tx)
	if !ok {
		return ErrTransactionNotFound
	}
	if original.Client != tx.Client {
		return ErrDifferentClient
	}
	if !original.Disputed {
		return ErrTransactionNotDisputed
	}
	amount, err := disputeAmount(original)
	if err != nil {
		return err
	}
	if err := e.accounts.WithEntry(tx.Client, func(acc Account, ok bool) (Account, bool, error) {
		if !ok {
			return acc, true, ErrAccountNotFound
		}
		if acc.Locked {
			return acc, true, ErrAccountLocked
		}
		var err error
		if acc.Held, err = acc.Held.Sub(amount); err != nil {
			return acc, true, err
		}
		if acc.Total, err = acc.Total.Sub(amount); err != nil {
			return acc, true, err
		}
		acc.Locked = true
		return acc, true, nil
	}); err != nil {
		return err
	}
	// Disputed remains true; the record is frozen, matching the original's
	// own behavior of never clearing it on chargeback.
	return nil
}

// Account returns a snapshot of a single client's account, if it exists.
func (e *Engine) Account(client ClientID) (Account, bool) {
	return e.accounts.Get(client)
}

// SizeEstimate approximates the engine's in-memory footprint in bytes. It
// cannot account for map bucket overhead precisely; it is a rough signal,
// not an accounting primitive.
func (e *Engine) SizeEstimate() int {
	const accountSize = 40 // ClientID + 3 Money + bool, rounded up
	const txSize = 40      // Kind + ClientID + TransactionID + *Money + bool
	return e.accounts.Len()*accountSize + e.log.Len()*txSize
}
