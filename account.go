package ledger

// ClientID uniquely identifies a client for the lifetime of a session.
type ClientID uint16

// Account holds one client's ledger state. Invariant A1 — Total equals
// Available plus Held — holds at every observable point; it is never
// stored as a separate quantity inside a transition, only recomputed by
// construction. Invariant A2 — once Locked is true, no field ever changes
// again.
type Account struct {
	Client    ClientID
	Available Money
	Held      Money
	Total     Money
	Locked    bool
}

// newAccount returns a freshly opened, zero-balance account.
func newAccount(client ClientID) Account {
	return Account{Client: client}
}
