package ledger

// AccountStore maps client ids to accounts. Accounts are created on a
// client's first applied transaction and never removed during a run.
// Not safe for concurrent use; ownership stays with the engine.
type AccountStore struct {
	accounts map[uint16]*Account
}

func NewAccountStore() *AccountStore {
	return &AccountStore{
		accounts: make(map[uint16]*Account),
	}
}

func (s *AccountStore) Get(client uint16) (*Account, bool) {
	a, ok := s.accounts[client]
	return a, ok
}

// Put materializes an account in the store. The engine calls this only
// after the account's first mutation succeeded, so a rejected record
// never leaves an empty account behind.
func (s *AccountStore) Put(a *Account) {
	s.accounts[a.Client] = a
}

func (s *AccountStore) Len() int {
	return len(s.accounts)
}

// Accounts returns all accounts in unspecified order.
func (s *AccountStore) Accounts() []*Account {
	out := make([]*Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a)
	}
	return out
}

// Ledger is the append-style store of value-moving transactions keyed
// by tx id. Entries are never deleted: any deposit may be disputed
// arbitrarily far in the future, so the ledger grows with input size.
type Ledger struct {
	entries map[uint32]*Entry
}

func NewLedger() *Ledger {
	return &Ledger{
		entries: make(map[uint32]*Entry),
	}
}

// Insert records an entry, rejecting duplicate tx ids.
func (l *Ledger) Insert(e *Entry) error {
	if _, exists := l.entries[e.Tx]; exists {
		return ErrDuplicateTx
	}
	l.entries[e.Tx] = e
	return nil
}

func (l *Ledger) Contains(txID uint32) bool {
	_, ok := l.entries[txID]
	return ok
}

// Lookup returns the entry for txID or ErrUnknownTx.
func (l *Ledger) Lookup(txID uint32) (*Entry, error) {
	e, ok := l.entries[txID]
	if !ok {
		return nil, ErrUnknownTx
	}
	return e, nil
}

func (l *Ledger) Len() int {
	return len(l.entries)
}
