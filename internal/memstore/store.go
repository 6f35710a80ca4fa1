// Package memstore is an in-memory ledger.Persistence.
//
// It backs the scenario harness, `--db :memory:` and engine tests. All
// state lives behind one RWMutex, so every method is atomic, which matches
// the per-call atomicity the SQLite store gives.
package memstore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/roach88/pointsx/internal/ledger"
)

// errIntegerOverflow mirrors SQLite, whose SUM fails rather than wraps.
var errIntegerOverflow = errors.New("integer overflow")

// Option configures a Store.
type Option func(*Store)

// WithUniqueNames makes CreateUser and CreateToken reject a name that
// already exists, the same way a unique index would.
func WithUniqueNames() Option {
	return func(s *Store) { s.uniqueNames = true }
}

// Store holds users, tokens and the transaction history in memory.
type Store struct {
	mu sync.RWMutex

	users  []ledger.User
	tokens []ledger.Token
	txs    []ledger.TransactionRecord

	lastUserID  ledger.UserID
	lastTokenID ledger.TokenID
	lastSeq     int64

	uniqueNames bool
}

var _ ledger.Persistence = (*Store)(nil)

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		users:  make([]ledger.User, 0),
		tokens: make([]ledger.Token, 0),
		txs:    make([]ledger.TransactionRecord, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateUser implements ledger.Persistence.
func (s *Store) CreateUser(ctx context.Context, name string) (ledger.User, error) {
	if err := ctx.Err(); err != nil {
		return ledger.User{}, ledger.StorageFailure("create user", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.uniqueNames {
		for _, u := range s.users {
			if u.Name == name {
				return ledger.User{}, ledger.StorageFailure("create user",
					fmt.Errorf("unique constraint failed: user name %q exists", name))
			}
		}
	}
	s.lastUserID++
	u := ledger.User{ID: s.lastUserID, Name: name}
	s.users = append(s.users, u)
	return u, nil
}

// QueryUsers implements ledger.Persistence.
func (s *Store) QueryUsers(ctx context.Context, name *string) ([]ledger.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, ledger.StorageFailure("query users", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ledger.User, 0)
	for _, u := range s.users {
		if name == nil || u.Name == *name {
			out = append(out, u)
		}
	}
	return out, nil
}

// CreateToken implements ledger.Persistence.
func (s *Store) CreateToken(ctx context.Context, name string) (ledger.Token, error) {
	if err := ctx.Err(); err != nil {
		return ledger.Token{}, ledger.StorageFailure("create token", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.uniqueNames {
		for _, t := range s.tokens {
			if t.Name == name {
				return ledger.Token{}, ledger.StorageFailure("create token",
					fmt.Errorf("unique constraint failed: token name %q exists", name))
			}
		}
	}
	s.lastTokenID++
	t := ledger.Token{ID: s.lastTokenID, Name: name}
	s.tokens = append(s.tokens, t)
	return t, nil
}

// QueryTokens implements ledger.Persistence.
func (s *Store) QueryTokens(ctx context.Context, name *string) ([]ledger.Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, ledger.StorageFailure("query tokens", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ledger.Token, 0)
	for _, t := range s.tokens {
		if name == nil || t.Name == *name {
			out = append(out, t)
		}
	}
	return out, nil
}

// CurrentTotal implements ledger.Persistence.
func (s *Store) CurrentTotal(ctx context.Context, sender, receiver ledger.UserID, token ledger.TokenID) (int64, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, ledger.StorageFailure("current total", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	found := false
	for _, tx := range s.txs {
		if tx.Sender == sender && tx.Receiver == receiver && tx.Token == token {
			var ok bool
			if total, ok = ledger.AddAmounts(total, tx.Amount); !ok {
				return 0, false, ledger.StorageFailure("current total", errIntegerOverflow)
			}
			found = true
		}
	}
	return total, found, nil
}

// AppendTransaction implements ledger.Persistence.
// Unknown ids are rejected like a foreign key violation.
func (s *Store) AppendTransaction(ctx context.Context, rec ledger.TransactionRecord) (ledger.TransactionRecord, error) {
	if err := ctx.Err(); err != nil {
		return ledger.TransactionRecord{}, ledger.StorageFailure("append transaction", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.user(rec.Sender); !ok {
		return ledger.TransactionRecord{}, ledger.StorageFailure("append transaction",
			fmt.Errorf("foreign key constraint failed: sender %d", rec.Sender))
	}
	if _, ok := s.user(rec.Receiver); !ok {
		return ledger.TransactionRecord{}, ledger.StorageFailure("append transaction",
			fmt.Errorf("foreign key constraint failed: receiver %d", rec.Receiver))
	}
	if _, ok := s.token(rec.Token); !ok {
		return ledger.TransactionRecord{}, ledger.StorageFailure("append transaction",
			fmt.Errorf("foreign key constraint failed: token %d", rec.Token))
	}

	s.lastSeq++
	rec.Seq = s.lastSeq
	s.txs = append(s.txs, rec)
	return rec, nil
}

// ListTransactions implements ledger.Persistence.
func (s *Store) ListTransactions(ctx context.Context, filter ledger.HistoryFilter) ([]ledger.TransactionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, ledger.StorageFailure("list transactions", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ledger.TransactionRecord, 0)
	for _, tx := range s.txs {
		if !filter.Matches(tx) {
			continue
		}
		out = append(out, tx)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

// user returns the user with id. Caller holds s.mu.
// Ids are dense and start at 1, so lookup is by index.
func (s *Store) user(id ledger.UserID) (ledger.User, bool) {
	if id < 1 || int(id) > len(s.users) {
		return ledger.User{}, false
	}
	return s.users[id-1], true
}

// token returns the token with id. Caller holds s.mu.
func (s *Store) token(id ledger.TokenID) (ledger.Token, bool) {
	if id < 1 || int(id) > len(s.tokens) {
		return ledger.Token{}, false
	}
	return s.tokens[id-1], true
}
