package memstore

import (
	"context"

	"github.com/roach88/pointsx/internal/ledger"
)

type tokenSender struct {
	token  ledger.TokenID
	sender ledger.UserID
}

type receiverSender struct {
	receiver ledger.UserID
	sender   ledger.UserID
}

// ListUserToken implements ledger.Persistence.
func (s *Store) ListUserToken(ctx context.Context, q ledger.UserTokenQuery) ([]ledger.SenderBalance, error) {
	if err := ctx.Err(); err != nil {
		return nil, ledger.StorageFailure("list user token", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	sums := make(map[ledger.UserID]int64)
	for _, tx := range s.txs {
		if tx.Receiver == q.Receiver && tx.Token == q.Token {
			k := tx.Sender
			sum, ok := ledger.AddAmounts(sums[k], tx.Amount)
			if !ok {
				return nil, ledger.StorageFailure("list user token", errIntegerOverflow)
			}
			sums[k] = sum
		}
	}

	rows := make([]ledger.SenderBalance, 0, len(sums))
	for sender, amount := range sums {
		u, _ := s.user(sender)
		rows = append(rows, ledger.SenderBalance{Sender: u, Amount: amount})
	}
	ledger.SortSenderBalances(rows, q.Terms())
	return rows, nil
}

// ListTokensByUser implements ledger.Persistence.
func (s *Store) ListTokensByUser(ctx context.Context, q ledger.TokensByUserQuery) ([]ledger.TokenSenderBalance, error) {
	if err := ctx.Err(); err != nil {
		return nil, ledger.StorageFailure("list tokens by user", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	sums := make(map[tokenSender]int64)
	for _, tx := range s.txs {
		if tx.Receiver == q.Receiver {
			k := tokenSender{token: tx.Token, sender: tx.Sender}
			sum, ok := ledger.AddAmounts(sums[k], tx.Amount)
			if !ok {
				return nil, ledger.StorageFailure("list tokens by user", errIntegerOverflow)
			}
			sums[k] = sum
		}
	}

	rows := make([]ledger.TokenSenderBalance, 0, len(sums))
	for key, amount := range sums {
		t, _ := s.token(key.token)
		u, _ := s.user(key.sender)
		rows = append(rows, ledger.TokenSenderBalance{Token: t, Sender: u, Amount: amount})
	}
	ledger.SortTokenSenderBalances(rows, q.Terms())
	return rows, nil
}

// ListUsersByToken implements ledger.Persistence.
func (s *Store) ListUsersByToken(ctx context.Context, q ledger.UsersByTokenQuery) ([]ledger.ReceiverSenderBalance, error) {
	if err := ctx.Err(); err != nil {
		return nil, ledger.StorageFailure("list users by token", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	sums := make(map[receiverSender]int64)
	for _, tx := range s.txs {
		if tx.Token == q.Token {
			k := receiverSender{receiver: tx.Receiver, sender: tx.Sender}
			sum, ok := ledger.AddAmounts(sums[k], tx.Amount)
			if !ok {
				return nil, ledger.StorageFailure("list users by token", errIntegerOverflow)
			}
			sums[k] = sum
		}
	}

	rows := make([]ledger.ReceiverSenderBalance, 0, len(sums))
	for key, amount := range sums {
		r, _ := s.user(key.receiver)
		u, _ := s.user(key.sender)
		rows = append(rows, ledger.ReceiverSenderBalance{Receiver: r, Sender: u, Amount: amount})
	}
	ledger.SortReceiverSenderBalances(rows, q.Terms())
	return rows, nil
}
