package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/roach88/pointsx/internal/ledger"
	"github.com/roach88/pointsx/internal/querysql"
)

// CurrentTotal returns the summed history of one triple.
// ok is false when the triple has no rows, which the user_balance view
// expresses as a missing row rather than a zero total.
func (s *Store) CurrentTotal(ctx context.Context, sender, receiver ledger.UserID, token ledger.TokenID) (int64, bool, error) {
	var total int64
	err := s.db.QueryRowContext(ctx, `
		SELECT current_total
		FROM user_balance
		WHERE sender_id = ? AND receiver_id = ? AND token_id = ?
	`, int64(sender), int64(receiver), int64(token)).Scan(&total)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, ledger.StorageFailure("current total", err)
	}
	return total, true, nil
}

// ListTransactions returns matching history ordered by seq ascending.
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) ListTransactions(ctx context.Context, filter ledger.HistoryFilter) ([]ledger.TransactionRecord, error) {
	query, params, err := querysql.Compile(filter)
	if err != nil {
		return nil, ledger.StorageFailure("list transactions: compile", err)
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, ledger.StorageFailure("list transactions", err)
	}
	defer rows.Close()

	records := []ledger.TransactionRecord{}
	for rows.Next() {
		var rec ledger.TransactionRecord
		if err := rows.Scan(&rec.Seq, &rec.Sender, &rec.Receiver, &rec.Token, &rec.Amount, &rec.Ref); err != nil {
			return nil, ledger.StorageFailure("list transactions: scan", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, ledger.StorageFailure("list transactions: iterate", err)
	}
	return records, nil
}

// ListUserToken returns per-sender totals for one receiver and token.
func (s *Store) ListUserToken(ctx context.Context, q ledger.UserTokenQuery) ([]ledger.SenderBalance, error) {
	query, params, err := querysql.Compile(q)
	if err != nil {
		return nil, ledger.StorageFailure("list user token: compile", err)
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, ledger.StorageFailure("list user token", err)
	}
	defer rows.Close()

	out := []ledger.SenderBalance{}
	for rows.Next() {
		var b ledger.SenderBalance
		if err := rows.Scan(&b.Sender.ID, &b.Sender.Name, &b.Amount); err != nil {
			return nil, ledger.StorageFailure("list user token: scan", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, ledger.StorageFailure("list user token: iterate", err)
	}
	return out, nil
}

// ListTokensByUser returns per-(token, sender) totals for one receiver.
func (s *Store) ListTokensByUser(ctx context.Context, q ledger.TokensByUserQuery) ([]ledger.TokenSenderBalance, error) {
	query, params, err := querysql.Compile(q)
	if err != nil {
		return nil, ledger.StorageFailure("list tokens by user: compile", err)
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, ledger.StorageFailure("list tokens by user", err)
	}
	defer rows.Close()

	out := []ledger.TokenSenderBalance{}
	for rows.Next() {
		var b ledger.TokenSenderBalance
		if err := rows.Scan(&b.Token.ID, &b.Token.Name, &b.Sender.ID, &b.Sender.Name, &b.Amount); err != nil {
			return nil, ledger.StorageFailure("list tokens by user: scan", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, ledger.StorageFailure("list tokens by user: iterate", err)
	}
	return out, nil
}

// ListUsersByToken returns per-(receiver, sender) totals for one token.
func (s *Store) ListUsersByToken(ctx context.Context, q ledger.UsersByTokenQuery) ([]ledger.ReceiverSenderBalance, error) {
	query, params, err := querysql.Compile(q)
	if err != nil {
		return nil, ledger.StorageFailure("list users by token: compile", err)
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, ledger.StorageFailure("list users by token", err)
	}
	defer rows.Close()

	out := []ledger.ReceiverSenderBalance{}
	for rows.Next() {
		var b ledger.ReceiverSenderBalance
		if err := rows.Scan(&b.Receiver.ID, &b.Receiver.Name, &b.Sender.ID, &b.Sender.Name, &b.Amount); err != nil {
			return nil, ledger.StorageFailure("list users by token: scan", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, ledger.StorageFailure("list users by token: iterate", err)
	}
	return out, nil
}
