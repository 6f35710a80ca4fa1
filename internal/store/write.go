package store

import (
	"context"

	"github.com/roach88/pointsx/internal/ledger"
)

// AppendTransaction inserts one ledger entry and returns it with its seq.
//
// The record's Seq field is ignored; seq is assigned by AUTOINCREMENT and
// never reused. Sender, receiver and token must exist (foreign key
// constraints); a violation is returned as a storage failure.
func (s *Store) AppendTransaction(ctx context.Context, rec ledger.TransactionRecord) (ledger.TransactionRecord, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO transaction_history
		(sender_id, receiver_id, token_id, amount, ref)
		VALUES (?, ?, ?, ?, ?)
	`,
		int64(rec.Sender),
		int64(rec.Receiver),
		int64(rec.Token),
		rec.Amount,
		rec.Ref,
	)
	if err != nil {
		return ledger.TransactionRecord{}, ledger.StorageFailure("append transaction", err)
	}

	seq, err := result.LastInsertId()
	if err != nil {
		return ledger.TransactionRecord{}, ledger.StorageFailure("append transaction: last insert id", err)
	}
	rec.Seq = seq
	return rec, nil
}
