package ledger

import "context"

// Persistence is the storage boundary the engine runs on.
//
// Every method is atomic on its own. No method is retried by the engine.
// Failures must be reported as *Error values with CodeStorageFailure
// (see StorageFailure); a nil error means the call fully took effect.
//
// Names passed in are already normalized by NormalizeName.
type Persistence interface {
	// CreateUser inserts a user and returns it with its new id.
	CreateUser(ctx context.Context, name string) (User, error)

	// QueryUsers returns users whose name equals *name, or all users if
	// name is nil, ordered by id ascending. No match is an empty slice.
	QueryUsers(ctx context.Context, name *string) ([]User, error)

	// CreateToken inserts a token and returns it with its new id.
	CreateToken(ctx context.Context, name string) (Token, error)

	// QueryTokens is QueryUsers for tokens.
	QueryTokens(ctx context.Context, name *string) ([]Token, error)

	// CurrentTotal returns the summed amount of the triple's history.
	// ok is false when the triple has no history at all.
	CurrentTotal(ctx context.Context, sender, receiver UserID, token TokenID) (total int64, ok bool, err error)

	// AppendTransaction appends rec (Seq ignored) and returns it with
	// the assigned Seq. Dangling ids are a storage failure.
	AppendTransaction(ctx context.Context, rec TransactionRecord) (TransactionRecord, error)

	// ListTransactions returns history matching filter in Seq order.
	ListTransactions(ctx context.Context, filter HistoryFilter) ([]TransactionRecord, error)

	// ListUserToken returns one row per sender, sorted by q.Terms().
	ListUserToken(ctx context.Context, q UserTokenQuery) ([]SenderBalance, error)

	// ListTokensByUser returns one row per (token, sender), sorted by q.Terms().
	ListTokensByUser(ctx context.Context, q TokensByUserQuery) ([]TokenSenderBalance, error)

	// ListUsersByToken returns one row per (receiver, sender), sorted by q.Terms().
	ListUsersByToken(ctx context.Context, q UsersByTokenQuery) ([]ReceiverSenderBalance, error)
}
