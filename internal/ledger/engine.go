package ledger

import (
	"context"
	"log/slog"
)

// Engine executes transfers and answers balance and aggregate queries
// over a Persistence backend.
//
// Engine is safe for concurrent use if the backend is. It holds no locks
// of its own: two transfers on the same triple may interleave between the
// balance read and the append, and each still returns its own observed
// previous total plus its own amount.
type Engine struct {
	store   Persistence
	resolve *Resolver
	refs    RefGenerator
	logger  *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithRefGenerator sets the transfer reference generator.
// Defaults to UUIDv7Generator.
func WithRefGenerator(g RefGenerator) Option {
	return func(e *Engine) {
		if g != nil {
			e.refs = g
		}
	}
}

// New creates an engine over p.
func New(p Persistence, opts ...Option) *Engine {
	e := &Engine{
		store:  p,
		refs:   UUIDv7Generator{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.resolve = NewResolver(p, e.logger)
	return e
}

// Resolver returns the engine's identity resolver.
func (e *Engine) Resolver() *Resolver {
	return e.resolve
}

// CreateUser creates a user named name (normalized).
func (e *Engine) CreateUser(ctx context.Context, name string) (User, error) {
	n, err := NormalizeName(name)
	if err != nil {
		return User{}, err
	}
	u, err := e.store.CreateUser(ctx, n)
	if err != nil {
		return User{}, StorageFailure("create user", err)
	}
	e.logger.Info("user created", "id", u.ID, "name", u.Name)
	return u, nil
}

// QueryUsers returns users named *name, or all users when name is nil.
// No match is an empty slice, not an error; a blank name matches nothing.
func (e *Engine) QueryUsers(ctx context.Context, name *string) ([]User, error) {
	filter, ok := normalizeFilter(name)
	if !ok {
		return []User{}, nil
	}
	users, err := e.store.QueryUsers(ctx, filter)
	if err != nil {
		return nil, StorageFailure("query users", err)
	}
	return users, nil
}

// CreateToken creates a token named name (normalized).
func (e *Engine) CreateToken(ctx context.Context, name string) (Token, error) {
	n, err := NormalizeName(name)
	if err != nil {
		return Token{}, err
	}
	t, err := e.store.CreateToken(ctx, n)
	if err != nil {
		return Token{}, StorageFailure("create token", err)
	}
	e.logger.Info("token created", "id", t.ID, "name", t.Name)
	return t, nil
}

// QueryTokens returns tokens named *name, or all tokens when name is nil.
func (e *Engine) QueryTokens(ctx context.Context, name *string) ([]Token, error) {
	filter, ok := normalizeFilter(name)
	if !ok {
		return []Token{}, nil
	}
	tokens, err := e.store.QueryTokens(ctx, filter)
	if err != nil {
		return nil, StorageFailure("query tokens", err)
	}
	return tokens, nil
}

// Transfer moves amount of token from sender to receiver.
//
// The three references are resolved first (names may be created); any
// resolution failure aborts before anything is written. The triple's
// current total is then read, the record appended, and the result's
// NewTotal is the total read plus amount. It is not re-read after the
// append, so concurrent transfers on the same triple never leak into it.
// An amount that would take the total outside int64 is invalid input and
// nothing is appended.
func (e *Engine) Transfer(ctx context.Context, sender, receiver UserRef, token TokenRef, amount int64) (TransferResult, error) {
	senderID, err := e.resolve.User(ctx, sender)
	if err != nil {
		return TransferResult{}, err
	}
	receiverID, err := e.resolve.User(ctx, receiver)
	if err != nil {
		return TransferResult{}, err
	}
	tokenID, err := e.resolve.Token(ctx, token)
	if err != nil {
		return TransferResult{}, err
	}

	previous, had, err := e.store.CurrentTotal(ctx, senderID, receiverID, tokenID)
	if err != nil {
		return TransferResult{}, StorageFailure("read current total", err)
	}
	if !had {
		previous = 0
	}
	newTotal, ok := AddAmounts(previous, amount)
	if !ok {
		return TransferResult{}, InvalidInput("amount %d overflows the current total %d", amount, previous)
	}

	rec, err := e.store.AppendTransaction(ctx, TransactionRecord{
		Sender:   senderID,
		Receiver: receiverID,
		Token:    tokenID,
		Amount:   amount,
		Ref:      e.refs.Generate(),
	})
	if err != nil {
		return TransferResult{}, StorageFailure("append transaction", err)
	}

	result := TransferResult{
		Record:      rec,
		Previous:    previous,
		HadPrevious: had,
		NewTotal:    newTotal,
	}
	e.logger.Debug("transfer recorded",
		"ref", rec.Ref,
		"seq", rec.Seq,
		"sender", senderID,
		"receiver", receiverID,
		"token", tokenID,
		"amount", amount,
		"previous", previous,
		"new_total", result.NewTotal,
	)
	return result, nil
}

// CurrentTotal returns the triple's summed history. ok is false when the
// triple has never been transferred, which is distinct from a zero total.
func (e *Engine) CurrentTotal(ctx context.Context, sender, receiver StrictUserRef, token StrictTokenRef) (total int64, ok bool, err error) {
	senderID, err := e.resolve.User(ctx, sender)
	if err != nil {
		return 0, false, err
	}
	receiverID, err := e.resolve.User(ctx, receiver)
	if err != nil {
		return 0, false, err
	}
	tokenID, err := e.resolve.Token(ctx, token)
	if err != nil {
		return 0, false, err
	}
	total, ok, err = e.store.CurrentTotal(ctx, senderID, receiverID, tokenID)
	if err != nil {
		return 0, false, StorageFailure("read current total", err)
	}
	return total, ok, nil
}

// History returns ledger entries matching filter in sequence order.
func (e *Engine) History(ctx context.Context, filter HistoryFilter) ([]TransactionRecord, error) {
	recs, err := e.store.ListTransactions(ctx, filter)
	if err != nil {
		return nil, StorageFailure("list transactions", err)
	}
	return recs, nil
}

// ListUserToken returns, for a fixed receiver and token, one row per
// sender with that sender's summed total.
func (e *Engine) ListUserToken(ctx context.Context, receiver StrictUserRef, token StrictTokenRef, order Order, by UserTokenOrderBy) ([]SenderBalance, error) {
	receiverID, err := e.resolve.User(ctx, receiver)
	if err != nil {
		return nil, err
	}
	tokenID, err := e.resolve.Token(ctx, token)
	if err != nil {
		return nil, err
	}
	rows, err := e.store.ListUserToken(ctx, UserTokenQuery{
		Receiver: receiverID,
		Token:    tokenID,
		Order:    order,
		OrderBy:  by,
	})
	if err != nil {
		return nil, StorageFailure("list user token", err)
	}
	return rows, nil
}

// ListTokensByUser returns, for a fixed receiver, one row per
// (token, sender) pair with its summed total.
func (e *Engine) ListTokensByUser(ctx context.Context, receiver StrictUserRef, order Order, by TokensOrderBy) ([]TokenSenderBalance, error) {
	receiverID, err := e.resolve.User(ctx, receiver)
	if err != nil {
		return nil, err
	}
	rows, err := e.store.ListTokensByUser(ctx, TokensByUserQuery{
		Receiver: receiverID,
		Order:    order,
		OrderBy:  by,
	})
	if err != nil {
		return nil, StorageFailure("list tokens by user", err)
	}
	return rows, nil
}

// ListUsersByToken returns, for a fixed token, one row per
// (receiver, sender) pair with its summed total.
func (e *Engine) ListUsersByToken(ctx context.Context, token StrictTokenRef, order Order, by UsersOrderBy) ([]ReceiverSenderBalance, error) {
	tokenID, err := e.resolve.Token(ctx, token)
	if err != nil {
		return nil, err
	}
	rows, err := e.store.ListUsersByToken(ctx, UsersByTokenQuery{
		Token:   tokenID,
		Order:   order,
		OrderBy: by,
	})
	if err != nil {
		return nil, StorageFailure("list users by token", err)
	}
	return rows, nil
}

// normalizeFilter normalizes a name filter. ok is false when the filter
// normalizes to the empty name, which no stored name can match.
func normalizeFilter(name *string) (filter *string, ok bool) {
	if name == nil {
		return nil, true
	}
	n, err := NormalizeName(*name)
	if err != nil {
		return nil, false
	}
	return &n, true
}

// AddAmounts returns a + b and reports whether the sum fits in an int64.
func AddAmounts(a, b int64) (int64, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}
	return sum, true
}
