package ledger

// UserID identifies a user. Assigned by the storage backend, never reused.
type UserID int64

// TokenID identifies a token type. Assigned by the storage backend, never reused.
type TokenID int64

// User is a ledger participant. Names are not unique.
type User struct {
	ID   UserID `json:"id"`
	Name string `json:"name"`
}

// Token is a tradable point type. Names are not unique.
type Token struct {
	ID   TokenID `json:"id"`
	Name string  `json:"name"`
}

// TransactionRecord is one immutable ledger entry.
//
// Seq is assigned by the backend on append and is the ordering authority
// for all balance computations. Amount may be negative.
type TransactionRecord struct {
	Seq      int64   `json:"seq"`
	Sender   UserID  `json:"sender"`
	Receiver UserID  `json:"receiver"`
	Token    TokenID `json:"token"`
	Amount   int64   `json:"amount"`

	// Ref is the correlation reference generated for the transfer.
	Ref string `json:"ref"`
}

// HistoryFilter selects ledger entries. Nil fields match everything.
// Limit <= 0 means no limit.
type HistoryFilter struct {
	Sender   *UserID
	Receiver *UserID
	Token    *TokenID
	Limit    int
}

// Matches reports whether rec satisfies the filter (ignoring Limit).
func (f HistoryFilter) Matches(rec TransactionRecord) bool {
	if f.Sender != nil && *f.Sender != rec.Sender {
		return false
	}
	if f.Receiver != nil && *f.Receiver != rec.Receiver {
		return false
	}
	if f.Token != nil && *f.Token != rec.Token {
		return false
	}
	return true
}

// TransferResult describes a completed transfer.
type TransferResult struct {
	Record TransactionRecord `json:"record"`

	// Previous is the triple's total observed before the append.
	// HadPrevious is false when the triple had no history; Previous is then 0.
	Previous    int64 `json:"previous"`
	HadPrevious bool  `json:"had_previous"`

	// NewTotal is Previous + the transferred amount.
	NewTotal int64 `json:"new_total"`
}
