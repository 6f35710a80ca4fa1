package ledger

import "strings"

// Order is a sort direction. The zero value is OrderDesc, the default for
// every aggregate listing.
type Order int

const (
	OrderDesc Order = iota
	OrderAsc
)

// String returns "desc" or "asc".
func (o Order) String() string {
	if o == OrderAsc {
		return "asc"
	}
	return "desc"
}

// ParseOrder parses "asc" or "desc" (case-insensitive). Empty means OrderDesc.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(s) {
	case "", "desc":
		return OrderDesc, nil
	case "asc":
		return OrderAsc, nil
	default:
		return OrderDesc, InvalidInput("unknown order %q: must be asc or desc", s)
	}
}

// Field is a column an aggregate listing can be sorted on.
type Field int

const (
	FieldSender Field = iota + 1
	FieldReceiver
	FieldToken
	FieldAmount
)

// String returns the field's lowercase name.
func (f Field) String() string {
	switch f {
	case FieldSender:
		return "sender"
	case FieldReceiver:
		return "receiver"
	case FieldToken:
		return "token"
	case FieldAmount:
		return "amount"
	default:
		return "unknown"
	}
}

// OrderTerm is one component of a sort: a field and its direction.
type OrderTerm struct {
	Field Field
	Desc  bool
}

// terms builds the sort for a listing: the selected key in the requested
// direction, then every remaining grouping key ascending as tie-breakers.
func terms(order Order, key Field, tiebreak ...Field) []OrderTerm {
	out := make([]OrderTerm, 0, 1+len(tiebreak))
	out = append(out, OrderTerm{Field: key, Desc: order == OrderDesc})
	for _, f := range tiebreak {
		if f == key {
			continue
		}
		out = append(out, OrderTerm{Field: f})
	}
	return out
}

// UserTokenOrderBy selects the sort key for ListUserToken.
// The zero value selects the default key, sender.
type UserTokenOrderBy int

const (
	UserTokenOrderDefault UserTokenOrderBy = iota
	UserTokenOrderSender
	UserTokenOrderAmount
)

// ParseUserTokenOrderBy parses "sender" or "amount". Empty selects the default.
func ParseUserTokenOrderBy(s string) (UserTokenOrderBy, error) {
	switch strings.ToLower(s) {
	case "":
		return UserTokenOrderDefault, nil
	case "sender":
		return UserTokenOrderSender, nil
	case "amount":
		return UserTokenOrderAmount, nil
	default:
		return UserTokenOrderDefault, InvalidInput("unknown sort key %q: must be sender or amount", s)
	}
}

func (by UserTokenOrderBy) field() Field {
	if by == UserTokenOrderAmount {
		return FieldAmount
	}
	return FieldSender
}

// TokensOrderBy selects the sort key for ListTokensByUser.
// The zero value selects the default key, token.
type TokensOrderBy int

const (
	TokensOrderDefault TokensOrderBy = iota
	TokensOrderToken
	TokensOrderSender
	TokensOrderAmount
)

// ParseTokensOrderBy parses "token", "sender" or "amount".
func ParseTokensOrderBy(s string) (TokensOrderBy, error) {
	switch strings.ToLower(s) {
	case "":
		return TokensOrderDefault, nil
	case "token":
		return TokensOrderToken, nil
	case "sender":
		return TokensOrderSender, nil
	case "amount":
		return TokensOrderAmount, nil
	default:
		return TokensOrderDefault, InvalidInput("unknown sort key %q: must be token, sender or amount", s)
	}
}

func (by TokensOrderBy) field() Field {
	switch by {
	case TokensOrderSender:
		return FieldSender
	case TokensOrderAmount:
		return FieldAmount
	default:
		return FieldToken
	}
}

// UsersOrderBy selects the sort key for ListUsersByToken.
// The zero value selects the default key, receiver.
type UsersOrderBy int

const (
	UsersOrderDefault UsersOrderBy = iota
	UsersOrderReceiver
	UsersOrderSender
	UsersOrderAmount
)

// ParseUsersOrderBy parses "receiver", "sender" or "amount".
func ParseUsersOrderBy(s string) (UsersOrderBy, error) {
	switch strings.ToLower(s) {
	case "":
		return UsersOrderDefault, nil
	case "receiver":
		return UsersOrderReceiver, nil
	case "sender":
		return UsersOrderSender, nil
	case "amount":
		return UsersOrderAmount, nil
	default:
		return UsersOrderDefault, InvalidInput("unknown sort key %q: must be receiver, sender or amount", s)
	}
}

func (by UsersOrderBy) field() Field {
	switch by {
	case UsersOrderSender:
		return FieldSender
	case UsersOrderAmount:
		return FieldAmount
	default:
		return FieldReceiver
	}
}

// UserTokenQuery is a resolved ListUserToken request.
type UserTokenQuery struct {
	Receiver UserID
	Token    TokenID
	Order    Order
	OrderBy  UserTokenOrderBy
}

// Terms returns the full sort. Ties break on sender id ascending.
func (q UserTokenQuery) Terms() []OrderTerm {
	return terms(q.Order, q.OrderBy.field(), FieldSender)
}

// TokensByUserQuery is a resolved ListTokensByUser request.
type TokensByUserQuery struct {
	Receiver UserID
	Order    Order
	OrderBy  TokensOrderBy
}

// Terms returns the full sort. Ties break on token id, then sender id.
func (q TokensByUserQuery) Terms() []OrderTerm {
	return terms(q.Order, q.OrderBy.field(), FieldToken, FieldSender)
}

// UsersByTokenQuery is a resolved ListUsersByToken request.
type UsersByTokenQuery struct {
	Token   TokenID
	Order   Order
	OrderBy UsersOrderBy
}

// Terms returns the full sort. Ties break on receiver id, then sender id.
func (q UsersByTokenQuery) Terms() []OrderTerm {
	return terms(q.Order, q.OrderBy.field(), FieldReceiver, FieldSender)
}
