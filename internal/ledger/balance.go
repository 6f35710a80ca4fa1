package ledger

import (
	"cmp"
	"slices"
)

// SenderBalance is one ListUserToken row: the summed total one sender has
// transferred of the fixed token to the fixed receiver.
type SenderBalance struct {
	Sender User  `json:"sender"`
	Amount int64 `json:"amount"`
}

// TokenSenderBalance is one ListTokensByUser row.
type TokenSenderBalance struct {
	Token  Token `json:"token"`
	Sender User  `json:"sender"`
	Amount int64 `json:"amount"`
}

// ReceiverSenderBalance is one ListUsersByToken row.
type ReceiverSenderBalance struct {
	Receiver User  `json:"receiver"`
	Sender   User  `json:"sender"`
	Amount   int64 `json:"amount"`
}

func (b SenderBalance) sortValue(f Field) int64 {
	if f == FieldAmount {
		return b.Amount
	}
	return int64(b.Sender.ID)
}

func (b TokenSenderBalance) sortValue(f Field) int64 {
	switch f {
	case FieldToken:
		return int64(b.Token.ID)
	case FieldAmount:
		return b.Amount
	default:
		return int64(b.Sender.ID)
	}
}

func (b ReceiverSenderBalance) sortValue(f Field) int64 {
	switch f {
	case FieldReceiver:
		return int64(b.Receiver.ID)
	case FieldAmount:
		return b.Amount
	default:
		return int64(b.Sender.ID)
	}
}

type sortable interface {
	sortValue(Field) int64
}

func sortRows[T sortable](rows []T, terms []OrderTerm) {
	slices.SortStableFunc(rows, func(a, b T) int {
		for _, t := range terms {
			c := cmp.Compare(a.sortValue(t.Field), b.sortValue(t.Field))
			if t.Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
}

// SortSenderBalances sorts rows in place by terms. Backends that cannot
// sort natively use it to honour UserTokenQuery.Terms.
func SortSenderBalances(rows []SenderBalance, terms []OrderTerm) {
	sortRows(rows, terms)
}

// SortTokenSenderBalances sorts rows in place by terms.
func SortTokenSenderBalances(rows []TokenSenderBalance, terms []OrderTerm) {
	sortRows(rows, terms)
}

// SortReceiverSenderBalances sorts rows in place by terms.
func SortReceiverSenderBalances(rows []ReceiverSenderBalance, terms []OrderTerm) {
	sortRows(rows, terms)
}

// TokenGroup is a token with the per-sender balances it has for one receiver.
type TokenGroup struct {
	Token   Token           `json:"token"`
	Senders []SenderBalance `json:"senders"`
}

// ReceiverGroup is a receiver with the per-sender balances of one token.
type ReceiverGroup struct {
	Receiver User            `json:"receiver"`
	Senders  []SenderBalance `json:"senders"`
}

// GroupByToken nests flat ListTokensByUser rows under their token.
// Groups appear in order of first occurrence; row order is kept within groups.
func GroupByToken(rows []TokenSenderBalance) []TokenGroup {
	groups := []TokenGroup{}
	index := make(map[TokenID]int)
	for _, r := range rows {
		i, ok := index[r.Token.ID]
		if !ok {
			i = len(groups)
			index[r.Token.ID] = i
			groups = append(groups, TokenGroup{Token: r.Token})
		}
		groups[i].Senders = append(groups[i].Senders, SenderBalance{Sender: r.Sender, Amount: r.Amount})
	}
	return groups
}

// GroupByReceiver nests flat ListUsersByToken rows under their receiver.
func GroupByReceiver(rows []ReceiverSenderBalance) []ReceiverGroup {
	groups := []ReceiverGroup{}
	index := make(map[UserID]int)
	for _, r := range rows {
		i, ok := index[r.Receiver.ID]
		if !ok {
			i = len(groups)
			index[r.Receiver.ID] = i
			groups = append(groups, ReceiverGroup{Receiver: r.Receiver})
		}
		groups[i].Senders = append(groups[i].Senders, SenderBalance{Sender: r.Sender, Amount: r.Amount})
	}
	return groups
}
