// Package querysql compiles ledger listing requests to parameterized SQL
// for the SQLite store.
//
// Every compiled statement carries an ORDER BY that covers all grouping
// columns, so results are fully deterministic. Values are always bound as
// ? parameters, never interpolated.
package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/pointsx/internal/ledger"
)

// Equals is a "column = ?" predicate.
type Equals struct {
	Column string
	Value  any
}

// Select is the intermediate form of a listing before it becomes SQL.
type Select struct {
	Columns []string
	From    string
	Joins   []string
	Where   []Equals
	GroupBy []string
	OrderBy string
	Limit   int
}

// SQL renders the statement and its parameters.
func (s Select) SQL() (string, []any) {
	var b strings.Builder
	var params []any

	b.WriteString("SELECT ")
	b.WriteString(strings.Join(s.Columns, ", "))
	b.WriteString(" FROM ")
	b.WriteString(s.From)
	for _, j := range s.Joins {
		b.WriteString(" JOIN ")
		b.WriteString(j)
	}
	if len(s.Where) > 0 {
		parts := make([]string, len(s.Where))
		for i, eq := range s.Where {
			parts[i] = eq.Column + " = ?"
			params = append(params, eq.Value)
		}
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(parts, " AND "))
	}
	if len(s.GroupBy) > 0 {
		b.WriteString(" GROUP BY ")
		b.WriteString(strings.Join(s.GroupBy, ", "))
	}
	b.WriteString(" ORDER BY ")
	b.WriteString(s.OrderBy)
	if s.Limit > 0 {
		b.WriteString(" LIMIT ?")
		params = append(params, s.Limit)
	}
	return b.String(), params
}

// Balance columns. Balances are summed straight from the history table so
// that every listing agrees with CurrentTotal.
const (
	colSender   = "h.sender_id"
	colReceiver = "h.receiver_id"
	colToken    = "h.token_id"
	colAmount   = "SUM(h.amount)"
)

// orderColumns maps sortable fields to SQL expressions.
var orderColumns = map[ledger.Field]string{
	ledger.FieldSender:   colSender,
	ledger.FieldReceiver: colReceiver,
	ledger.FieldToken:    colToken,
	ledger.FieldAmount:   colAmount,
}

// Compile converts a listing request to SQL.
// Supported: ledger.UserTokenQuery, ledger.TokensByUserQuery,
// ledger.UsersByTokenQuery, ledger.HistoryFilter.
func Compile(q any) (string, []any, error) {
	var sel Select
	var err error

	switch q := q.(type) {
	case ledger.UserTokenQuery:
		sel, err = userToken(q)
	case ledger.TokensByUserQuery:
		sel, err = tokensByUser(q)
	case ledger.UsersByTokenQuery:
		sel, err = usersByToken(q)
	case ledger.HistoryFilter:
		sel = history(q)
	case nil:
		return "", nil, fmt.Errorf("cannot compile nil query")
	default:
		return "", nil, fmt.Errorf("unsupported query type: %T", q)
	}
	if err != nil {
		return "", nil, err
	}

	sql, params := sel.SQL()
	return sql, params, nil
}

// OrderBy renders terms as an ORDER BY expression list.
func OrderBy(terms []ledger.OrderTerm) (string, error) {
	if len(terms) == 0 {
		return "", fmt.Errorf("order by: no terms")
	}
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		col, ok := orderColumns[t.Field]
		if !ok {
			return "", fmt.Errorf("order by: unsupported field %s", t.Field)
		}
		dir := "ASC"
		if t.Desc {
			dir = "DESC"
		}
		parts = append(parts, col+" "+dir)
	}
	return strings.Join(parts, ", "), nil
}

func userToken(q ledger.UserTokenQuery) (Select, error) {
	order, err := OrderBy(q.Terms())
	if err != nil {
		return Select{}, err
	}
	return Select{
		Columns: []string{"s.id", "s.name", colAmount},
		From:    "transaction_history AS h",
		Joins:   []string{"users AS s ON s.id = h.sender_id"},
		Where: []Equals{
			{Column: colReceiver, Value: int64(q.Receiver)},
			{Column: colToken, Value: int64(q.Token)},
		},
		GroupBy: []string{colSender},
		OrderBy: order,
	}, nil
}

func tokensByUser(q ledger.TokensByUserQuery) (Select, error) {
	order, err := OrderBy(q.Terms())
	if err != nil {
		return Select{}, err
	}
	return Select{
		Columns: []string{"t.id", "t.name", "s.id", "s.name", colAmount},
		From:    "transaction_history AS h",
		Joins: []string{
			"tokens AS t ON t.id = h.token_id",
			"users AS s ON s.id = h.sender_id",
		},
		Where: []Equals{
			{Column: colReceiver, Value: int64(q.Receiver)},
		},
		GroupBy: []string{colToken, colSender},
		OrderBy: order,
	}, nil
}

func usersByToken(q ledger.UsersByTokenQuery) (Select, error) {
	order, err := OrderBy(q.Terms())
	if err != nil {
		return Select{}, err
	}
	return Select{
		Columns: []string{"r.id", "r.name", "s.id", "s.name", colAmount},
		From:    "transaction_history AS h",
		Joins: []string{
			"users AS r ON r.id = h.receiver_id",
			"users AS s ON s.id = h.sender_id",
		},
		Where: []Equals{
			{Column: colToken, Value: int64(q.Token)},
		},
		GroupBy: []string{colReceiver, colSender},
		OrderBy: order,
	}, nil
}

func history(f ledger.HistoryFilter) Select {
	sel := Select{
		Columns: []string{"h.seq", colSender, colReceiver, colToken, "h.amount", "h.ref"},
		From:    "transaction_history AS h",
		OrderBy: "h.seq ASC",
		Limit:   f.Limit,
	}
	if f.Sender != nil {
		sel.Where = append(sel.Where, Equals{Column: colSender, Value: int64(*f.Sender)})
	}
	if f.Receiver != nil {
		sel.Where = append(sel.Where, Equals{Column: colReceiver, Value: int64(*f.Receiver)})
	}
	if f.Token != nil {
		sel.Where = append(sel.Where, Equals{Column: colToken, Value: int64(*f.Token)})
	}
	return sel
}
