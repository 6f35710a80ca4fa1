package querysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pointsx/internal/ledger"
)

func TestCompile_UserTokenDefaultOrder(t *testing.T) {
	sql, params, err := Compile(ledger.UserTokenQuery{Receiver: 2, Token: 1})
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT s.id, s.name, SUM(h.amount) FROM transaction_history AS h"+
			" JOIN users AS s ON s.id = h.sender_id"+
			" WHERE h.receiver_id = ? AND h.token_id = ?"+
			" GROUP BY h.sender_id"+
			" ORDER BY h.sender_id DESC",
		sql)
	assert.Equal(t, []any{int64(2), int64(1)}, params)
}

func TestCompile_UserTokenByAmountBreaksTiesOnSender(t *testing.T) {
	sql, _, err := Compile(ledger.UserTokenQuery{
		Receiver: 2,
		Token:    1,
		Order:    ledger.OrderDesc,
		OrderBy:  ledger.UserTokenOrderAmount,
	})
	require.NoError(t, err)
	assert.Contains(t, sql, "ORDER BY SUM(h.amount) DESC, h.sender_id ASC")
}

func TestCompile_TokensByUser(t *testing.T) {
	tests := []struct {
		name  string
		by    ledger.TokensOrderBy
		order ledger.Order
		want  string
	}{
		{"default", ledger.TokensOrderDefault, ledger.OrderDesc, "ORDER BY h.token_id DESC, h.sender_id ASC"},
		{"token asc", ledger.TokensOrderToken, ledger.OrderAsc, "ORDER BY h.token_id ASC, h.sender_id ASC"},
		{"sender", ledger.TokensOrderSender, ledger.OrderDesc, "ORDER BY h.sender_id DESC, h.token_id ASC"},
		{"amount", ledger.TokensOrderAmount, ledger.OrderAsc, "ORDER BY SUM(h.amount) ASC, h.token_id ASC, h.sender_id ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, params, err := Compile(ledger.TokensByUserQuery{Receiver: 7, Order: tt.order, OrderBy: tt.by})
			require.NoError(t, err)
			assert.Contains(t, sql, "WHERE h.receiver_id = ?")
			assert.Contains(t, sql, "GROUP BY h.token_id, h.sender_id")
			assert.Contains(t, sql, tt.want)
			assert.Equal(t, []any{int64(7)}, params)
		})
	}
}

func TestCompile_UsersByToken(t *testing.T) {
	tests := []struct {
		name string
		by   ledger.UsersOrderBy
		want string
	}{
		{"default", ledger.UsersOrderDefault, "ORDER BY h.receiver_id DESC, h.sender_id ASC"},
		{"sender", ledger.UsersOrderSender, "ORDER BY h.sender_id DESC, h.receiver_id ASC"},
		{"amount", ledger.UsersOrderAmount, "ORDER BY SUM(h.amount) DESC, h.receiver_id ASC, h.sender_id ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, params, err := Compile(ledger.UsersByTokenQuery{Token: 3, OrderBy: tt.by})
			require.NoError(t, err)
			assert.Contains(t, sql, "JOIN users AS r ON r.id = h.receiver_id")
			assert.Contains(t, sql, "WHERE h.token_id = ?")
			assert.Contains(t, sql, tt.want)
			assert.Equal(t, []any{int64(3)}, params)
		})
	}
}

func TestCompile_History(t *testing.T) {
	sender := ledger.UserID(1)
	token := ledger.TokenID(4)

	sql, params, err := Compile(ledger.HistoryFilter{Sender: &sender, Token: &token, Limit: 10})
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT h.seq, h.sender_id, h.receiver_id, h.token_id, h.amount, h.ref FROM transaction_history AS h"+
			" WHERE h.sender_id = ? AND h.token_id = ?"+
			" ORDER BY h.seq ASC LIMIT ?",
		sql)
	assert.Equal(t, []any{int64(1), int64(4), 10}, params)
}

func TestCompile_HistoryUnfiltered(t *testing.T) {
	sql, params, err := Compile(ledger.HistoryFilter{})
	require.NoError(t, err)
	assert.NotContains(t, sql, "WHERE")
	assert.NotContains(t, sql, "LIMIT")
	assert.Empty(t, params)
}

func TestCompile_ValuesNeverInterpolated(t *testing.T) {
	sql, _, err := Compile(ledger.UserTokenQuery{Receiver: 987654, Token: 123456})
	require.NoError(t, err)
	assert.NotContains(t, sql, "987654")
	assert.NotContains(t, sql, "123456")
}

func TestCompile_UnsupportedType(t *testing.T) {
	_, _, err := Compile("SELECT 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported query type")

	_, _, err = Compile(nil)
	require.Error(t, err)
}

func TestOrderBy_RejectsEmptyAndUnknown(t *testing.T) {
	_, err := OrderBy(nil)
	require.Error(t, err)

	_, err = OrderBy([]ledger.OrderTerm{{Field: ledger.Field(99)}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported field")
}
