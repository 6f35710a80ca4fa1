package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrder(t *testing.T) {
	tests := []struct {
		in      string
		want    Order
		wantErr bool
	}{
		{"", OrderDesc, false},
		{"desc", OrderDesc, false},
		{"ASC", OrderAsc, false},
		{"sideways", OrderDesc, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOrder(tt.in)
			if tt.wantErr {
				assert.True(t, IsInvalidInput(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseOrderBy(t *testing.T) {
	ut, err := ParseUserTokenOrderBy("amount")
	require.NoError(t, err)
	assert.Equal(t, UserTokenOrderAmount, ut)
	_, err = ParseUserTokenOrderBy("token")
	assert.True(t, IsInvalidInput(err), "token is not a key of the user-token listing")

	tb, err := ParseTokensOrderBy("Sender")
	require.NoError(t, err)
	assert.Equal(t, TokensOrderSender, tb)
	_, err = ParseTokensOrderBy("receiver")
	assert.True(t, IsInvalidInput(err))

	ub, err := ParseUsersOrderBy("receiver")
	require.NoError(t, err)
	assert.Equal(t, UsersOrderReceiver, ub)
	_, err = ParseUsersOrderBy("token")
	assert.True(t, IsInvalidInput(err))
}

func TestQueryTerms(t *testing.T) {
	tests := []struct {
		name string
		got  []OrderTerm
		want []OrderTerm
	}{
		{
			name: "user token default",
			got:  UserTokenQuery{}.Terms(),
			want: []OrderTerm{{Field: FieldSender, Desc: true}},
		},
		{
			name: "user token amount asc",
			got:  UserTokenQuery{Order: OrderAsc, OrderBy: UserTokenOrderAmount}.Terms(),
			want: []OrderTerm{{Field: FieldAmount}, {Field: FieldSender}},
		},
		{
			name: "tokens default",
			got:  TokensByUserQuery{}.Terms(),
			want: []OrderTerm{{Field: FieldToken, Desc: true}, {Field: FieldSender}},
		},
		{
			name: "tokens by sender",
			got:  TokensByUserQuery{OrderBy: TokensOrderSender}.Terms(),
			want: []OrderTerm{{Field: FieldSender, Desc: true}, {Field: FieldToken}},
		},
		{
			name: "users default",
			got:  UsersByTokenQuery{}.Terms(),
			want: []OrderTerm{{Field: FieldReceiver, Desc: true}, {Field: FieldSender}},
		},
		{
			name: "users by amount",
			got:  UsersByTokenQuery{OrderBy: UsersOrderAmount}.Terms(),
			want: []OrderTerm{{Field: FieldAmount, Desc: true}, {Field: FieldReceiver}, {Field: FieldSender}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestFieldString(t *testing.T) {
	assert.Equal(t, "receiver", FieldReceiver.String())
	assert.Equal(t, "unknown", Field(0).String())
	assert.Equal(t, "asc", OrderAsc.String())
	assert.Equal(t, "desc", Order(0).String())
}
