package testutil

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pointsx/internal/ledger"
)

// PersistenceFactory returns a fresh, empty backend for one subtest.
type PersistenceFactory func(t *testing.T) ledger.Persistence

// Fixture ids created by SeedLedger, in creation order.
const (
	Alice ledger.UserID = 1
	Bob   ledger.UserID = 2
	Carol ledger.UserID = 3
	Dave  ledger.UserID = 4

	Gold   ledger.TokenID = 1
	Silver ledger.TokenID = 2
)

// SeedLedger creates users Alice, Bob, Carol, Dave and tokens Gold, Silver,
// then appends this history (seq 1..7):
//
//	Alice -> Bob   Gold   100
//	Alice -> Bob   Gold   -30
//	Carol -> Bob   Gold    70
//	Dave  -> Bob   Gold    10
//	Alice -> Bob   Silver   5
//	Carol -> Dave  Gold    40
//	Bob   -> Dave  Silver   1
func SeedLedger(t *testing.T, p ledger.Persistence) {
	t.Helper()
	ctx := context.Background()

	for _, name := range []string{"Alice", "Bob", "Carol", "Dave"} {
		_, err := p.CreateUser(ctx, name)
		require.NoError(t, err)
	}
	for _, name := range []string{"Gold", "Silver"} {
		_, err := p.CreateToken(ctx, name)
		require.NoError(t, err)
	}

	history := []ledger.TransactionRecord{
		{Sender: Alice, Receiver: Bob, Token: Gold, Amount: 100},
		{Sender: Alice, Receiver: Bob, Token: Gold, Amount: -30},
		{Sender: Carol, Receiver: Bob, Token: Gold, Amount: 70},
		{Sender: Dave, Receiver: Bob, Token: Gold, Amount: 10},
		{Sender: Alice, Receiver: Bob, Token: Silver, Amount: 5},
		{Sender: Carol, Receiver: Dave, Token: Gold, Amount: 40},
		{Sender: Bob, Receiver: Dave, Token: Silver, Amount: 1},
	}
	for i, rec := range history {
		rec.Ref = fmt.Sprintf("seed-%d", i+1)
		_, err := p.AppendTransaction(ctx, rec)
		require.NoError(t, err)
	}
}

// SenderRows renders rows as "Name:amount" for compact assertions.
func SenderRows(rows []ledger.SenderBalance) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = fmt.Sprintf("%s:%d", r.Sender.Name, r.Amount)
	}
	return out
}

// TokenRows renders rows as "Token/Sender:amount".
func TokenRows(rows []ledger.TokenSenderBalance) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = fmt.Sprintf("%s/%s:%d", r.Token.Name, r.Sender.Name, r.Amount)
	}
	return out
}

// ReceiverRows renders rows as "Receiver<-Sender:amount".
func ReceiverRows(rows []ledger.ReceiverSenderBalance) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = fmt.Sprintf("%s<-%s:%d", r.Receiver.Name, r.Sender.Name, r.Amount)
	}
	return out
}

// RunPersistenceSuite checks the ledger.Persistence contract against a
// backend. Each subtest gets a fresh backend from newStore.
func RunPersistenceSuite(t *testing.T, newStore PersistenceFactory) {
	ctx := context.Background()

	t.Run("CreateAndQueryUsers", func(t *testing.T) {
		p := newStore(t)

		alice, err := p.CreateUser(ctx, "Alice")
		require.NoError(t, err)
		bob, err := p.CreateUser(ctx, "Bob")
		require.NoError(t, err)
		assert.Equal(t, ledger.User{ID: 1, Name: "Alice"}, alice)
		assert.Equal(t, ledger.User{ID: 2, Name: "Bob"}, bob)

		all, err := p.QueryUsers(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, []ledger.User{alice, bob}, all)

		name := "Bob"
		found, err := p.QueryUsers(ctx, &name)
		require.NoError(t, err)
		assert.Equal(t, []ledger.User{bob}, found)
	})

	t.Run("QueryUsersNoMatchIsEmpty", func(t *testing.T) {
		p := newStore(t)
		name := "nonexistent"

		users, err := p.QueryUsers(ctx, &name)
		require.NoError(t, err)
		assert.NotNil(t, users)
		assert.Empty(t, users)
	})

	t.Run("QueryUsersDuplicateNamesByID", func(t *testing.T) {
		p := newStore(t)
		first, err := p.CreateUser(ctx, "Alice")
		require.NoError(t, err)
		_, err = p.CreateUser(ctx, "Bob")
		require.NoError(t, err)
		second, err := p.CreateUser(ctx, "Alice")
		require.NoError(t, err)

		name := "Alice"
		users, err := p.QueryUsers(ctx, &name)
		require.NoError(t, err)
		assert.Equal(t, []ledger.User{first, second}, users)
	})

	t.Run("CreateAndQueryTokens", func(t *testing.T) {
		p := newStore(t)

		gold, err := p.CreateToken(ctx, "Gold")
		require.NoError(t, err)
		assert.Equal(t, ledger.Token{ID: 1, Name: "Gold"}, gold)

		name := "Gold"
		tokens, err := p.QueryTokens(ctx, &name)
		require.NoError(t, err)
		assert.Equal(t, []ledger.Token{gold}, tokens)

		missing := "Copper"
		tokens, err = p.QueryTokens(ctx, &missing)
		require.NoError(t, err)
		assert.Empty(t, tokens)
	})

	t.Run("CurrentTotalNoHistory", func(t *testing.T) {
		p := newStore(t)
		SeedLedger(t, p)

		// Bob never sent Gold to Alice.
		total, ok, err := p.CurrentTotal(ctx, Bob, Alice, Gold)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, int64(0), total)
	})

	t.Run("CurrentTotalSums", func(t *testing.T) {
		p := newStore(t)
		SeedLedger(t, p)

		total, ok, err := p.CurrentTotal(ctx, Alice, Bob, Gold)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, int64(70), total)
	})

	t.Run("CurrentTotalZeroIsNotMissing", func(t *testing.T) {
		p := newStore(t)
		SeedLedger(t, p)

		_, err := p.AppendTransaction(ctx, ledger.TransactionRecord{Sender: Dave, Receiver: Alice, Token: Silver, Amount: 25})
		require.NoError(t, err)
		_, err = p.AppendTransaction(ctx, ledger.TransactionRecord{Sender: Dave, Receiver: Alice, Token: Silver, Amount: -25})
		require.NoError(t, err)

		total, ok, err := p.CurrentTotal(ctx, Dave, Alice, Silver)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, int64(0), total)
	})

	t.Run("SumOverflowIsStorageFailure", func(t *testing.T) {
		p := newStore(t)
		SeedLedger(t, p)

		// Appends are not range-checked; only sums are.
		_, err := p.AppendTransaction(ctx, ledger.TransactionRecord{Sender: Dave, Receiver: Alice, Token: Gold, Amount: math.MaxInt64})
		require.NoError(t, err)
		_, err = p.AppendTransaction(ctx, ledger.TransactionRecord{Sender: Dave, Receiver: Alice, Token: Gold, Amount: 1})
		require.NoError(t, err)

		_, _, err = p.CurrentTotal(ctx, Dave, Alice, Gold)
		assert.True(t, ledger.IsStorageFailure(err), "CurrentTotal: %v", err)

		_, err = p.ListUserToken(ctx, ledger.UserTokenQuery{Receiver: Alice, Token: Gold})
		assert.True(t, ledger.IsStorageFailure(err), "ListUserToken: %v", err)

		_, err = p.ListTokensByUser(ctx, ledger.TokensByUserQuery{Receiver: Alice})
		assert.True(t, ledger.IsStorageFailure(err), "ListTokensByUser: %v", err)

		_, err = p.ListUsersByToken(ctx, ledger.UsersByTokenQuery{Token: Gold})
		assert.True(t, ledger.IsStorageFailure(err), "ListUsersByToken: %v", err)

		rows, err := p.ListUserToken(ctx, ledger.UserTokenQuery{Receiver: Bob, Token: Gold})
		require.NoError(t, err)
		assert.Len(t, rows, 3)
	})

	t.Run("AppendAssignsIncreasingSeq", func(t *testing.T) {
		p := newStore(t)
		SeedLedger(t, p)

		rec, err := p.AppendTransaction(ctx, ledger.TransactionRecord{
			Sender: Bob, Receiver: Alice, Token: Gold, Amount: 3, Ref: "r-8",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(8), rec.Seq)
		assert.Equal(t, int64(3), rec.Amount)
		assert.Equal(t, "r-8", rec.Ref)
	})

	t.Run("AppendRejectsDanglingIDs", func(t *testing.T) {
		p := newStore(t)
		SeedLedger(t, p)

		bad := []ledger.TransactionRecord{
			{Sender: 99, Receiver: Bob, Token: Gold, Amount: 1},
			{Sender: Alice, Receiver: 99, Token: Gold, Amount: 1},
			{Sender: Alice, Receiver: Bob, Token: 99, Amount: 1},
		}
		for _, rec := range bad {
			_, err := p.AppendTransaction(ctx, rec)
			require.Error(t, err)
			assert.True(t, ledger.IsStorageFailure(err), "want storage failure, got %v", err)
		}

		// Nothing was written.
		all, err := p.ListTransactions(ctx, ledger.HistoryFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 7)
	})

	t.Run("ListTransactions", func(t *testing.T) {
		p := newStore(t)
		SeedLedger(t, p)

		all, err := p.ListTransactions(ctx, ledger.HistoryFilter{})
		require.NoError(t, err)
		require.Len(t, all, 7)
		for i, rec := range all {
			assert.Equal(t, int64(i+1), rec.Seq)
		}
		assert.Equal(t, ledger.TransactionRecord{
			Seq: 2, Sender: Alice, Receiver: Bob, Token: Gold, Amount: -30, Ref: "seed-2",
		}, all[1])

		sender := Alice
		fromAlice, err := p.ListTransactions(ctx, ledger.HistoryFilter{Sender: &sender})
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 2, 5}, seqs(fromAlice))

		limited, err := p.ListTransactions(ctx, ledger.HistoryFilter{Sender: &sender, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 2}, seqs(limited))

		receiver, token := Dave, Gold
		toDaveGold, err := p.ListTransactions(ctx, ledger.HistoryFilter{Receiver: &receiver, Token: &token})
		require.NoError(t, err)
		assert.Equal(t, []int64{6}, seqs(toDaveGold))
	})

	t.Run("ListUserToken", func(t *testing.T) {
		p := newStore(t)
		SeedLedger(t, p)

		tests := []struct {
			name  string
			order ledger.Order
			by    ledger.UserTokenOrderBy
			want  []string
		}{
			{"default", ledger.OrderDesc, ledger.UserTokenOrderDefault, []string{"Dave:10", "Carol:70", "Alice:70"}},
			{"sender asc", ledger.OrderAsc, ledger.UserTokenOrderSender, []string{"Alice:70", "Carol:70", "Dave:10"}},
			{"amount desc ties on sender", ledger.OrderDesc, ledger.UserTokenOrderAmount, []string{"Alice:70", "Carol:70", "Dave:10"}},
			{"amount asc", ledger.OrderAsc, ledger.UserTokenOrderAmount, []string{"Dave:10", "Alice:70", "Carol:70"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rows, err := p.ListUserToken(ctx, ledger.UserTokenQuery{
					Receiver: Bob, Token: Gold, Order: tt.order, OrderBy: tt.by,
				})
				require.NoError(t, err)
				assert.Equal(t, tt.want, SenderRows(rows))
			})
		}
	})

	t.Run("ListUserTokenEmpty", func(t *testing.T) {
		p := newStore(t)
		SeedLedger(t, p)

		rows, err := p.ListUserToken(ctx, ledger.UserTokenQuery{Receiver: Alice, Token: Gold})
		require.NoError(t, err)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
	})

	t.Run("ListTokensByUser", func(t *testing.T) {
		p := newStore(t)
		SeedLedger(t, p)

		tests := []struct {
			name  string
			order ledger.Order
			by    ledger.TokensOrderBy
			want  []string
		}{
			{"default", ledger.OrderDesc, ledger.TokensOrderDefault,
				[]string{"Silver/Alice:5", "Gold/Alice:70", "Gold/Carol:70", "Gold/Dave:10"}},
			{"sender desc", ledger.OrderDesc, ledger.TokensOrderSender,
				[]string{"Gold/Dave:10", "Gold/Carol:70", "Gold/Alice:70", "Silver/Alice:5"}},
			{"amount asc", ledger.OrderAsc, ledger.TokensOrderAmount,
				[]string{"Silver/Alice:5", "Gold/Dave:10", "Gold/Alice:70", "Gold/Carol:70"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rows, err := p.ListTokensByUser(ctx, ledger.TokensByUserQuery{
					Receiver: Bob, Order: tt.order, OrderBy: tt.by,
				})
				require.NoError(t, err)
				assert.Equal(t, tt.want, TokenRows(rows))
			})
		}
	})

	t.Run("ListUsersByToken", func(t *testing.T) {
		p := newStore(t)
		SeedLedger(t, p)

		tests := []struct {
			name  string
			order ledger.Order
			by    ledger.UsersOrderBy
			want  []string
		}{
			{"default", ledger.OrderDesc, ledger.UsersOrderDefault,
				[]string{"Dave<-Carol:40", "Bob<-Alice:70", "Bob<-Carol:70", "Bob<-Dave:10"}},
			{"amount desc", ledger.OrderDesc, ledger.UsersOrderAmount,
				[]string{"Bob<-Alice:70", "Bob<-Carol:70", "Dave<-Carol:40", "Bob<-Dave:10"}},
			{"sender asc", ledger.OrderAsc, ledger.UsersOrderSender,
				[]string{"Bob<-Alice:70", "Bob<-Carol:70", "Dave<-Carol:40", "Bob<-Dave:10"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rows, err := p.ListUsersByToken(ctx, ledger.UsersByTokenQuery{
					Token: Gold, Order: tt.order, OrderBy: tt.by,
				})
				require.NoError(t, err)
				assert.Equal(t, tt.want, ReceiverRows(rows))
			})
		}
	})
}

func seqs(recs []ledger.TransactionRecord) []int64 {
	out := make([]int64, len(recs))
	for i, r := range recs {
		out[i] = r.Seq
	}
	return out
}
