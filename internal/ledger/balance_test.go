package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortSenderBalances_TieBreaksOnSender(t *testing.T) {
	rows := []SenderBalance{
		{Sender: User{ID: 3, Name: "Carol"}, Amount: 70},
		{Sender: User{ID: 4, Name: "Dave"}, Amount: 10},
		{Sender: User{ID: 1, Name: "Alice"}, Amount: 70},
	}

	SortSenderBalances(rows, UserTokenQuery{OrderBy: UserTokenOrderAmount}.Terms())

	ids := []UserID{rows[0].Sender.ID, rows[1].Sender.ID, rows[2].Sender.ID}
	assert.Equal(t, []UserID{1, 3, 4}, ids)
}

func TestSortReceiverSenderBalances(t *testing.T) {
	rows := []ReceiverSenderBalance{
		{Receiver: User{ID: 2}, Sender: User{ID: 4}, Amount: 10},
		{Receiver: User{ID: 4}, Sender: User{ID: 3}, Amount: 40},
		{Receiver: User{ID: 2}, Sender: User{ID: 1}, Amount: 70},
	}

	SortReceiverSenderBalances(rows, UsersByTokenQuery{Order: OrderAsc}.Terms())

	assert.Equal(t, UserID(1), rows[0].Sender.ID)
	assert.Equal(t, UserID(4), rows[1].Sender.ID)
	assert.Equal(t, UserID(4), rows[2].Receiver.ID)
}

func TestGroupByToken(t *testing.T) {
	rows := []TokenSenderBalance{
		{Token: Token{ID: 2, Name: "Silver"}, Sender: User{ID: 1, Name: "Alice"}, Amount: 5},
		{Token: Token{ID: 1, Name: "Gold"}, Sender: User{ID: 1, Name: "Alice"}, Amount: 70},
		{Token: Token{ID: 1, Name: "Gold"}, Sender: User{ID: 3, Name: "Carol"}, Amount: 70},
	}

	groups := GroupByToken(rows)
	require.Len(t, groups, 2)
	assert.Equal(t, "Silver", groups[0].Token.Name)
	assert.Len(t, groups[0].Senders, 1)
	assert.Equal(t, "Gold", groups[1].Token.Name)
	require.Len(t, groups[1].Senders, 2)
	assert.Equal(t, "Carol", groups[1].Senders[1].Sender.Name)
}

func TestGroupByReceiver_Empty(t *testing.T) {
	groups := GroupByReceiver(nil)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}
