package finance

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAccount(t *testing.T) *Account {
	t.Helper()
	account, err := NewAccount(uuid.New(), "Main Cash", AccountTypeCash, "TRY")
	require.NoError(t, err)
	return account
}

func TestAccountCredit(t *testing.T) {
	account := newTestAccount(t)

	mv, err := account.Credit(decimal.NewFromInt(100), MovementSourceSale, nil, "sale payment")
	require.NoError(t, err)

	assert.True(t, account.Balance.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, MovementDirectionIn, mv.Direction)
	assert.True(t, mv.BalanceAfter.Equal(decimal.NewFromInt(100)))
}

func TestAccountDebit(t *testing.T) {
	t.Run("decreases balance", func(t *testing.T) {
		account := newTestAccount(t)
		_, err := account.Credit(decimal.NewFromInt(100), MovementSourceManual, nil, "")
		require.NoError(t, err)

		mv, err := account.Debit(decimal.NewFromInt(30), MovementSourceTransfer, nil, "")
		require.NoError(t, err)

		assert.True(t, account.Balance.Equal(decimal.NewFromInt(70)))
		assert.True(t, mv.BalanceAfter.Equal(decimal.NewFromInt(70)))
		assert.True(t, mv.SignedAmount().Equal(decimal.NewFromInt(-30)))
	})

	t.Run("rejects overdraft", func(t *testing.T) {
		account := newTestAccount(t)
		_, err := account.Debit(decimal.NewFromInt(10), MovementSourceManual, nil, "")
		require.Error(t, err)
		assert.True(t, account.Balance.IsZero())
	})
}

func TestAccountRunningBalance(t *testing.T) {
	account := newTestAccount(t)

	amounts := []int64{100, 50, 200}
	var movements []*AccountMovement
	for _, a := range amounts {
		mv, err := account.Credit(decimal.NewFromInt(a), MovementSourceManual, nil, "")
		require.NoError(t, err)
		movements = append(movements, mv)
	}
	mv, err := account.Debit(decimal.NewFromInt(120), MovementSourceManual, nil, "")
	require.NoError(t, err)
	movements = append(movements, mv)

	// balance_after = previous balance_after +/- amount, in creation order
	expected := []int64{100, 150, 350, 230}
	for i, mv := range movements {
		assert.True(t, mv.BalanceAfter.Equal(decimal.NewFromInt(expected[i])),
			"movement %d: balance_after = %s", i, mv.BalanceAfter)
	}
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(230)))
}

func TestAccountDeactivate(t *testing.T) {
	t.Run("requires zero balance", func(t *testing.T) {
		account := newTestAccount(t)
		_, err := account.Credit(decimal.NewFromInt(5), MovementSourceManual, nil, "")
		require.NoError(t, err)

		require.Error(t, account.Deactivate())
	})

	t.Run("inactive account rejects movements", func(t *testing.T) {
		account := newTestAccount(t)
		require.NoError(t, account.Deactivate())

		_, err := account.Credit(decimal.NewFromInt(5), MovementSourceManual, nil, "")
		require.Error(t, err)
	})
}

func TestNewPayment(t *testing.T) {
	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewPayment(uuid.New(), uuid.New(), nil, nil, "cash", decimal.Zero, "")
		require.Error(t, err)
	})

	t.Run("creates payment", func(t *testing.T) {
		saleID := uuid.New()
		p, err := NewPayment(uuid.New(), uuid.New(), &saleID, nil, "cash", decimal.NewFromInt(240), "")
		require.NoError(t, err)
		assert.Equal(t, saleID, *p.SaleID)
		assert.False(t, p.PaidAt.IsZero())
	})
}
