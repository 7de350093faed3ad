package sales

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saleWithOneItem(t *testing.T, qty int64) (*Sale, *SaleItem) {
	t.Helper()
	sale := newTestSale(t, PaymentMethodCash, true)
	require.NoError(t, sale.AddItem(uuid.New(), "Widget", decimal.NewFromInt(qty), decimal.NewFromInt(100), decimal.Zero, decimal.NewFromInt(20)))
	return sale, &sale.Items[0]
}

func TestReturnValidateAgainstSale(t *testing.T) {
	t.Run("allows return up to sold quantity", func(t *testing.T) {
		sale, item := saleWithOneItem(t, 3)

		ret, err := NewReturn(sale.TenantID, "RT-2026-00001", &sale.ID, nil, "damaged")
		require.NoError(t, err)
		require.NoError(t, ret.AddItem(item.ProductID, &item.ID, decimal.NewFromInt(3), item.UnitPrice))

		err = ret.ValidateAgainstSale(sale, nil)
		require.NoError(t, err)
	})

	t.Run("rejects quantity above sold quantity", func(t *testing.T) {
		sale, item := saleWithOneItem(t, 2)

		ret, err := NewReturn(sale.TenantID, "RT-2026-00002", &sale.ID, nil, "")
		require.NoError(t, err)
		require.NoError(t, ret.AddItem(item.ProductID, &item.ID, decimal.NewFromInt(3), item.UnitPrice))

		err = ret.ValidateAgainstSale(sale, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exceeds")
	})

	t.Run("caps against previously returned quantities", func(t *testing.T) {
		sale, item := saleWithOneItem(t, 2)

		ret, err := NewReturn(sale.TenantID, "RT-2026-00003", &sale.ID, nil, "")
		require.NoError(t, err)
		require.NoError(t, ret.AddItem(item.ProductID, &item.ID, decimal.NewFromInt(2), item.UnitPrice))

		previouslyReturned := map[uuid.UUID]decimal.Decimal{
			item.ID: decimal.NewFromInt(1),
		}
		err = ret.ValidateAgainstSale(sale, previouslyReturned)
		require.Error(t, err)
	})

	t.Run("second full return of a single-quantity item is rejected", func(t *testing.T) {
		sale, item := saleWithOneItem(t, 1)

		first, err := NewReturn(sale.TenantID, "RT-2026-00004", &sale.ID, nil, "")
		require.NoError(t, err)
		require.NoError(t, first.AddItem(item.ProductID, &item.ID, decimal.NewFromInt(1), item.UnitPrice))
		require.NoError(t, first.ValidateAgainstSale(sale, nil))

		second, err := NewReturn(sale.TenantID, "RT-2026-00005", &sale.ID, nil, "")
		require.NoError(t, err)
		require.NoError(t, second.AddItem(item.ProductID, &item.ID, decimal.NewFromInt(1), item.UnitPrice))

		err = second.ValidateAgainstSale(sale, map[uuid.UUID]decimal.Decimal{item.ID: decimal.NewFromInt(1)})
		require.Error(t, err)
	})

	t.Run("rejects sale item from a different sale", func(t *testing.T) {
		sale, _ := saleWithOneItem(t, 2)
		otherSale, otherItem := saleWithOneItem(t, 2)
		_ = otherSale

		ret, err := NewReturn(sale.TenantID, "RT-2026-00006", &sale.ID, nil, "")
		require.NoError(t, err)
		require.NoError(t, ret.AddItem(otherItem.ProductID, &otherItem.ID, decimal.NewFromInt(1), otherItem.UnitPrice))

		err = ret.ValidateAgainstSale(sale, nil)
		require.Error(t, err)
	})

	t.Run("rejects return against cancelled sale", func(t *testing.T) {
		sale, item := saleWithOneItem(t, 2)
		require.NoError(t, sale.Cancel())

		ret, err := NewReturn(sale.TenantID, "RT-2026-00007", &sale.ID, nil, "")
		require.NoError(t, err)
		require.NoError(t, ret.AddItem(item.ProductID, &item.ID, decimal.NewFromInt(1), item.UnitPrice))

		err = ret.ValidateAgainstSale(sale, nil)
		require.Error(t, err)
	})
}

func TestReturnTotals(t *testing.T) {
	ret, err := NewReturn(uuid.New(), "RT-2026-00008", nil, nil, "freestanding")
	require.NoError(t, err)

	require.NoError(t, ret.AddItem(uuid.New(), nil, decimal.NewFromInt(2), decimal.NewFromInt(50)))
	require.NoError(t, ret.AddItem(uuid.New(), nil, decimal.NewFromInt(1), decimal.NewFromInt(25)))

	assert.True(t, ret.Total.Equal(decimal.NewFromInt(125)), "total = %s", ret.Total)
}

func TestReturnItemValidation(t *testing.T) {
	t.Run("freestanding return cannot reference sale items", func(t *testing.T) {
		ret, err := NewReturn(uuid.New(), "RT-2026-00009", nil, nil, "")
		require.NoError(t, err)
		itemID := uuid.New()
		err = ret.AddItem(uuid.New(), &itemID, decimal.NewFromInt(1), decimal.NewFromInt(10))
		require.Error(t, err)
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		ret, err := NewReturn(uuid.New(), "RT-2026-00010", nil, nil, "")
		require.NoError(t, err)
		err = ret.AddItem(uuid.New(), nil, decimal.Zero, decimal.NewFromInt(10))
		require.Error(t, err)
	})
}
