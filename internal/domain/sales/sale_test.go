package sales

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSale(t *testing.T, method PaymentMethod, vatIncluded bool) *Sale {
	t.Helper()
	var customerID *uuid.UUID
	if method == PaymentMethodCredit {
		id := uuid.New()
		customerID = &id
	}
	sale, err := NewSale(uuid.New(), "SL-2026-00001", customerID, method, vatIncluded)
	require.NoError(t, err)
	return sale
}

func TestNewSale(t *testing.T) {
	t.Run("creates completed sale", func(t *testing.T) {
		sale := newTestSale(t, PaymentMethodCash, true)
		assert.Equal(t, SaleStatusCompleted, sale.Status)
		assert.True(t, sale.GrandTotal.IsZero())
		assert.Empty(t, sale.Items)
	})

	t.Run("rejects empty invoice number", func(t *testing.T) {
		_, err := NewSale(uuid.New(), "", nil, PaymentMethodCash, true)
		require.Error(t, err)
	})

	t.Run("rejects invalid payment method", func(t *testing.T) {
		_, err := NewSale(uuid.New(), "SL-2026-00002", nil, PaymentMethod("bitcoin"), true)
		require.Error(t, err)
	})

	t.Run("credit sale requires a customer", func(t *testing.T) {
		_, err := NewSale(uuid.New(), "SL-2026-00003", nil, PaymentMethodCredit, true)
		require.Error(t, err)
	})
}

func TestSaleAddItem(t *testing.T) {
	t.Run("computes vat inclusive totals", func(t *testing.T) {
		sale := newTestSale(t, PaymentMethodCash, true)

		// qty 2 x 100, VAT 20%, no discount
		err := sale.AddItem(uuid.New(), "Widget", decimal.NewFromInt(2), decimal.NewFromInt(100), decimal.Zero, decimal.NewFromInt(20))
		require.NoError(t, err)

		assert.True(t, sale.Subtotal.Equal(decimal.NewFromInt(200)), "subtotal = %s", sale.Subtotal)
		assert.True(t, sale.VATTotal.Equal(decimal.NewFromInt(40)), "vat = %s", sale.VATTotal)
		assert.True(t, sale.GrandTotal.Equal(decimal.NewFromInt(240)), "grand = %s", sale.GrandTotal)
	})

	t.Run("applies line discount before vat", func(t *testing.T) {
		sale := newTestSale(t, PaymentMethodCash, true)

		// qty 1 x 100, 10% discount, VAT 20%: net 90, vat 18, line 108
		err := sale.AddItem(uuid.New(), "Widget", decimal.NewFromInt(1), decimal.NewFromInt(100), decimal.NewFromInt(10), decimal.NewFromInt(20))
		require.NoError(t, err)

		item := sale.Items[0]
		assert.True(t, item.VATAmount.Equal(decimal.NewFromInt(18)), "vat = %s", item.VATAmount)
		assert.True(t, item.LineTotal.Equal(decimal.NewFromInt(108)), "line = %s", item.LineTotal)
	})

	t.Run("vat excluded keeps vat out of totals", func(t *testing.T) {
		sale := newTestSale(t, PaymentMethodCash, false)

		err := sale.AddItem(uuid.New(), "Widget", decimal.NewFromInt(2), decimal.NewFromInt(100), decimal.Zero, decimal.NewFromInt(20))
		require.NoError(t, err)

		assert.True(t, sale.Items[0].LineTotal.Equal(decimal.NewFromInt(200)))
		assert.True(t, sale.GrandTotal.Equal(decimal.NewFromInt(200)), "grand = %s", sale.GrandTotal)
		// VAT amount is still recorded on the line
		assert.True(t, sale.Items[0].VATAmount.Equal(decimal.NewFromInt(40)))
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		sale := newTestSale(t, PaymentMethodCash, true)
		err := sale.AddItem(uuid.New(), "Widget", decimal.Zero, decimal.NewFromInt(100), decimal.Zero, decimal.Zero)
		require.Error(t, err)
	})

	t.Run("rejects discount rate above 100", func(t *testing.T) {
		sale := newTestSale(t, PaymentMethodCash, true)
		err := sale.AddItem(uuid.New(), "Widget", decimal.NewFromInt(1), decimal.NewFromInt(100), decimal.NewFromInt(101), decimal.Zero)
		require.Error(t, err)
	})
}

func TestSaleGlobalDiscount(t *testing.T) {
	sale := newTestSale(t, PaymentMethodCash, true)
	require.NoError(t, sale.AddItem(uuid.New(), "Widget", decimal.NewFromInt(2), decimal.NewFromInt(100), decimal.Zero, decimal.NewFromInt(20)))

	t.Run("reduces grand total", func(t *testing.T) {
		require.NoError(t, sale.SetGlobalDiscount(decimal.NewFromInt(40)))
		assert.True(t, sale.GrandTotal.Equal(decimal.NewFromInt(200)), "grand = %s", sale.GrandTotal)
	})

	t.Run("rejects discount above total", func(t *testing.T) {
		err := sale.SetGlobalDiscount(decimal.NewFromInt(1000))
		require.Error(t, err)
	})
}

func TestSaleCancel(t *testing.T) {
	t.Run("cancels a completed sale", func(t *testing.T) {
		sale := newTestSale(t, PaymentMethodCash, true)
		require.NoError(t, sale.Cancel())
		assert.Equal(t, SaleStatusCancelled, sale.Status)
		assert.NotNil(t, sale.CancelledAt)
	})

	t.Run("second cancellation is rejected", func(t *testing.T) {
		sale := newTestSale(t, PaymentMethodCash, true)
		require.NoError(t, sale.Cancel())

		err := sale.Cancel()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "completed")
	})

	t.Run("cancelled sale rejects new items", func(t *testing.T) {
		sale := newTestSale(t, PaymentMethodCash, true)
		require.NoError(t, sale.Cancel())
		err := sale.AddItem(uuid.New(), "Widget", decimal.NewFromInt(1), decimal.NewFromInt(10), decimal.Zero, decimal.Zero)
		require.Error(t, err)
	})
}
