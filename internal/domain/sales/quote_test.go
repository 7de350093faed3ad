package sales

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQuote(t *testing.T) *Quote {
	t.Helper()
	quote, err := NewQuote(uuid.New(), "QT-2026-00001", nil, true)
	require.NoError(t, err)
	require.NoError(t, quote.AddItem(uuid.New(), "Widget", decimal.NewFromInt(2), decimal.NewFromInt(100), decimal.Zero, decimal.NewFromInt(20)))
	return quote
}

func TestQuoteTotals(t *testing.T) {
	quote := newTestQuote(t)
	assert.True(t, quote.Subtotal.Equal(decimal.NewFromInt(200)))
	assert.True(t, quote.VATTotal.Equal(decimal.NewFromInt(40)))
	assert.True(t, quote.GrandTotal.Equal(decimal.NewFromInt(240)), "grand = %s", quote.GrandTotal)
}

func TestQuoteStatusTransitions(t *testing.T) {
	t.Run("draft to sent to accepted", func(t *testing.T) {
		quote := newTestQuote(t)
		require.NoError(t, quote.Send())
		require.NoError(t, quote.Accept())
		assert.Equal(t, QuoteStatusAccepted, quote.Status)
	})

	t.Run("draft cannot be accepted directly", func(t *testing.T) {
		quote := newTestQuote(t)
		require.Error(t, quote.Accept())
	})

	t.Run("items frozen after sending", func(t *testing.T) {
		quote := newTestQuote(t)
		require.NoError(t, quote.Send())
		err := quote.AddItem(uuid.New(), "Other", decimal.NewFromInt(1), decimal.NewFromInt(10), decimal.Zero, decimal.Zero)
		require.Error(t, err)
	})
}

func TestQuoteConversion(t *testing.T) {
	t.Run("converts from sent", func(t *testing.T) {
		quote := newTestQuote(t)
		require.NoError(t, quote.Send())
		require.True(t, quote.CanConvert())

		saleID := uuid.New()
		require.NoError(t, quote.MarkConverted(saleID))
		assert.Equal(t, QuoteStatusConverted, quote.Status)
		require.NotNil(t, quote.ConvertedSaleID)
		assert.Equal(t, saleID, *quote.ConvertedSaleID)
	})

	t.Run("second conversion is rejected", func(t *testing.T) {
		quote := newTestQuote(t)
		require.NoError(t, quote.Send())
		require.NoError(t, quote.MarkConverted(uuid.New()))

		err := quote.MarkConverted(uuid.New())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already")
	})

	t.Run("draft cannot be converted", func(t *testing.T) {
		quote := newTestQuote(t)
		require.Error(t, quote.MarkConverted(uuid.New()))
	})

	t.Run("expired quote cannot be converted", func(t *testing.T) {
		quote := newTestQuote(t)
		past := time.Now().Add(-24 * time.Hour)
		require.NoError(t, quote.SetValidUntil(past))
		require.NoError(t, quote.Send())

		assert.False(t, quote.CanConvert())
		err := quote.MarkConverted(uuid.New())
		require.Error(t, err)
	})
}
