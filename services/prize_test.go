package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guild-series-tracker/models"
)

func TestNormalizePrizeItem(t *testing.T) {
	t.Run("standard fields", func(t *testing.T) {
		item := NormalizePrizeItem(map[string]any{
			"amount": float64(100), "token": "SPS", "usd_value": 1.5,
		})
		require.NotNil(t, item)
		assert.Equal(t, float64(100), *item.Amount)
		assert.Equal(t, "SPS", *item.Token)
		assert.Equal(t, 1.5, *item.USDValue)
		assert.Nil(t, item.Text)
	})

	t.Run("alias fields", func(t *testing.T) {
		item := NormalizePrizeItem(map[string]any{"qty": float64(5), "type": "DEC"})
		require.NotNil(t, item)
		assert.Equal(t, float64(5), *item.Amount)
		assert.Equal(t, "DEC", *item.Token)
	})

	t.Run("text only", func(t *testing.T) {
		item := NormalizePrizeItem(map[string]any{"text": "Gold Foil Legendary"})
		require.NotNil(t, item)
		assert.Equal(t, "Gold Foil Legendary", *item.Text)
		assert.Nil(t, item.Amount)
	})

	t.Run("amount without token or text is discarded", func(t *testing.T) {
		assert.Nil(t, NormalizePrizeItem(map[string]any{"amount": float64(50)}))
	})

	t.Run("non-object is discarded", func(t *testing.T) {
		assert.Nil(t, NormalizePrizeItem("100 SPS"))
		assert.Nil(t, NormalizePrizeItem(nil))
	})
}

func TestResolvePrizesDirectShapes(t *testing.T) {
	t.Run("list of objects", func(t *testing.T) {
		items, text := ResolvePrizes(map[string]any{
			"prizes": []any{
				map[string]any{"amount": float64(10), "token": "SPS"},
				map[string]any{"text": "Alchemy Potion"},
			},
		}, nil)
		require.Len(t, items, 2)
		require.NotNil(t, text)
		assert.Equal(t, "10 SPS; Alchemy Potion", *text)
	})

	t.Run("single object", func(t *testing.T) {
		items, text := ResolvePrizes(map[string]any{
			"prize": map[string]any{"amount": float64(3), "token": "VOUCHER"},
		}, nil)
		require.Len(t, items, 1)
		require.NotNil(t, text)
		assert.Equal(t, "3 VOUCHER", *text)
	})

	t.Run("plain string sets text only", func(t *testing.T) {
		items, text := ResolvePrizes(map[string]any{"ext_prize_info": "Mystery Pack"}, nil)
		assert.Nil(t, items, "a string prize carries no structured items")
		require.NotNil(t, text)
		assert.Equal(t, "Mystery Pack", *text)
	})

	t.Run("no prizes anywhere", func(t *testing.T) {
		items, text := ResolvePrizes(map[string]any{"player": "alice"}, nil)
		assert.Nil(t, items)
		assert.Nil(t, text)
	})
}

func TestResolvePrizesPayoutRanges(t *testing.T) {
	payouts := models.PayoutRules{
		{StartPlace: intPtr(1), EndPlace: intPtr(4), Items: []any{
			map[string]any{"amount": float64(20), "token": "SPS"},
		}},
		{StartPlace: intPtr(4), EndPlace: intPtr(8), Items: []any{
			map[string]any{"amount": float64(5), "token": "SPS"},
		}},
	}

	t.Run("finish inside one range", func(t *testing.T) {
		items, text := ResolvePrizes(map[string]any{"finish": float64(3)}, payouts)
		require.Len(t, items, 1)
		assert.Equal(t, "20 SPS", *text)
	})

	t.Run("finish in overlapping ranges collects both", func(t *testing.T) {
		items, text := ResolvePrizes(map[string]any{"finish": float64(4)}, payouts)
		require.Len(t, items, 2)
		assert.Equal(t, "20 SPS; 5 SPS", *text)
	})

	t.Run("nil finish never matches a range", func(t *testing.T) {
		items, text := ResolvePrizes(map[string]any{"player": "bob"}, payouts)
		assert.Nil(t, items)
		assert.Nil(t, text)
	})

	t.Run("finish outside every range", func(t *testing.T) {
		items, _ := ResolvePrizes(map[string]any{"finish": float64(20)}, payouts)
		assert.Nil(t, items)
	})
}

func TestResolvePrizesMalformedRules(t *testing.T) {
	payouts := models.PayoutRules{
		{StartPlace: nil, EndPlace: intPtr(4), Items: []any{
			map[string]any{"amount": float64(99), "token": "SPS"},
		}},
		{StartPlace: intPtr(9), EndPlace: nil, Items: []any{
			map[string]any{"amount": float64(1), "token": "DEC"},
		}},
	}

	t.Run("missing start_place is skipped", func(t *testing.T) {
		items, _ := ResolvePrizes(map[string]any{"finish": float64(2)}, payouts)
		assert.Nil(t, items)
	})

	t.Run("missing end_place is open-ended", func(t *testing.T) {
		items, text := ResolvePrizes(map[string]any{"finish": float64(500)}, payouts)
		require.Len(t, items, 1)
		assert.Equal(t, "1 DEC", *text)
	})
}

func TestResolvePrizesDedupKeepsFirstOccurrence(t *testing.T) {
	payouts := models.PayoutRules{
		{StartPlace: intPtr(1), EndPlace: intPtr(8), Items: []any{
			map[string]any{"amount": float64(5), "token": "SPS"},
		}},
	}
	items, text := ResolvePrizes(map[string]any{
		"finish": float64(2),
		"prizes": []any{map[string]any{"amount": float64(5), "token": "SPS"}},
	}, payouts)

	require.Len(t, items, 2, "items keep every award even when labels repeat")
	require.NotNil(t, text)
	assert.Equal(t, "5 SPS", *text)
}

func intPtr(v int) *int { return &v }
