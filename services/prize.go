package services

import (
	"strconv"
	"strings"

	"guild-series-tracker/models"
	"guild-series-tracker/utils"
)

// Prize shapes coming off the API are a mess: lists of objects, a single
// object, or a plain string, with several field-name generations mixed in.
// Everything funnels through NormalizePrizeItem so the stored shape is one
// flat struct.

// NormalizePrizeItem converts one raw prize entry. It returns nil when the
// entry is not an object or identifies no prize (no token and no text);
// an amount alone is meaningless to consumers and is dropped with it.
func NormalizePrizeItem(raw any) *models.PrizeItem {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil
	}

	item := models.PrizeItem{
		Amount:   utils.FirstFloat(m, "amount", "qty", "value"),
		USDValue: utils.AsFloat(m["usd_value"]),
	}
	if token := utils.FirstString(m, "token", "type"); token != "" {
		item.Token = &token
	}
	if text := utils.AsString(m["text"]); text != "" {
		item.Text = &text
	}

	if item.Token == nil && item.Text == nil {
		return nil
	}
	return &item
}

// prizeLabel renders an item for the human-readable prize_text column.
func prizeLabel(item models.PrizeItem) string {
	if item.Text != nil {
		return *item.Text
	}
	var parts []string
	if item.Amount != nil {
		parts = append(parts, strconv.FormatFloat(*item.Amount, 'f', -1, 64))
	}
	if item.Token != nil {
		parts = append(parts, *item.Token)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// ResolvePrizes collects a player's prizes from both sources: prize info
// attached directly to the player row, and tournament payout rules whose
// placement range covers the player's finish. Range matching needs a real
// finish; unplaced players only ever get direct prizes.
func ResolvePrizes(player map[string]any, payouts models.PayoutRules) (models.PrizeItems, *string) {
	var items models.PrizeItems
	var labels []string

	add := func(raw any) {
		item := NormalizePrizeItem(raw)
		if item == nil {
			return
		}
		items = append(items, *item)
		labels = append(labels, prizeLabel(*item))
	}

	direct := utils.FirstValue(player, "ext_prize_info", "prizes", "prize", "player_prize")
	switch v := direct.(type) {
	case []any:
		for _, entry := range v {
			add(entry)
		}
	case map[string]any:
		add(v)
	case string:
		// A bare string is a description, not a structured prize; it
		// only contributes to prize_text.
		if text := strings.TrimSpace(v); text != "" {
			labels = append(labels, text)
		}
	}

	finish := utils.AsInt(player["finish"])
	if finish != nil {
		for _, rule := range payouts {
			if rule.StartPlace == nil {
				continue
			}
			if *finish < *rule.StartPlace {
				continue
			}
			if rule.EndPlace != nil && *finish > *rule.EndPlace {
				continue
			}
			for _, entry := range rule.Items {
				add(entry)
			}
		}
	}

	var text *string
	if joined := joinUnique(labels); joined != "" {
		text = &joined
	}
	return items, text
}

// joinUnique deduplicates labels keeping first-occurrence order, drops
// blanks, and joins with "; ".
func joinUnique(labels []string) string {
	seen := make(map[string]bool, len(labels))
	var kept []string
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		kept = append(kept, label)
	}
	return strings.Join(kept, "; ")
}
