package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONMap stores an arbitrary JSON object in a jsonb column. Used for the
// raw API payloads we keep around for audit/debug.
type JSONMap map[string]any

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(src any) error {
	return scanJSON(src, m)
}

// StringList stores a JSON array of strings in a jsonb column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(src any) error {
	return scanJSON(src, l)
}

// PrizeItem is one normalized prize entry. An item is only stored when it
// carries at least a token or a text label; amount/usd_value alone say
// nothing a consumer could act on.
type PrizeItem struct {
	Amount   *float64 `json:"amount"`
	Token    *string  `json:"token"`
	Text     *string  `json:"text"`
	USDValue *float64 `json:"usd_value"`
}

// PrizeItems is the jsonb prize_tokens column. A nil slice persists as SQL
// NULL so "no prizes" stays distinct from "not computed".
type PrizeItems []PrizeItem

func (p PrizeItems) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

func (p *PrizeItems) Scan(src any) error {
	return scanJSON(src, p)
}

// PayoutRule maps a placement range to the raw prize items awarded to
// anyone finishing in that range. Items stay in their raw API shape until
// prize resolution normalizes them.
type PayoutRule struct {
	StartPlace *int  `json:"start_place"`
	EndPlace   *int  `json:"end_place"`
	Items      []any `json:"items"`
}

type PayoutRules []PayoutRule

func (p PayoutRules) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

func (p *PayoutRules) Scan(src any) error {
	return scanJSON(src, p)
}

func scanJSON(src any, dst any) error {
	if src == nil {
		return nil
	}
	switch v := src.(type) {
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dst)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dst)
	}
	return fmt.Errorf("unsupported jsonb source type %T", src)
}
