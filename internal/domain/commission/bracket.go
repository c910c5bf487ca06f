package commission

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Compute returns the payout for a settlement amount against an ordered
// bracket table: the first bracket in ascending min order whose closed range
// contains the amount wins. No match means zero commission; gaps between
// brackets are a plan configuration error, never auto-resolved here.
func Compute(brackets []Bracket, amount decimal.Decimal) Result {
	for _, b := range brackets {
		if b.Contains(amount) {
			return Result{
				Amount:     b.Fixed,
				BracketMin: b.Min,
				BracketMax: b.Max,
				Matched:    true,
			}
		}
	}
	return Result{Amount: decimal.Zero}
}

// ParseBrackets decodes a stored bracket table. Plans accumulated over years
// of operation carry formatting noise, so parsing is deliberately tolerant:
//   - canonical keys min/max/fixed and legacy keys from/to/amount both work;
//   - string-typed numbers may contain thousands separators;
//   - entries with missing or unparseable bounds are discarded.
//
// The surviving brackets are sorted ascending by min before matching.
func ParseBrackets(raw []byte) ([]Bracket, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var entries []map[string]any
	if err := dec.Decode(&entries); err != nil {
		return nil, err
	}

	brackets := make([]Bracket, 0, len(entries))
	for _, entry := range entries {
		min, ok := pickAmount(entry, "min", "from")
		if !ok {
			continue
		}
		max, ok := pickAmount(entry, "max", "to")
		if !ok {
			continue
		}
		fixed, ok := pickAmount(entry, "fixed", "amount")
		if !ok {
			continue
		}
		brackets = append(brackets, Bracket{Min: min, Max: max, Fixed: fixed})
	}

	sort.SliceStable(brackets, func(i, j int) bool {
		return brackets[i].Min.LessThan(brackets[j].Min)
	})

	return brackets, nil
}

// pickAmount reads the canonical key first, then the legacy one.
func pickAmount(entry map[string]any, canonical, legacy string) (decimal.Decimal, bool) {
	if v, ok := entry[canonical]; ok {
		return coerceAmount(v)
	}
	if v, ok := entry[legacy]; ok {
		return coerceAmount(v)
	}
	return decimal.Decimal{}, false
}

func coerceAmount(v any) (decimal.Decimal, bool) {
	switch value := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(value.String())
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	case string:
		cleaned := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
		cleaned = strings.ReplaceAll(cleaned, " ", "")
		if cleaned == "" {
			return decimal.Decimal{}, false
		}
		d, err := decimal.NewFromString(cleaned)
		if err != nil {
			// Covers "Infinity", "NaN" and similar junk bounds.
			return decimal.Decimal{}, false
		}
		return d, true
	default:
		return decimal.Decimal{}, false
	}
}
