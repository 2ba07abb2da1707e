package signals

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Direction is the side an evidence item argues for
type Direction string

const (
	DirectionBuy  Direction = "buy"
	DirectionSell Direction = "sell"
	DirectionHold Direction = "hold"
)

// KeywordTable maps action-text keywords to a signal direction. The table is
// data-driven so new advisor phrasing can be added without touching scoring
// logic.
type KeywordTable struct {
	Buy  []string `yaml:"buy"`
	Sell []string `yaml:"sell"`
	Hold []string `yaml:"hold"`
}

// DefaultKeywordTable returns the built-in keyword sets matching the
// advisor's standard phrasing for building, reducing and holding positions.
func DefaultKeywordTable() *KeywordTable {
	return &KeywordTable{
		Buy:  []string{"建仓", "加仓"},
		Sell: []string{"减仓", "清仓"},
		Hold: []string{"观望", "持有"},
	}
}

// LoadKeywordTable reads a keyword table from a YAML file. Missing sections
// fall back to the built-in defaults.
func LoadKeywordTable(path string) (*KeywordTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keyword file %s: %w", path, err)
	}

	table := &KeywordTable{}
	if err := yaml.Unmarshal(data, table); err != nil {
		return nil, fmt.Errorf("failed to parse keyword file %s: %w", path, err)
	}

	defaults := DefaultKeywordTable()
	if len(table.Buy) == 0 {
		table.Buy = defaults.Buy
	}
	if len(table.Sell) == 0 {
		table.Sell = defaults.Sell
	}
	if len(table.Hold) == 0 {
		table.Hold = defaults.Hold
	}

	return table, nil
}

// Match classifies one action text. Buy keywords take precedence over sell
// keywords when both appear, matching the original scoring behavior.
// Returns an empty direction when nothing matches.
func (t *KeywordTable) Match(action string) Direction {
	if containsAny(action, t.Buy) {
		return DirectionBuy
	}
	if containsAny(action, t.Sell) {
		return DirectionSell
	}
	if containsAny(action, t.Hold) {
		return DirectionHold
	}
	return ""
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
