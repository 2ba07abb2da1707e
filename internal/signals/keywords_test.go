package signals

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordTable_Match(t *testing.T) {
	table := DefaultKeywordTable()

	tests := []struct {
		action   string
		expected Direction
	}{
		{"适当建仓", DirectionBuy},
		{"分批加仓", DirectionBuy},
		{"逢高减仓", DirectionSell},
		{"立即清仓", DirectionSell},
		{"继续观望", DirectionHold},
		{"持有不动", DirectionHold},
		{"关注市场", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, table.Match(tt.action), "action %q", tt.action)
	}
}

// Buy keywords win when an action text mentions both directions; the original
// scorer checked buy phrases first and this ordering is load-bearing for
// score compatibility.
func TestKeywordTable_BuyPrecedence(t *testing.T) {
	table := DefaultKeywordTable()
	assert.Equal(t, DirectionBuy, table.Match("先减仓后加仓"))
}

func TestLoadKeywordTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keywords.yaml")
	content := "buy:\n  - 建仓\n  - 抄底\nsell:\n  - 止盈\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	table, err := LoadKeywordTable(path)
	require.NoError(t, err)

	assert.Equal(t, DirectionBuy, table.Match("逢低抄底"))
	assert.Equal(t, DirectionSell, table.Match("分批止盈"))
	// Hold section absent from the file falls back to the defaults
	assert.Equal(t, DirectionHold, table.Match("继续观望"))
}

func TestLoadKeywordTable_MissingFile(t *testing.T) {
	_, err := LoadKeywordTable(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
