package feedback

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/smilewatch/internal/models"
)

var validate = validator.New()

// BatchEntry is one parsed feedback tuple
type BatchEntry struct {
	ContentID int64             `validate:"gt=0"`
	Label     models.SmileLabel `validate:"oneof=buy_smile sell_smile no_smile"`
	Count     float64           `validate:"gte=0"`
}

// BatchResult summarizes a feedback submission
type BatchResult struct {
	Success int
	Fail    int
	Total   int
}

// ParseBatch parses feedback lines in the form "content_id:actual_label:count"
// with the count optional. Blank lines are skipped; any malformed line fails
// the whole batch so a typo cannot silently verify the wrong record.
func ParseBatch(lines []string) ([]BatchEntry, error) {
	entries := make([]BatchEntry, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.Split(line, ":")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("invalid feedback line '%s': expected content_id:actual_label[:count]", line)
		}

		contentID, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid content ID in '%s': %w", line, err)
		}

		entry := BatchEntry{
			ContentID: contentID,
			Label:     models.SmileLabel(strings.TrimSpace(parts[1])),
		}
		if len(parts) == 3 && strings.TrimSpace(parts[2]) != "" {
			count, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid count in '%s': %w", line, err)
			}
			entry.Count = count
		}

		if err := validate.Struct(entry); err != nil {
			return nil, fmt.Errorf("invalid feedback line '%s': %w", line, err)
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("no feedback entries found")
	}
	return entries, nil
}
