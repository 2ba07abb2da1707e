package feedback

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/smilewatch/internal/common"
	"github.com/ternarybob/smilewatch/internal/interfaces"
	"github.com/ternarybob/smilewatch/internal/models"
	badgerstore "github.com/ternarybob/smilewatch/internal/storage/badger"
	"github.com/ternarybob/smilewatch/internal/trainer"
)

type capturingNotifier struct {
	messages []string
}

func (c *capturingNotifier) Push(ctx context.Context, message string) error {
	c.messages = append(c.messages, message)
	return nil
}

func (c *capturingNotifier) Enabled() bool { return true }

func newTestService(t *testing.T) (*Service, interfaces.StorageManager, *capturingNotifier) {
	t.Helper()

	config := common.NewDefaultConfig()
	config.Storage.Badger.Path = t.TempDir() + "/badger"
	logger := arbor.NewLogger()

	storage, err := badgerstore.NewManager(logger, config)
	require.NoError(t, err)
	t.Cleanup(func() { storage.Close() })

	notifier := &capturingNotifier{}
	service := NewService(storage, notifier, trainer.NewTrainer(logger, config.Optimizer), config, logger)
	return service, storage, notifier
}

func storePrediction(t *testing.T, storage interfaces.StorageManager, contentID int64, label models.SmileLabel, when time.Time) {
	t.Helper()
	_, err := storage.PredictionStorage().Create(context.Background(), contentID, &models.Prediction{
		Label:      label,
		Confidence: 0.8,
		Signal: models.StructuredSignal{
			MarketCycle: models.MarketCycleBuy,
			Trend:       models.TrendBullish,
		},
		PredictedAt: when,
	})
	require.NoError(t, err)
}

func TestParseBatch(t *testing.T) {
	entries, err := ParseBatch([]string{
		"1001:buy_smile:2",
		"",
		"  1002 : sell_smile ",
		"1003:no_smile:0.5",
	})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, BatchEntry{ContentID: 1001, Label: models.SmileBuy, Count: 2}, entries[0])
	assert.Equal(t, BatchEntry{ContentID: 1002, Label: models.SmileSell}, entries[1])
	assert.Equal(t, BatchEntry{ContentID: 1003, Label: models.SmileNone, Count: 0.5}, entries[2])
}

func TestParseBatch_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
	}{
		{"bad label", []string{"1001:grin:1"}},
		{"bad id", []string{"abc:buy_smile:1"}},
		{"bad count", []string{"1001:buy_smile:two"}},
		{"missing label", []string{"1001"}},
		{"too many fields", []string{"1001:buy_smile:1:extra"}},
		{"empty input", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBatch(tt.lines)
			assert.Error(t, err)
		})
	}
}

func TestSubmitBatch_RecordsAndClassifies(t *testing.T) {
	service, storage, notifier := newTestService(t)
	ctx := context.Background()

	storePrediction(t, storage, 1001, models.SmileBuy, time.Now())
	storePrediction(t, storage, 1002, models.SmileBuy, time.Now())

	result, err := service.SubmitBatch(ctx, []BatchEntry{
		{ContentID: 1001, Label: models.SmileBuy, Count: 2},
		{ContentID: 1002, Label: models.SmileSell, Count: 1},
		{ContentID: 9999, Label: models.SmileBuy, Count: 1}, // no prediction stored
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Success)
	assert.Equal(t, 1, result.Fail)
	assert.Equal(t, 3, result.Total)

	// The wrong direction call produced a classified error case
	counts, err := storage.ErrorCaseStorage().CountByCategory(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[models.ErrorDirectionError])

	require.NotEmpty(t, notifier.messages)
	summary := notifier.messages[len(notifier.messages)-1]
	assert.Contains(t, summary, "succeeded: 2")
	assert.Contains(t, summary, "failed: 1")
}

func TestOptimize_SnapshotGate(t *testing.T) {
	service, storage, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 9; i++ {
		contentID := int64(2000 + i)
		storePrediction(t, storage, contentID, models.SmileBuy, time.Now())
		_, err := storage.PredictionStorage().Verify(ctx, contentID, models.SmileBuy, 1)
		require.NoError(t, err)
	}

	// One short of the gate: no snapshot yet
	require.NoError(t, service.Optimize(ctx))
	snapshots, err := storage.SnapshotStorage().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, snapshots)

	storePrediction(t, storage, 2100, models.SmileBuy, time.Now())
	_, err = storage.PredictionStorage().Verify(ctx, 2100, models.SmileSell, 0)
	require.NoError(t, err)

	require.NoError(t, service.Optimize(ctx))
	snapshots, err = storage.SnapshotStorage().List(ctx)
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.Equal(t, 10, snapshots[0].SampleSize)
	assert.Equal(t, 9, snapshots[0].CorrectCount)
	assert.InDelta(t, 90.0, snapshots[0].Accuracy, 0.01)
	assert.NotEmpty(t, snapshots[0].ModelVersion)

	// Well under the retrain gate, so no classifier yet
	assert.Nil(t, service.Model())
}

func TestPendingList_FormatsTopTen(t *testing.T) {
	service, storage, notifier := newTestService(t)

	for i := 0; i < 12; i++ {
		storePrediction(t, storage, int64(3000+i), models.SmileBuy, time.Now().Add(-time.Duration(i)*time.Minute))
	}

	pending, err := service.PendingList(context.Background())
	require.NoError(t, err)
	assert.Len(t, pending, 12)

	require.Len(t, notifier.messages, 1)
	message := notifier.messages[0]
	assert.Contains(t, message, "Predictions waiting for feedback (12)")
	assert.Contains(t, message, "...and 2 more")
	assert.Contains(t, message, "content_id:actual_label:count")
	// Newest first
	assert.Contains(t, message, "1. content 3000")
}

func TestPendingList_Empty(t *testing.T) {
	service, _, notifier := newTestService(t)

	pending, err := service.PendingList(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pending)
	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "No predictions are waiting")
}

func TestDailyReport(t *testing.T) {
	service, storage, notifier := newTestService(t)
	ctx := context.Background()

	day := time.Now().AddDate(0, 0, -2)
	date := day.Format("2006-01-02")
	noon := time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, day.Location())

	for i := 0; i < 4; i++ {
		storePrediction(t, storage, int64(4000+i), models.SmileBuy, noon)
	}
	for i := 0; i < 3; i++ {
		_, err := storage.PredictionStorage().Verify(ctx, int64(4000+i), models.SmileBuy, 1)
		require.NoError(t, err)
	}

	text, err := service.DailyReport(ctx, date)
	require.NoError(t, err)
	assert.Contains(t, text, fmt.Sprintf("Daily performance report - %s", date))
	assert.Contains(t, text, "total: 4")
	assert.Contains(t, text, "with feedback: 3")
	assert.Contains(t, text, "Accuracy: 100.0%")
	assert.Contains(t, text, "Excellent run")

	require.Len(t, notifier.messages, 1)
	assert.Equal(t, text, notifier.messages[0])
}

func TestDailyReport_BadDate(t *testing.T) {
	service, _, _ := newTestService(t)
	_, err := service.DailyReport(context.Background(), "last tuesday")
	assert.Error(t, err)
}

func TestWeeklyReport(t *testing.T) {
	service, storage, notifier := newTestService(t)
	ctx := context.Background()

	end := time.Now().AddDate(0, 0, -1)
	endDate := end.Format("2006-01-02")

	// Spread predictions across the week
	for i := 0; i < 5; i++ {
		when := end.AddDate(0, 0, -i)
		noon := time.Date(when.Year(), when.Month(), when.Day(), 12, 0, 0, 0, when.Location())
		storePrediction(t, storage, int64(5000+i), models.SmileBuy, noon)
	}
	for i := 0; i < 4; i++ {
		actual := models.SmileBuy
		if i == 3 {
			actual = models.SmileNone
		}
		_, err := storage.PredictionStorage().Verify(ctx, int64(5000+i), actual, 1)
		require.NoError(t, err)
	}

	text, err := service.WeeklyReport(ctx, endDate)
	require.NoError(t, err)
	assert.Contains(t, text, "Weekly performance report")
	assert.Contains(t, text, endDate)
	assert.Contains(t, text, "total predictions: 5")
	assert.Contains(t, text, "with feedback: 4")
	assert.Contains(t, text, "Accuracy: 75.0%")
	assert.Contains(t, text, "Short-term target (70%) met")

	require.Len(t, notifier.messages, 1)
}
