package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahazfernando/aussie-ops-financials/internal/feed"
)

func waitForSummary(t *testing.T, tracker *SummaryTracker, want FinancialSummary) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		got, ok := tracker.Latest()
		if ok && got.TotalIncome.Equal(want.TotalIncome) &&
			got.TotalExpenses.Equal(want.TotalExpenses) &&
			got.TotalProfit.Equal(want.TotalProfit) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	got, _ := tracker.Latest()
	t.Fatalf("tracker never reached %+v, last %+v", want, got)
}

func TestTrackSummaryFoldsSyntheticPushes(t *testing.T) {
	f := feed.New[Transaction]()
	tracker := TrackSummary(f)
	defer tracker.Close()

	_, ok := tracker.Latest()
	require.False(t, ok, "tracker should not be primed before the first push")

	f.Publish([]Transaction{
		tx(Inflow, "110", "10", true),
		tx(Outflow, "55", "5", true),
	})
	waitForSummary(t, tracker, FinancialSummary{
		TotalIncome:   dec("110"),
		TotalExpenses: dec("55"),
		TotalProfit:   dec("55"),
	})

	// A later push fully replaces the previous state, no deltas.
	f.Publish([]Transaction{
		tx(Inflow, "220", "20", true),
	})
	waitForSummary(t, tracker, FinancialSummary{
		TotalIncome:   dec("220"),
		TotalExpenses: dec("0"),
		TotalProfit:   dec("220"),
	})

	// An empty set resets to all zero.
	f.Publish(nil)
	waitForSummary(t, tracker, FinancialSummary{
		TotalIncome:   dec("0"),
		TotalExpenses: dec("0"),
		TotalProfit:   dec("0"),
	})
}

func TestTrackerCloseIsIdempotent(t *testing.T) {
	f := feed.New[Transaction]()
	tracker := TrackSummary(f)
	tracker.Close()
	tracker.Close()

	_, ok := tracker.Latest()
	assert.False(t, ok)
}
