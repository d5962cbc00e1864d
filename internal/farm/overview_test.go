package farm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mesh-intelligence/farmbook/internal/memstore"
	"github.com/mesh-intelligence/farmbook/pkg/types"
)

func seedOverview(t *testing.T, svc *Services, store types.RecordStore) {
	t.Helper()
	ctx := context.Background()

	for _, status := range []string{types.CropStatusPlanted, types.CropStatusGrowing, types.CropStatusReady, types.CropStatusHarvested} {
		c := sampleCrop()
		c.Status = status
		_, err := svc.Crops.Create(ctx, &c)
		require.NoError(t, err)
	}

	tasks := []struct {
		title string
		due   string
		done  bool
	}{
		{"T1", "2025-05-01", true},
		{"T2", "2025-06-20", false},
		{"T3", "2025-05-02", true},
		{"T4", "2025-06-01", false},
		{"T5", "2025-05-03", true},
		{"T6", "", false},
		{"T7", "2025-05-04", true},
		{"T8", "2025-06-15", false},
	}
	for _, tk := range tasks {
		_, err := store.CreateRecord(ctx, types.TableTasks, types.WriteParams{Records: []types.Record{{
			"title_c": tk.title, "due_date_c": tk.due, "completed_c": tk.done,
		}}})
		require.NoError(t, err)
	}

	for _, f := range []types.Financial{
		{Type: types.FinancialIncome, Category: "sales", Amount: 900, Description: "Farmers market", Date: "2025-06-01"},
		{Type: types.FinancialExpense, Category: "fuel", Amount: 120.5, Description: "Diesel", Date: "2025-06-02"},
		{Type: types.FinancialIncome, Category: "grants", Amount: 400, Description: "Cover crop grant", Date: "2025-06-03"},
	} {
		_, err := svc.Financials.Create(ctx, &f)
		require.NoError(t, err)
	}
}

func TestOverview(t *testing.T) {
	defer goleak.VerifyNone(t)

	svc, store := setupServices(t)
	seedOverview(t, svc, store)
	addWeather(t, store,
		types.Record{"date_c": "2025-06-09", "condition_c": "rainy"},
		types.Record{"date_c": "2025-06-10", "condition_c": "sunny"},
	)

	o := NewDashboard(svc).Overview(context.Background(), fixedNow)

	assert.Equal(t, 4, o.TotalCrops)
	assert.Equal(t, 2, o.ActiveCrops)
	assert.Equal(t, 1, o.ReadyCrops)
	assert.Equal(t, 8, o.TotalTasks)
	assert.Equal(t, 4, o.PendingTasks)
	assert.Equal(t, 1, o.OverdueTasks)
	assert.Equal(t, "1179.5", o.Totals.Net.String())
	assert.Equal(t, []Activity{
		{Kind: ActivityTask, Title: "Completed: T7"},
		{Kind: ActivityTask, Title: "Completed: T5"},
		{Kind: ActivityTask, Title: "Completed: T3"},
		{Kind: ActivityFinancial, Title: "Income: Cover crop grant", Date: "2025-06-03"},
		{Kind: ActivityFinancial, Title: "Expense: Diesel", Date: "2025-06-02"},
	}, o.RecentActivity)
	assert.Equal(t, []string{"T6", "T4", "T8"}, taskTitles(o.UpcomingTasks))
	require.NotNil(t, o.Weather)
	assert.Equal(t, "sunny", o.Weather.Condition)
	assert.Empty(t, o.Unavailable)
}

func TestOverviewIsolatesFailedReads(t *testing.T) {
	defer goleak.VerifyNone(t)

	core, logs := observer.New(zap.WarnLevel)
	store := failingStore{Store: memstore.New(), table: types.TableTasks}
	svc := NewServices(store, WithClock(func() time.Time { return fixedNow }))
	seedOverview(t, svc, store)

	o := NewDashboard(svc, WithLogger(zap.New(core))).Overview(context.Background(), fixedNow)

	assert.Equal(t, 4, o.TotalCrops)
	assert.Equal(t, "1179.5", o.Totals.Net.String())
	assert.Zero(t, o.TotalTasks)
	assert.Empty(t, o.UpcomingTasks)
	require.Len(t, o.RecentActivity, 2)
	assert.Equal(t, ActivityFinancial, o.RecentActivity[0].Kind)
	assert.Nil(t, o.Weather)
	assert.Equal(t, []string{"tasks", "weather"}, o.Unavailable)

	entries := logs.FilterMessage("overview read failed").All()
	require.Len(t, entries, 2)
}

func TestOverviewEmpty(t *testing.T) {
	svc, _ := setupServices(t)
	o := NewDashboard(svc).Overview(context.Background(), fixedNow)
	assert.Zero(t, o.TotalCrops)
	assert.Empty(t, o.RecentActivity)
	assert.Empty(t, o.UpcomingTasks)
	assert.Equal(t, []string{"weather"}, o.Unavailable)
}
