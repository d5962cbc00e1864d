package farm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/farmbook/pkg/types"
)

func taskTitles(tasks []types.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func TestFilterFarms(t *testing.T) {
	farms := []types.Farm{
		{Name: "Green Acres", Location: "Valley Rd"},
		{Name: "Hilltop", Location: "Green Hill"},
		{Name: "Riverside", Location: "Mill Lane"},
	}
	assert.Len(t, FilterFarms(farms, ""), 3)
	got := FilterFarms(farms, "green")
	assert.Equal(t, []string{"Green Acres", "Hilltop"}, []string{got[0].Name, got[1].Name})
	assert.Empty(t, FilterFarms(farms, "orchard"))
}

func TestFilterCropsAndCounts(t *testing.T) {
	crops := []types.Crop{
		{Name: "Corn", Variety: "Sweet", FieldLocation: "North", Status: types.CropStatusGrowing},
		{Name: "Wheat", Variety: "Durum", FieldLocation: "South", Status: types.CropStatusHarvested},
		{Name: "Beans", Variety: "Pinto", FieldLocation: "North", Status: types.CropStatusGrowing},
	}

	tests := []struct {
		name   string
		filter CropFilter
		want   []string
	}{
		{"no filter", CropFilter{}, []string{"Corn", "Wheat", "Beans"}},
		{"all status", CropFilter{Status: FilterAll}, []string{"Corn", "Wheat", "Beans"}},
		{"search field location", CropFilter{Search: "north"}, []string{"Corn", "Beans"}},
		{"search variety", CropFilter{Search: "DURUM"}, []string{"Wheat"}},
		{"status", CropFilter{Status: types.CropStatusHarvested}, []string{"Wheat"}},
		{"search and status", CropFilter{Search: "corn", Status: types.CropStatusHarvested}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterCrops(crops, tt.filter)
			names := make([]string, len(got))
			for i, c := range got {
				names[i] = c.Name
			}
			assert.Equal(t, tt.want, names)
		})
	}

	assert.Equal(t, map[string]int{
		types.CropStatusPlanted:   0,
		types.CropStatusGrowing:   2,
		types.CropStatusReady:     0,
		types.CropStatusHarvested: 1,
	}, CountCropsByStatus(crops))
}

func TestFilterTasks(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	tasks := []types.Task{
		{Title: "Water beans", DueDate: "2025-06-12", Priority: types.PriorityLow, Category: types.TaskCategoryWatering},
		{Title: "fix fence", DueDate: "2025-06-01", Priority: types.PriorityHigh, Category: types.TaskCategoryMaintenance},
		{Title: "Harvest corn", DueDate: "2025-06-05", Priority: types.PriorityMedium, Category: types.TaskCategoryHarvesting, Completed: true},
		{Title: "Buy seed", DueDate: "soon", Priority: types.PriorityHigh, Category: types.TaskCategoryGeneral},
	}

	tests := []struct {
		name   string
		filter TaskFilter
		want   []string
	}{
		{"no filter keeps order", TaskFilter{}, []string{"Water beans", "fix fence", "Harvest corn", "Buy seed"}},
		{"search category", TaskFilter{Search: "maint"}, []string{"fix fence"}},
		{"priority", TaskFilter{Priority: types.PriorityHigh}, []string{"fix fence", "Buy seed"}},
		{"completed", TaskFilter{Status: TaskStatusCompleted}, []string{"Harvest corn"}},
		{"pending", TaskFilter{Status: TaskStatusPending}, []string{"Water beans", "fix fence", "Buy seed"}},
		{"overdue skips completed and unparseable", TaskFilter{Status: TaskStatusOverdue}, []string{"fix fence"}},
		{"sort by due date puts unparseable last", TaskFilter{SortBy: SortTasksByDueDate}, []string{"fix fence", "Harvest corn", "Water beans", "Buy seed"}},
		{"sort by priority high first", TaskFilter{SortBy: SortTasksByPriority}, []string{"fix fence", "Buy seed", "Harvest corn", "Water beans"}},
		{"sort by title ignores case", TaskFilter{SortBy: SortTasksByTitle}, []string{"Buy seed", "fix fence", "Harvest corn", "Water beans"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, taskTitles(FilterTasks(tasks, tt.filter, now)))
		})
	}

	assert.Equal(t, TaskStats{Completed: 1, Pending: 3, Overdue: 1, HighPriority: 2}, CountTasks(tasks, now))
}

func TestFilterFinancials(t *testing.T) {
	records := []types.Financial{
		{Type: types.FinancialExpense, Category: "seeds", Amount: 120, Description: "Seed corn", Date: "2025-03-01"},
		{Type: types.FinancialIncome, Category: "sales", Amount: 900, Description: "market stall", Date: "2025-05-20"},
		{Type: types.FinancialExpense, Category: "fuel", Amount: 60.5, Description: "Diesel", Date: "2025-04-11"},
	}
	desc := func(rs []types.Financial) []string {
		out := make([]string, len(rs))
		for i, r := range rs {
			out[i] = r.Description
		}
		return out
	}

	assert.Equal(t, []string{"Seed corn", "Diesel"}, desc(FilterFinancials(records, FinancialFilter{Type: types.FinancialExpense})))
	assert.Equal(t, []string{"Diesel"}, desc(FilterFinancials(records, FinancialFilter{Category: "fuel"})))
	assert.Equal(t, []string{"Seed corn"}, desc(FilterFinancials(records, FinancialFilter{Search: "SEEDS"})))
	assert.Equal(t, []string{"market stall", "Diesel", "Seed corn"}, desc(FilterFinancials(records, FinancialFilter{SortBy: SortFinancialsByDate})))
	assert.Equal(t, []string{"market stall", "Seed corn", "Diesel"}, desc(FilterFinancials(records, FinancialFilter{SortBy: SortFinancialsByAmount})))
	assert.Equal(t, []string{"Diesel", "market stall", "Seed corn"}, desc(FilterFinancials(records, FinancialFilter{SortBy: SortFinancialsByDescription})))
	assert.Equal(t, []string{"seeds", "sales", "fuel"}, UsedCategories(records))
}

func TestSumFinancialsIsExact(t *testing.T) {
	records := []types.Financial{
		{Type: types.FinancialIncome, Amount: 0.1},
		{Type: types.FinancialIncome, Amount: 0.2},
		{Type: types.FinancialExpense, Amount: 0.3},
		{Type: "transfer", Amount: 50},
	}
	totals := SumFinancials(records)
	assert.Equal(t, "0.3", totals.Income.String())
	assert.Equal(t, "0.3", totals.Expenses.String())
	assert.True(t, totals.Net.IsZero())
	assert.Equal(t, 4, totals.Count)
}
