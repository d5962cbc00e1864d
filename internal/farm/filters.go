package farm

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/farmbook/pkg/types"
)

// FilterAll disables an enum filter.
const FilterAll = "all"

// Task status filters.
const (
	TaskStatusCompleted = "completed"
	TaskStatusPending   = "pending"
	TaskStatusOverdue   = "overdue"
)

// Task sort keys.
const (
	SortTasksByDueDate  = "dueDate"
	SortTasksByPriority = "priority"
	SortTasksByTitle    = "title"
)

// Financial sort keys.
const (
	SortFinancialsByDate        = "date"
	SortFinancialsByAmount      = "amount"
	SortFinancialsByDescription = "description"
)

// CropFilter narrows a crop list.
type CropFilter struct {
	Search string
	Status string
}

// TaskFilter narrows and orders a task list.
type TaskFilter struct {
	Search   string
	Priority string
	Status   string
	SortBy   string
}

// FinancialFilter narrows and orders financial records.
type FinancialFilter struct {
	Search   string
	Type     string
	Category string
	SortBy   string
}

func matches(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	search = strings.ToLower(search)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}

func enabled(v string) bool {
	return v != "" && v != FilterAll
}

// FilterFarms keeps farms whose name or location contains search.
func FilterFarms(farms []types.Farm, search string) []types.Farm {
	out := make([]types.Farm, 0, len(farms))
	for _, f := range farms {
		if matches(search, f.Name, f.Location) {
			out = append(out, f)
		}
	}
	return out
}

// FilterCrops applies f to crops, keeping their order.
func FilterCrops(crops []types.Crop, f CropFilter) []types.Crop {
	out := make([]types.Crop, 0, len(crops))
	for _, c := range crops {
		if !matches(f.Search, c.Name, c.Variety, c.FieldLocation) {
			continue
		}
		if enabled(f.Status) && c.Status != f.Status {
			continue
		}
		out = append(out, c)
	}
	return out
}

// CountCropsByStatus counts crops per status. Every known status is
// present in the result, even when zero.
func CountCropsByStatus(crops []types.Crop) map[string]int {
	counts := make(map[string]int, len(types.CropStatuses))
	for _, s := range types.CropStatuses {
		counts[s] = 0
	}
	for _, c := range crops {
		counts[c.Status]++
	}
	return counts
}

// FilterTasks applies f to tasks. Overdue is judged against now. Tasks
// with unparseable due dates sort last by due date.
func FilterTasks(tasks []types.Task, f TaskFilter, now time.Time) []types.Task {
	out := make([]types.Task, 0, len(tasks))
	for _, t := range tasks {
		if !matches(f.Search, t.Title, t.Description, t.Category) {
			continue
		}
		if enabled(f.Priority) && t.Priority != f.Priority {
			continue
		}
		switch f.Status {
		case TaskStatusCompleted:
			if !t.Completed {
				continue
			}
		case TaskStatusPending:
			if t.Completed {
				continue
			}
		case TaskStatusOverdue:
			if !t.IsOverdue(now) {
				continue
			}
		}
		out = append(out, t)
	}

	switch f.SortBy {
	case SortTasksByDueDate:
		sort.SliceStable(out, func(i, j int) bool {
			a, aok := dueTime(out[i])
			b, bok := dueTime(out[j])
			if aok != bok {
				return aok
			}
			return a.Before(b)
		})
	case SortTasksByPriority:
		sort.SliceStable(out, func(i, j int) bool {
			return types.PriorityRank(out[i].Priority) > types.PriorityRank(out[j].Priority)
		})
	case SortTasksByTitle:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
		})
	}
	return out
}

// TaskStats are the headline counts of a task list.
type TaskStats struct {
	Completed    int `json:"completed"`
	Pending      int `json:"pending"`
	Overdue      int `json:"overdue"`
	HighPriority int `json:"highPriority"` // open tasks only
}

// CountTasks computes TaskStats against now.
func CountTasks(tasks []types.Task, now time.Time) TaskStats {
	var s TaskStats
	for i := range tasks {
		t := &tasks[i]
		if t.Completed {
			s.Completed++
			continue
		}
		s.Pending++
		if t.IsOverdue(now) {
			s.Overdue++
		}
		if t.Priority == types.PriorityHigh {
			s.HighPriority++
		}
	}
	return s
}

func dueTime(t types.Task) (time.Time, bool) {
	if t.DueDate == "" {
		return time.Time{}, false
	}
	d, err := types.ParseDate(t.DueDate)
	return d, err == nil
}

// FilterFinancials applies f to records.
func FilterFinancials(records []types.Financial, f FinancialFilter) []types.Financial {
	out := make([]types.Financial, 0, len(records))
	for _, r := range records {
		if !matches(f.Search, r.Description, r.Category) {
			continue
		}
		if enabled(f.Type) && r.Type != f.Type {
			continue
		}
		if enabled(f.Category) && r.Category != f.Category {
			continue
		}
		out = append(out, r)
	}

	switch f.SortBy {
	case SortFinancialsByDate:
		sort.SliceStable(out, func(i, j int) bool {
			a, _ := types.ParseDate(out[i].Date)
			b, _ := types.ParseDate(out[j].Date)
			return a.After(b)
		})
	case SortFinancialsByAmount:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Amount > out[j].Amount })
	case SortFinancialsByDescription:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Description) < strings.ToLower(out[j].Description)
		})
	}
	return out
}

// UsedCategories lists the distinct non-empty categories in records, in
// first-seen order.
func UsedCategories(records []types.Financial) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range records {
		if r.Category == "" || seen[r.Category] {
			continue
		}
		seen[r.Category] = true
		out = append(out, r.Category)
	}
	return out
}

// Totals are income and expense sums in exact decimal arithmetic.
type Totals struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
	Count    int             `json:"count"`
}

// SumFinancials totals records by type. Records of any other type count
// toward Count only.
func SumFinancials(records []types.Financial) Totals {
	t := Totals{Income: decimal.Zero, Expenses: decimal.Zero, Count: len(records)}
	for _, r := range records {
		amount := decimal.NewFromFloat(r.Amount)
		switch r.Type {
		case types.FinancialIncome:
			t.Income = t.Income.Add(amount)
		case types.FinancialExpense:
			t.Expenses = t.Expenses.Add(amount)
		}
	}
	t.Net = t.Income.Sub(t.Expenses)
	return t
}
