package farm

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/farmbook/pkg/types"
)

// Overview list sizes.
const (
	OverviewUpcomingCount  = 3
	OverviewRecentTasks    = 3
	OverviewRecentRecords  = 2
	OverviewRecentActivity = 5
)

// Activity kinds.
const (
	ActivityTask      = "task"
	ActivityFinancial = "financial"
)

// Activity is one line of the overview's recent activity.
type Activity struct {
	Kind  string `json:"kind"`
	Title string `json:"title"`
	Date  string `json:"date,omitempty"`
}

// Overview is the farm overview. Reads that failed are listed in
// Unavailable and contribute nothing to the counts.
type Overview struct {
	TotalCrops     int            `json:"totalCrops"`
	ActiveCrops    int            `json:"activeCrops"`
	ReadyCrops     int            `json:"readyCrops"`
	TotalTasks     int            `json:"totalTasks"`
	PendingTasks   int            `json:"pendingTasks"`
	OverdueTasks   int            `json:"overdueTasks"`
	Totals         Totals         `json:"totals"`
	RecentActivity []Activity     `json:"recentActivity"`
	UpcomingTasks  []types.Task   `json:"upcomingTasks"`
	Weather        *types.Weather `json:"weather,omitempty"`
	Unavailable    []string       `json:"unavailable,omitempty"`
}

// Overview reads crops, tasks, financial records and current weather in
// parallel. Unlike Load, a failed read is logged and replaced by its zero
// value, so one unavailable table never hides the others.
func (d *Dashboard) Overview(ctx context.Context, now time.Time) *Overview {
	var (
		data    DashboardData
		weather *types.Weather
		mu      sync.Mutex
		missing []string
		g       errgroup.Group
	)
	failed := func(read string, err error) {
		d.log.Warn("overview read failed", zap.String("read", read), zap.Error(err))
		mu.Lock()
		missing = append(missing, read)
		mu.Unlock()
	}

	g.Go(func() error {
		crops, err := d.svc.Crops.GetAll(ctx)
		if err != nil {
			failed("crops", err)
			return nil
		}
		data.Crops = crops
		return nil
	})
	g.Go(func() error {
		tasks, err := d.svc.Tasks.GetAll(ctx)
		if err != nil {
			failed("tasks", err)
			return nil
		}
		data.Tasks = tasks
		return nil
	})
	g.Go(func() error {
		records, err := d.svc.Financials.GetAll(ctx)
		if err != nil {
			failed("financials", err)
			return nil
		}
		data.Financials = records
		return nil
	})
	g.Go(func() error {
		w, err := d.svc.Weather.GetCurrentWeather(ctx)
		if err != nil {
			failed("weather", err)
			return nil
		}
		weather = w
		return nil
	})
	_ = g.Wait()

	o := summarizeOverview(&data, now)
	o.Weather = weather
	sort.Strings(missing)
	o.Unavailable = missing
	return &o
}

func summarizeOverview(data *DashboardData, now time.Time) Overview {
	o := Overview{
		TotalCrops: len(data.Crops),
		TotalTasks: len(data.Tasks),
		Totals:     SumFinancials(data.Financials),
	}

	for _, c := range data.Crops {
		switch c.Status {
		case types.CropStatusPlanted, types.CropStatusGrowing:
			o.ActiveCrops++
		case types.CropStatusReady:
			o.ReadyCrops++
		}
	}

	stats := CountTasks(data.Tasks, now)
	o.PendingTasks = stats.Pending
	o.OverdueTasks = stats.Overdue

	o.RecentActivity = make([]Activity, 0, OverviewRecentActivity)
	for _, t := range data.Tasks {
		if len(o.RecentActivity) == OverviewRecentTasks {
			break
		}
		if t.Completed {
			o.RecentActivity = append(o.RecentActivity, Activity{Kind: ActivityTask, Title: "Completed: " + t.Title})
		}
	}
	for i, f := range data.Financials {
		if i == OverviewRecentRecords {
			break
		}
		label := "Expense: "
		if f.Type == types.FinancialIncome {
			label = "Income: "
		}
		o.RecentActivity = append(o.RecentActivity, Activity{Kind: ActivityFinancial, Title: label + f.Description, Date: f.Date})
	}
	if len(o.RecentActivity) > OverviewRecentActivity {
		o.RecentActivity = o.RecentActivity[:OverviewRecentActivity]
	}

	o.UpcomingTasks = upcoming(data.Tasks, OverviewUpcomingCount)
	return o
}

// upcoming returns the n earliest-due open tasks. Missing or unparseable
// due dates count as the zero time.
func upcoming(tasks []types.Task, n int) []types.Task {
	open := make([]types.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Completed {
			open = append(open, t)
		}
	}
	sort.SliceStable(open, func(i, j int) bool {
		a, _ := dueTime(open[i])
		b, _ := dueTime(open[j])
		return a.Before(b)
	})
	if len(open) > n {
		open = open[:n]
	}
	return open
}
