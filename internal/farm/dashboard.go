package farm

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/farmbook/pkg/types"
)

// UpcomingTaskCount is the number of open tasks the dashboard lists.
const UpcomingTaskCount = 5

// DashboardData is the raw input of the dashboard.
type DashboardData struct {
	Crops      []types.Crop
	Tasks      []types.Task
	Financials []types.Financial
	Forecast   []types.Weather
}

// Summary is the dashboard's computed view.
type Summary struct {
	ActiveCrops   int            `json:"activeCrops"`
	PendingTasks  int            `json:"pendingTasks"`
	OverdueTasks  int            `json:"overdueTasks"`
	Totals        Totals         `json:"totals"`
	UpcomingTasks []types.Task   `json:"upcomingTasks"`
	TodayWeather  *types.Weather `json:"todayWeather,omitempty"`
}

// Dashboard loads and summarizes the home view.
type Dashboard struct {
	svc *Services
	log *zap.Logger
}

// NewDashboard creates a dashboard over svc. Only WithLogger applies.
func NewDashboard(svc *Services, opts ...Option) *Dashboard {
	return &Dashboard{svc: svc, log: buildOptions(opts).log}
}

// Load fetches crops, tasks, financial records and the forecast in
// parallel. The first failure cancels the other reads and is returned.
func (d *Dashboard) Load(ctx context.Context) (*DashboardData, error) {
	var data DashboardData
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		crops, err := d.svc.Crops.GetAll(gctx)
		data.Crops = crops
		return err
	})
	g.Go(func() error {
		tasks, err := d.svc.Tasks.GetAll(gctx)
		data.Tasks = tasks
		return err
	})
	g.Go(func() error {
		records, err := d.svc.Financials.GetAll(gctx)
		data.Financials = records
		return err
	})
	g.Go(func() error {
		forecast, err := d.svc.Weather.GetForecast(gctx)
		data.Forecast = forecast
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &data, nil
}

// Summarize computes the dashboard view of data at now.
func Summarize(data *DashboardData, now time.Time) Summary {
	s := Summary{Totals: SumFinancials(data.Financials)}

	for _, c := range data.Crops {
		if c.Status != types.CropStatusHarvested {
			s.ActiveCrops++
		}
	}

	stats := CountTasks(data.Tasks, now)
	s.PendingTasks = stats.Pending
	s.OverdueTasks = stats.Overdue

	s.UpcomingTasks = upcoming(data.Tasks, UpcomingTaskCount)

	if len(data.Forecast) > 0 {
		w := data.Forecast[0]
		s.TodayWeather = &w
	}
	return s
}

// Summary loads and summarizes in one call.
func (d *Dashboard) Summary(ctx context.Context, now time.Time) (*Summary, error) {
	data, err := d.Load(ctx)
	if err != nil {
		return nil, err
	}
	s := Summarize(data, now)
	return &s, nil
}
