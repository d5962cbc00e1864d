package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/farmbook/internal/farm"
)

func (a *app) overviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Show the farm overview, tolerating unavailable tables",
		Long: `Show crop, task and finance totals, recent activity, the next due tasks
and current weather. A read that fails is reported as unavailable and the
rest of the overview is still shown.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(ctx context.Context, s *session) error {
				o := farm.NewDashboard(s.svc, farm.WithLogger(a.log)).Overview(ctx, a.now())
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), o)
				}

				out := cmd.OutOrStdout()
				if len(o.Unavailable) > 0 {
					fmt.Fprintf(out, "Unavailable: %s\n\n", strings.Join(o.Unavailable, ", "))
				}
				printDetail(out,
					[]string{"Crops", "Active crops", "Ready crops", "Tasks", "Pending tasks", "Overdue tasks", "Income", "Expenses", "Net"},
					[]string{
						strconv.Itoa(o.TotalCrops),
						strconv.Itoa(o.ActiveCrops),
						strconv.Itoa(o.ReadyCrops),
						strconv.Itoa(o.TotalTasks),
						strconv.Itoa(o.PendingTasks),
						strconv.Itoa(o.OverdueTasks),
						o.Totals.Income.StringFixed(2),
						o.Totals.Expenses.StringFixed(2),
						o.Totals.Net.StringFixed(2),
					})

				fmt.Fprintln(out)
				fmt.Fprintln(out, "Recent activity")
				if len(o.RecentActivity) == 0 {
					fmt.Fprintln(out, "No recent activity.")
				}
				for _, act := range o.RecentActivity {
					fmt.Fprintf(out, "  %s  %s\n", orDash(act.Date), act.Title)
				}

				fmt.Fprintln(out)
				fmt.Fprintln(out, "Upcoming tasks")
				rows := make([][]string, len(o.UpcomingTasks))
				for i, t := range o.UpcomingTasks {
					rows[i] = []string{strconv.FormatInt(t.ID, 10), truncate(t.Title, 40), t.DueDate, t.Priority}
				}
				printTable(out, []string{"ID", "TITLE", "DUE", "PRIORITY"}, rows, "upcoming tasks")

				fmt.Fprintln(out)
				if o.Weather == nil {
					fmt.Fprintln(out, "No weather data available.")
					return nil
				}
				fmt.Fprintln(out, "Weather")
				return a.printWeather(out, o.Weather)
			})
		},
	}
}
