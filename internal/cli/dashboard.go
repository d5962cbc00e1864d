package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/farmbook/internal/farm"
)

func (a *app) dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Summarize crops, tasks, finances and today's weather",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(ctx context.Context, s *session) error {
				sum, err := farm.NewDashboard(s.svc, farm.WithLogger(a.log)).Summary(ctx, a.now())
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), sum)
				}

				out := cmd.OutOrStdout()
				printDetail(out,
					[]string{"Active crops", "Pending tasks", "Overdue tasks", "Income", "Expenses", "Net"},
					[]string{
						strconv.Itoa(sum.ActiveCrops),
						strconv.Itoa(sum.PendingTasks),
						strconv.Itoa(sum.OverdueTasks),
						sum.Totals.Income.StringFixed(2),
						sum.Totals.Expenses.StringFixed(2),
						sum.Totals.Net.StringFixed(2),
					})

				fmt.Fprintln(out)
				fmt.Fprintln(out, "Upcoming tasks")
				rows := make([][]string, len(sum.UpcomingTasks))
				for i, t := range sum.UpcomingTasks {
					rows[i] = []string{strconv.FormatInt(t.ID, 10), truncate(t.Title, 40), t.DueDate, t.Priority}
				}
				printTable(out, []string{"ID", "TITLE", "DUE", "PRIORITY"}, rows, "upcoming tasks")

				fmt.Fprintln(out)
				if sum.TodayWeather == nil {
					fmt.Fprintln(out, "No weather data available.")
					return nil
				}
				fmt.Fprintln(out, "Weather")
				return a.printWeather(out, sum.TodayWeather)
			})
		},
	}
}
