package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/farmbook/pkg/types"
)

func (a *app) weatherCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weather",
		Short: "Read forecast data",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "forecast",
			Short: "Show the upcoming forecast in date order",
			Args:  exactArgs(0),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withSession(cmd, func(ctx context.Context, s *session) error {
					forecast, err := s.svc.Weather.GetForecast(ctx)
					if err != nil {
						return err
					}
					if a.flags.jsonMode {
						return printJSON(cmd.OutOrStdout(), forecast)
					}
					rows := make([][]string, len(forecast))
					for i, w := range forecast {
						rows[i] = weatherRow(w)
					}
					printTable(cmd.OutOrStdout(), weatherColumns, rows, "forecast days")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "current",
			Short: "Show today's weather, or the nearest forecast day",
			Args:  exactArgs(0),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withSession(cmd, func(ctx context.Context, s *session) error {
					w, err := s.svc.Weather.GetCurrentWeather(ctx)
					if err != nil {
						return err
					}
					return a.printWeather(cmd.OutOrStdout(), w)
				})
			},
		},
		&cobra.Command{
			Use:   "date <date>",
			Short: "Show the weather for one date",
			Args:  exactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withSession(cmd, func(ctx context.Context, s *session) error {
					w, err := s.svc.Weather.GetWeatherByDate(ctx, args[0])
					if err != nil {
						return err
					}
					return a.printWeather(cmd.OutOrStdout(), w)
				})
			},
		},
	)
	return cmd
}

var weatherColumns = []string{"DATE", "CONDITION", "HIGH", "LOW", "HUMIDITY", "PRECIP"}

func weatherRow(w types.Weather) []string {
	return []string{
		w.Date,
		orDash(w.Condition),
		formatFloat(w.Temperature.High),
		formatFloat(w.Temperature.Low),
		formatFloat(w.Humidity) + "%",
		formatFloat(w.Precipitation) + "%",
	}
}

func (a *app) printWeather(out io.Writer, w *types.Weather) error {
	if a.flags.jsonMode {
		return printJSON(out, w)
	}
	printDetail(out,
		[]string{"Date", "Condition", "High", "Low", "Humidity", "Precipitation"},
		[]string{
			w.Date,
			orDash(w.Condition),
			fmt.Sprintf("%s°", formatFloat(w.Temperature.High)),
			fmt.Sprintf("%s°", formatFloat(w.Temperature.Low)),
			formatFloat(w.Humidity) + "%",
			formatFloat(w.Precipitation) + "%",
		})
	return nil
}
