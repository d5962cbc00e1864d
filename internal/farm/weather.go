package farm

import (
	"context"
	"errors"
	"time"

	"github.com/mesh-intelligence/farmbook/internal/gateway"
	"github.com/mesh-intelligence/farmbook/pkg/types"
)

// ForecastDays is the number of days GetForecast returns.
const ForecastDays = 7

// WeatherFields maps weather_c.
var WeatherFields = gateway.FieldMap[types.Weather]{
	gateway.Date("date_c", "date", func(w *types.Weather) *string { return &w.Date }),
	gateway.Float("high_temperature_c", "temperatureHigh", func(w *types.Weather) *float64 { return &w.Temperature.High }),
	gateway.Float("low_temperature_c", "temperatureLow", func(w *types.Weather) *float64 { return &w.Temperature.Low }),
	gateway.String("condition_c", "condition", func(w *types.Weather) *string { return &w.Condition }),
	gateway.Float("humidity_c", "humidity", func(w *types.Weather) *float64 { return &w.Humidity }),
	gateway.Float("precipitation_c", "precipitation", func(w *types.Weather) *float64 { return &w.Precipitation }),
}

const weatherNotFound = "Weather data not found for this date"

// WeatherService reads forecast data. Weather rows are written by an
// external feed, never by the application.
type WeatherService struct {
	gw    *gateway.Gateway[types.Weather]
	clock func() time.Time
}

// NewWeatherService creates a weather service over store.
func NewWeatherService(store types.RecordStore, opts ...Option) *WeatherService {
	o := buildOptions(opts)
	return &WeatherService{
		gw: gateway.New(store, gateway.Config[types.Weather]{
			Table:  types.TableWeather,
			Entity: "weather",
			Plural: "weather forecast",
			Fields: WeatherFields,
		}, o.log),
		clock: o.clock,
	}
}

// GetForecast returns up to ForecastDays entries in date order.
func (s *WeatherService) GetForecast(ctx context.Context) ([]types.Weather, error) {
	return s.gw.List(ctx, gateway.ListOptions{
		OrderBy: []gateway.Sort{{Field: "date"}},
		Limit:   ForecastDays,
	})
}

// GetCurrentWeather returns today's entry, or the first forecast entry when
// today has none. It returns ErrNotFound only when the forecast is empty.
func (s *WeatherService) GetCurrentWeather(ctx context.Context) (*types.Weather, error) {
	w, err := s.byDate(ctx, types.Today(s.clock().UTC()))
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, types.ErrNotFound) {
		return nil, err
	}

	forecast, err := s.GetForecast(ctx)
	if err != nil {
		return nil, err
	}
	if len(forecast) == 0 {
		return nil, types.NewError(types.ErrNotFound, "fetch", types.TableWeather, "No weather data available", nil)
	}
	return &forecast[0], nil
}

// GetWeatherByDate returns the entry for date, given as YYYY-MM-DD or
// RFC 3339.
func (s *WeatherService) GetWeatherByDate(ctx context.Context, date string) (*types.Weather, error) {
	day, err := types.NormalizeDate(date)
	if err != nil {
		return nil, types.Validationf("Invalid date %q", date)
	}
	return s.byDate(ctx, day)
}

func (s *WeatherService) byDate(ctx context.Context, day string) (*types.Weather, error) {
	rows, err := s.gw.List(ctx, gateway.ListOptions{
		Where: []gateway.Filter{{Field: "date", Operator: types.OpEqualTo, Values: []any{day}}},
		Limit: 1,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, types.NewError(types.ErrNotFound, "fetch", types.TableWeather, weatherNotFound, nil)
	}
	return &rows[0], nil
}
