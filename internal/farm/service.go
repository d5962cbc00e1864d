// Package farm provides the entity services of the farm data layer: one
// gateway-backed service per table, the client-side query helpers and the
// dashboard summary.
package farm

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/farmbook/internal/gateway"
	"github.com/mesh-intelligence/farmbook/pkg/types"
)

// DefaultListLimit caps GetAll.
const DefaultListLimit = 100

// Services bundles the entity services over one record store.
type Services struct {
	Farms      *FarmService
	Crops      *CropService
	Tasks      *TaskService
	Financials *FinancialService
	Weather    *WeatherService
}

// Option configures the services.
type Option func(*options)

type options struct {
	log   *zap.Logger
	clock func() time.Time
}

// WithLogger sets the logger handed to every gateway.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithClock replaces time.Now for date defaults and today's weather.
func WithClock(clock func() time.Time) Option {
	return func(o *options) { o.clock = clock }
}

func buildOptions(opts []Option) options {
	o := options{log: zap.NewNop(), clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	return o
}

// NewServices creates every entity service over store.
func NewServices(store types.RecordStore, opts ...Option) *Services {
	return &Services{
		Farms:      NewFarmService(store, opts...),
		Crops:      NewCropService(store, opts...),
		Tasks:      NewTaskService(store, opts...),
		Financials: NewFinancialService(store, opts...),
		Weather:    NewWeatherService(store, opts...),
	}
}

// crud is the common service surface over one gateway. Writes validate
// the entity before any store call.
type crud[T any] struct {
	gw       *gateway.Gateway[T]
	validate func(*T) error
}

// GetAll returns up to DefaultListLimit entities, newest first.
func (s *crud[T]) GetAll(ctx context.Context) ([]T, error) {
	return s.gw.List(ctx, gateway.ListOptions{
		OrderBy: []gateway.Sort{{Field: types.IDField, Desc: true}},
		Limit:   DefaultListLimit,
	})
}

// List fetches entities with caller-supplied filter, sort and paging.
func (s *crud[T]) List(ctx context.Context, opts gateway.ListOptions) ([]T, error) {
	return s.gw.List(ctx, opts)
}

// GetByID fetches one entity.
func (s *crud[T]) GetByID(ctx context.Context, id int64) (*T, error) {
	return s.gw.GetByID(ctx, id)
}

// Create validates and submits a new entity.
func (s *crud[T]) Create(ctx context.Context, e *T) (*T, error) {
	if err := s.validate(e); err != nil {
		return nil, err
	}
	return s.gw.Create(ctx, e)
}

// Update validates and replaces the entity identified by id.
func (s *crud[T]) Update(ctx context.Context, id int64, e *T) (*T, error) {
	if err := s.validate(e); err != nil {
		return nil, err
	}
	return s.gw.Update(ctx, id, e)
}

// Delete removes the entity identified by id.
func (s *crud[T]) Delete(ctx context.Context, id int64) (bool, error) {
	return s.gw.Delete(ctx, id)
}

// Gateway exposes the underlying gateway.
func (s *crud[T]) Gateway() *gateway.Gateway[T] {
	return s.gw
}
