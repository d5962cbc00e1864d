// Package gateway adapts a generic RecordStore table to one application
// entity. A Gateway translates names and values through a FieldMap and
// normalizes every store outcome into a *types.Error with a message that
// can be shown to a user as is.
package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/farmbook/pkg/types"
)

// Config binds a gateway to one table and one entity.
type Config[T any] struct {
	Table  string          // store table, e.g. "crop_c"
	Entity string          // singular display name, e.g. "crop"
	Plural string          // plural display name, e.g. "crops"
	Fields FieldMap[T]     // column mapping
	ID     func(*T) *int64 // identity accessor; nil for entities without one
}

// Filter restricts a List call. Field is an application name.
type Filter struct {
	Field    string
	Operator string // one of the types.Op constants; empty means EqualTo
	Values   []any
}

// Sort orders a List call by an application name.
type Sort struct {
	Field string
	Desc  bool
}

// ListOptions are the optional filter, sort and page of a List call.
type ListOptions struct {
	Where   []Filter
	OrderBy []Sort
	Limit   int
	Offset  int
}

// Gateway is the CRUD adapter for one entity.
type Gateway[T any] struct {
	store types.RecordStore
	cfg   Config[T]
	log   *zap.Logger
}

// New creates a gateway over store. A nil logger discards output.
func New[T any](store types.RecordStore, cfg Config[T], log *zap.Logger) *Gateway[T] {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Plural == "" {
		cfg.Plural = cfg.Entity + "s"
	}
	return &Gateway[T]{
		store: store,
		cfg:   cfg,
		log:   log.With(zap.String("table", cfg.Table)),
	}
}

// Table returns the store table the gateway is bound to.
func (g *Gateway[T]) Table() string { return g.cfg.Table }

// Fields returns the gateway's field map.
func (g *Gateway[T]) Fields() FieldMap[T] { return g.cfg.Fields }

// List fetches entities matching opts. A successful fetch with no rows
// returns an empty, non-nil slice.
func (g *Gateway[T]) List(ctx context.Context, opts ListOptions) ([]T, error) {
	const op = "fetch"
	log := g.callLogger(op)
	failMsg := "Failed to fetch " + g.cfg.Plural

	params, err := g.fetchParams(opts)
	if err != nil {
		return nil, err
	}
	log.Debug("fetching records",
		zap.Int("conditions", len(params.Where)),
		zap.Int("limit", params.Paging.Limit))

	resp, err := g.store.FetchRecords(ctx, g.cfg.Table, params)
	if err != nil {
		log.Error("fetch call failed", zap.Error(err))
		return nil, types.NewError(types.ErrNetwork, op, g.cfg.Table, failMsg, err)
	}
	if resp == nil || !resp.Success {
		msg := responseMessage(resp, failMsg)
		log.Error("store rejected fetch", zap.String("message", msg))
		return nil, types.NewError(types.ErrRemoteFailure, op, g.cfg.Table, msg, nil)
	}

	out := make([]T, 0, len(resp.Data))
	for _, rec := range resp.Data {
		out = append(out, g.decode(rec))
	}
	log.Debug("fetched records", zap.Int("rows", len(out)))
	return out, nil
}

// GetByID fetches one entity. A missing row or a store failure is reported
// as ErrNotFound.
func (g *Gateway[T]) GetByID(ctx context.Context, id int64) (*T, error) {
	const op = "get"
	log := g.callLogger(op).With(zap.Int64("id", id))
	notFound := g.titleEntity() + " not found"

	if err := g.checkID(op, id); err != nil {
		return nil, err
	}

	resp, err := g.store.GetRecordByID(ctx, g.cfg.Table, id, types.FetchParams{Fields: g.cfg.Fields.Columns()})
	if err != nil {
		log.Error("get call failed", zap.Error(err))
		return nil, types.NewError(types.ErrNetwork, op, g.cfg.Table, "Failed to fetch "+g.cfg.Entity, err)
	}
	if resp == nil || !resp.Success {
		log.Warn("store rejected get", zap.String("message", responseMessage(resp, "")))
		return nil, types.NewError(types.ErrNotFound, op, g.cfg.Table, notFound, nil)
	}
	if len(resp.Data) == 0 || resp.Data[0] == nil {
		return nil, types.NewError(types.ErrNotFound, op, g.cfg.Table, notFound, nil)
	}

	e := g.decode(resp.Data[0])
	return &e, nil
}

// Create submits one entity and returns it as the store saved it.
func (g *Gateway[T]) Create(ctx context.Context, e *T) (*T, error) {
	const op = "create"
	log := g.callLogger(op)

	rec := g.cfg.Fields.ToRecord(e)
	resp, err := g.store.CreateRecord(ctx, g.cfg.Table, types.WriteParams{Records: []types.Record{rec}})
	return g.writeOutcome(op, log, resp, err)
}

// Update replaces every mapped field of the entity identified by id.
// Fields left at their zero value are written as such.
func (g *Gateway[T]) Update(ctx context.Context, id int64, e *T) (*T, error) {
	const op = "update"
	log := g.callLogger(op).With(zap.Int64("id", id))

	if err := g.checkID(op, id); err != nil {
		return nil, err
	}

	rec := g.cfg.Fields.ToRecord(e)
	rec[types.IDField] = id
	resp, err := g.store.UpdateRecord(ctx, g.cfg.Table, types.WriteParams{Records: []types.Record{rec}})
	return g.writeOutcome(op, log, resp, err)
}

// Delete removes the entity identified by id. It reports whether any row
// was deleted; row failures are logged and only returned when no row
// succeeded.
func (g *Gateway[T]) Delete(ctx context.Context, id int64) (bool, error) {
	const op = "delete"
	log := g.callLogger(op).With(zap.Int64("id", id))
	failMsg := "Failed to delete " + g.cfg.Entity

	if err := g.checkID(op, id); err != nil {
		return false, err
	}

	resp, err := g.store.DeleteRecord(ctx, g.cfg.Table, types.DeleteParams{RecordIDs: []int64{id}})
	if err != nil {
		log.Error("delete call failed", zap.Error(err))
		return false, types.NewError(types.ErrNetwork, op, g.cfg.Table, failMsg, err)
	}
	if resp == nil || !resp.Success {
		msg := responseMessage(resp, failMsg)
		log.Error("store rejected delete", zap.String("message", msg))
		return false, types.NewError(types.ErrRemoteFailure, op, g.cfg.Table, msg, nil)
	}
	if len(resp.Results) == 0 {
		return false, nil
	}

	succeeded, failed := partition(resp.Results)
	for _, r := range failed {
		log.Warn("row delete failed", zap.String("message", rowMessage(r)))
	}
	if len(succeeded) == 0 {
		msg := rowMessage(failed[0])
		if msg == "" {
			msg = failMsg
		}
		return false, types.NewError(types.ErrRemoteFailure, op, g.cfg.Table, msg, nil)
	}
	return true, nil
}

// writeOutcome applies the create/update contract: a store failure or any
// failed row is an error carrying the first failure's messages; otherwise
// the first successful row is returned.
func (g *Gateway[T]) writeOutcome(op string, log *zap.Logger, resp *types.Response, callErr error) (*T, error) {
	failMsg := fmt.Sprintf("Failed to %s %s", op, g.cfg.Entity)

	if callErr != nil {
		log.Error(op+" call failed", zap.Error(callErr))
		return nil, types.NewError(types.ErrNetwork, op, g.cfg.Table, failMsg, callErr)
	}
	if resp == nil || !resp.Success {
		msg := responseMessage(resp, failMsg)
		log.Error("store rejected "+op, zap.String("message", msg))
		return nil, types.NewError(types.ErrRemoteFailure, op, g.cfg.Table, msg, nil)
	}

	succeeded, failed := partition(resp.Results)
	if len(failed) > 0 {
		log.Error("row "+op+" failed",
			zap.Int("failed", len(failed)),
			zap.Int("succeeded", len(succeeded)),
			zap.String("message", rowMessage(failed[0])))
		msg := rowMessage(failed[0])
		if msg == "" {
			msg = failMsg
		}
		return nil, types.NewError(types.ErrRemoteFailure, op, g.cfg.Table, msg, nil)
	}
	if len(succeeded) == 0 {
		log.Error("store returned no rows for " + op)
		return nil, types.NewError(types.ErrRemoteFailure, op, g.cfg.Table, failMsg, nil)
	}

	e := g.decode(succeeded[0].Data)
	return &e, nil
}

func (g *Gateway[T]) fetchParams(opts ListOptions) (types.FetchParams, error) {
	params := types.FetchParams{
		Fields: g.cfg.Fields.Columns(),
		Paging: types.Paging{Limit: opts.Limit, Offset: opts.Offset},
	}
	for _, f := range opts.Where {
		col, ok := g.cfg.Fields.Column(f.Field)
		if !ok {
			return params, g.unknownField(f.Field)
		}
		operator := f.Operator
		if operator == "" {
			operator = types.OpEqualTo
		}
		params.Where = append(params.Where, types.Condition{FieldName: col, Operator: operator, Values: f.Values})
	}
	for _, s := range opts.OrderBy {
		col, ok := g.cfg.Fields.Column(s.Field)
		if !ok {
			return params, g.unknownField(s.Field)
		}
		dir := types.SortAsc
		if s.Desc {
			dir = types.SortDesc
		}
		params.OrderBy = append(params.OrderBy, types.OrderBy{FieldName: col, SortType: dir})
	}
	return params, nil
}

func (g *Gateway[T]) decode(rec types.Record) T {
	var e T
	if rec == nil {
		return e
	}
	g.cfg.Fields.FromRecord(rec, &e)
	if g.cfg.ID != nil {
		*g.cfg.ID(&e) = rec.ID()
	}
	return e
}

func (g *Gateway[T]) checkID(op string, id int64) error {
	if id <= 0 {
		return &types.Error{
			Op:      op,
			Table:   g.cfg.Table,
			Message: fmt.Sprintf("Invalid %s id %d", g.cfg.Entity, id),
			Err:     types.ErrValidation,
		}
	}
	return nil
}

func (g *Gateway[T]) unknownField(name string) error {
	return &types.Error{
		Op:      "fetch",
		Table:   g.cfg.Table,
		Message: fmt.Sprintf("Unknown %s field %q", g.cfg.Entity, name),
		Err:     types.ErrValidation,
	}
}

func (g *Gateway[T]) titleEntity() string {
	if g.cfg.Entity == "" {
		return "Record"
	}
	return strings.ToUpper(g.cfg.Entity[:1]) + g.cfg.Entity[1:]
}

func (g *Gateway[T]) callLogger(op string) *zap.Logger {
	return g.log.With(zap.String("op", op), zap.String("call_id", newCallID()))
}

// newCallID generates a UUID v7 to correlate the log lines of one call.
func newCallID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

func partition(results []types.RowResult) (succeeded, failed []types.RowResult) {
	for _, r := range results {
		if r.Success {
			succeeded = append(succeeded, r)
		} else {
			failed = append(failed, r)
		}
	}
	return succeeded, failed
}

// rowMessage joins a failed row's field errors and its own message.
func rowMessage(r types.RowResult) string {
	parts := make([]string, 0, len(r.Errors)+1)
	for _, fe := range r.Errors {
		parts = append(parts, fe.String())
	}
	if r.Message != "" {
		parts = append(parts, r.Message)
	}
	return strings.Join(parts, ", ")
}

func responseMessage(resp *types.Response, fallback string) string {
	if resp != nil && resp.Message != "" {
		return resp.Message
	}
	return fallback
}
