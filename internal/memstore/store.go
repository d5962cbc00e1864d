// Package memstore implements types.RecordStore in memory. It is the
// fallback store when no persistent backend is configured and the fake used
// by service tests. Identities are assigned per table starting at 1.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/mesh-intelligence/farmbook/pkg/types"
)

// Store is an in-memory record store. The zero value is not usable; call
// New.
type Store struct {
	mu       sync.Mutex
	tables   map[string]*table
	required map[string][]string
}

type table struct {
	nextID int64
	rows   map[int64]types.Record
}

// Option configures a Store.
type Option func(*Store)

// WithRequired makes columns mandatory on create and update for table.
// Rows missing a required column fail with a field error, the way a hosted
// store reports schema violations.
func WithRequired(tableName string, columns ...string) Option {
	return func(s *Store) {
		s.required[tableName] = append(s.required[tableName], columns...)
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		tables:   make(map[string]*table),
		required: make(map[string][]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) table(name string) *table {
	t, ok := s.tables[name]
	if !ok {
		t = &table{nextID: 1, rows: make(map[int64]types.Record)}
		s.tables[name] = t
	}
	return t
}

// FetchRecords returns matching rows of table.
func (s *Store) FetchRecords(ctx context.Context, tableName string, params types.FetchParams) (*types.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.table(tableName)
	rows := make([]types.Record, 0, len(t.rows))
	for _, rec := range t.rows {
		if Match(rec, params.Where) {
			rows = append(rows, rec)
		}
	}
	Sort(rows, params.OrderBy)
	total := len(rows)
	rows = Page(rows, params.Paging)

	data := make([]types.Record, len(rows))
	for i, rec := range rows {
		data[i] = Project(rec, params.Fields)
	}
	return &types.Response{Success: true, Data: data, Total: total}, nil
}

// GetRecordByID returns the row with id, or a failed response when there is
// none.
func (s *Store) GetRecordByID(ctx context.Context, tableName string, id int64, params types.FetchParams) (*types.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.table(tableName).rows[id]
	if !ok {
		return types.Failure("Record not found"), nil
	}
	return &types.Response{Success: true, Data: []types.Record{Project(rec, params.Fields)}, Total: 1}, nil
}

// CreateRecord inserts each record under a new identity. Any Id in the
// input is ignored.
func (s *Store) CreateRecord(ctx context.Context, tableName string, params types.WriteParams) (*types.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.table(tableName)
	results := make([]types.RowResult, len(params.Records))
	for i, in := range params.Records {
		if errs := s.missing(tableName, in); len(errs) > 0 {
			results[i] = types.RowResult{Message: "Validation failed", Errors: errs}
			continue
		}
		rec := in.Clone()
		rec[types.IDField] = t.nextID
		t.rows[t.nextID] = rec
		t.nextID++
		results[i] = types.RowResult{Success: true, Data: rec.Clone()}
	}
	return &types.Response{Success: true, Results: results}, nil
}

// UpdateRecord replaces each row identified by the record's Id.
func (s *Store) UpdateRecord(ctx context.Context, tableName string, params types.WriteParams) (*types.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.table(tableName)
	results := make([]types.RowResult, len(params.Records))
	for i, in := range params.Records {
		id := in.ID()
		if _, ok := t.rows[id]; !ok {
			results[i] = types.RowResult{Message: "Record not found"}
			continue
		}
		if errs := s.missing(tableName, in); len(errs) > 0 {
			results[i] = types.RowResult{Message: "Validation failed", Errors: errs}
			continue
		}
		rec := in.Clone()
		rec[types.IDField] = id
		t.rows[id] = rec
		results[i] = types.RowResult{Success: true, Data: rec.Clone()}
	}
	return &types.Response{Success: true, Results: results}, nil
}

// DeleteRecord removes each identified row.
func (s *Store) DeleteRecord(ctx context.Context, tableName string, params types.DeleteParams) (*types.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.table(tableName)
	results := make([]types.RowResult, len(params.RecordIDs))
	for i, id := range params.RecordIDs {
		if _, ok := t.rows[id]; !ok {
			results[i] = types.RowResult{Message: "Record not found"}
			continue
		}
		delete(t.rows, id)
		results[i] = types.RowResult{Success: true, Data: types.Record{types.IDField: id}}
	}
	return &types.Response{Success: true, Results: results}, nil
}

// Len returns the number of rows in table.
func (s *Store) Len(tableName string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.table(tableName).rows)
}

func (s *Store) missing(tableName string, rec types.Record) []types.FieldError {
	var errs []types.FieldError
	for _, col := range s.required[tableName] {
		v, ok := rec[col]
		if !ok || v == nil || v == "" {
			errs = append(errs, types.FieldError{FieldLabel: col, Message: "is required"})
		}
	}
	return errs
}

// Project copies rec keeping only fields plus Id. An empty field list keeps
// every column.
func Project(rec types.Record, fields []string) types.Record {
	if len(fields) == 0 {
		return rec.Clone()
	}
	out := make(types.Record, len(fields)+1)
	out[types.IDField] = rec[types.IDField]
	for _, f := range fields {
		if v, ok := rec[f]; ok {
			out[f] = v
		}
	}
	return out
}

// Page applies offset and limit to rows.
func Page(rows []types.Record, p types.Paging) []types.Record {
	if p.Offset > 0 {
		if p.Offset >= len(rows) {
			return rows[:0]
		}
		rows = rows[p.Offset:]
	}
	if p.Limit > 0 && p.Limit < len(rows) {
		rows = rows[:p.Limit]
	}
	return rows
}

// Sort orders rows by each key in turn, then by Id ascending so results
// are deterministic.
func Sort(rows []types.Record, order []types.OrderBy) {
	sort.SliceStable(rows, func(i, j int) bool {
		for _, o := range order {
			c := Compare(rows[i][o.FieldName], rows[j][o.FieldName])
			if c == 0 {
				continue
			}
			if o.SortType == types.SortDesc {
				return c > 0
			}
			return c < 0
		}
		return rows[i].ID() < rows[j].ID()
	})
}
