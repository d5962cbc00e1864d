package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/farmbook/pkg/types"
)

// FetchRecords returns the matching rows of tableName.
func (b *Backend) FetchRecords(ctx context.Context, tableName string, params types.FetchParams) (*types.Response, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, ErrDetached
	}

	where, args, err := whereClause(tableName, params.Where)
	if err != nil {
		return types.Failure(err.Error()), nil
	}

	var total int
	if err := b.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records WHERE "+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting %s: %w", tableName, err)
	}

	order, orderArgs := orderClause(params.OrderBy)
	limit, limitArgs := limitClause(params.Paging)
	query := "SELECT record_id, fields FROM records WHERE " + where + order + limit
	args = append(append(args, orderArgs...), limitArgs...)

	recs, err := b.queryRecords(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", tableName, err)
	}
	for i, rec := range recs {
		recs[i] = project(rec, params.Fields)
	}
	return &types.Response{Success: true, Data: recs, Total: total}, nil
}

// GetRecordByID returns the row with id or a failed response.
func (b *Backend) GetRecordByID(ctx context.Context, tableName string, id int64, params types.FetchParams) (*types.Response, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, ErrDetached
	}

	rec, err := b.getRecord(ctx, tableName, id)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Failure("Record not found"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s %d: %w", tableName, id, err)
	}
	return &types.Response{Success: true, Data: []types.Record{project(rec, params.Fields)}, Total: 1}, nil
}

// CreateRecord inserts each record under the table's next id and rewrites
// the table's JSONL file.
func (b *Backend) CreateRecord(ctx context.Context, tableName string, params types.WriteParams) (*types.Response, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return nil, ErrDetached
	}

	results := make([]types.RowResult, len(params.Records))
	err := b.write(ctx, tableName, func(tx *sql.Tx) error {
		next, err := nextID(ctx, tx, tableName)
		if err != nil {
			return err
		}
		now := b.timestamp()
		for i, in := range params.Records {
			fields, err := encodeFields(in)
			if err != nil {
				results[i] = types.RowResult{Message: err.Error()}
				continue
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO records
				(table_name, record_id, fields, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
				tableName, next, fields, now, now); err != nil {
				return err
			}
			results[i] = types.RowResult{Success: true, Data: withID(in, next)}
			next++
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO sequences (table_name, next_id) VALUES (?, ?)
			ON CONFLICT(table_name) DO UPDATE SET next_id = excluded.next_id`, tableName, next)
		return err
	})
	if err == nil {
		err = b.persistSequences(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("creating in %s: %w", tableName, err)
	}
	return &types.Response{Success: true, Results: results}, nil
}

// UpdateRecord replaces the fields of each identified row.
func (b *Backend) UpdateRecord(ctx context.Context, tableName string, params types.WriteParams) (*types.Response, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return nil, ErrDetached
	}

	results := make([]types.RowResult, len(params.Records))
	err := b.write(ctx, tableName, func(tx *sql.Tx) error {
		now := b.timestamp()
		for i, in := range params.Records {
			id := in.ID()
			fields, err := encodeFields(in)
			if err != nil {
				results[i] = types.RowResult{Message: err.Error()}
				continue
			}
			res, err := tx.ExecContext(ctx, `UPDATE records SET fields = ?, updated_at = ?
				WHERE table_name = ? AND record_id = ?`, fields, now, tableName, id)
			if err != nil {
				return err
			}
			if n, _ := res.RowsAffected(); n == 0 {
				results[i] = types.RowResult{Message: "Record not found"}
				continue
			}
			results[i] = types.RowResult{Success: true, Data: withID(in, id)}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("updating in %s: %w", tableName, err)
	}
	return &types.Response{Success: true, Results: results}, nil
}

// DeleteRecord removes each identified row.
func (b *Backend) DeleteRecord(ctx context.Context, tableName string, params types.DeleteParams) (*types.Response, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return nil, ErrDetached
	}

	results := make([]types.RowResult, len(params.RecordIDs))
	err := b.write(ctx, tableName, func(tx *sql.Tx) error {
		for i, id := range params.RecordIDs {
			res, err := tx.ExecContext(ctx, `DELETE FROM records WHERE table_name = ? AND record_id = ?`, tableName, id)
			if err != nil {
				return err
			}
			if n, _ := res.RowsAffected(); n == 0 {
				results[i] = types.RowResult{Message: "Record not found"}
				continue
			}
			results[i] = types.RowResult{Success: true, Data: types.Record{types.IDField: id}}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("deleting in %s: %w", tableName, err)
	}
	return &types.Response{Success: true, Results: results}, nil
}

// write runs fn in a transaction and, once committed, rewrites the
// table's JSONL file from the database. The caller must hold b.mu.
func (b *Backend) write(ctx context.Context, tableName string, fn func(*sql.Tx) error) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	return b.persistTable(ctx, tableName)
}

// persistTable writes every row of tableName to its JSONL file.
func (b *Backend) persistTable(ctx context.Context, tableName string) error {
	rs, err := b.db.QueryContext(ctx, `SELECT record_id, fields, created_at, updated_at
		FROM records WHERE table_name = ? ORDER BY record_id`, tableName)
	if err != nil {
		return err
	}
	defer rs.Close()

	var rows []row
	for rs.Next() {
		var r row
		var fields string
		if err := rs.Scan(&r.ID, &fields, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(fields), &r.Fields); err != nil {
			return fmt.Errorf("decoding row %d: %w", r.ID, err)
		}
		rows = append(rows, r)
	}
	if err := rs.Err(); err != nil {
		return err
	}
	return writeJSONL(jsonlPath(b.config.DataDir, tableName), rows)
}

// persistSequences writes every table's next id to the sequences file.
func (b *Backend) persistSequences(ctx context.Context) error {
	rs, err := b.db.QueryContext(ctx, `SELECT table_name, next_id FROM sequences`)
	if err != nil {
		return err
	}
	defer rs.Close()

	seq := map[string]int64{}
	for rs.Next() {
		var name string
		var next int64
		if err := rs.Scan(&name, &next); err != nil {
			return err
		}
		seq[name] = next
	}
	if err := rs.Err(); err != nil {
		return err
	}
	return writeSequences(b.config.DataDir, seq)
}

func (b *Backend) getRecord(ctx context.Context, tableName string, id int64) (types.Record, error) {
	var fields string
	err := b.db.QueryRowContext(ctx, `SELECT fields FROM records WHERE table_name = ? AND record_id = ?`,
		tableName, id).Scan(&fields)
	if err != nil {
		return nil, err
	}
	return decodeFields(id, fields)
}

func (b *Backend) queryRecords(ctx context.Context, query string, args ...any) ([]types.Record, error) {
	rs, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	recs := []types.Record{}
	for rs.Next() {
		var id int64
		var fields string
		if err := rs.Scan(&id, &fields); err != nil {
			return nil, err
		}
		rec, err := decodeFields(id, fields)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rs.Err()
}

func nextID(ctx context.Context, tx *sql.Tx, tableName string) (int64, error) {
	var next int64
	err := tx.QueryRowContext(ctx, `SELECT next_id FROM sequences WHERE table_name = ?`, tableName).Scan(&next)
	if errors.Is(err, sql.ErrNoRows) {
		return 1, nil
	}
	return next, err
}

// encodeFields serializes a record without its identity.
func encodeFields(rec types.Record) (string, error) {
	fields := make(types.Record, len(rec))
	for k, v := range rec {
		if k != types.IDField {
			fields[k] = v
		}
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("invalid field value: %w", err)
	}
	return string(data), nil
}

func decodeFields(id int64, fields string) (types.Record, error) {
	rec := types.Record{}
	if err := json.Unmarshal([]byte(fields), &rec); err != nil {
		return nil, fmt.Errorf("decoding row %d: %w", id, err)
	}
	rec[types.IDField] = id
	return rec, nil
}

func withID(in types.Record, id int64) types.Record {
	out := in.Clone()
	out[types.IDField] = id
	return out
}
