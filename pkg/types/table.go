package types

import "context"

// RecordStore provides the generic record operations of a hosted table
// store. Every operation addresses one named table and reports the outcome
// in a Response; a non-nil error means the call itself did not complete
// (transport failure, cancelled context), not that the store refused it.
type RecordStore interface {
	// FetchRecords returns the rows of table matching params.Where, ordered
	// by params.OrderBy and windowed by params.Paging.
	FetchRecords(ctx context.Context, table string, params FetchParams) (*Response, error)

	// GetRecordByID returns at most one row in Response.Data.
	GetRecordByID(ctx context.Context, table string, id int64, params FetchParams) (*Response, error)

	// CreateRecord inserts params.Records and reports one RowResult per
	// record. The store assigns identities.
	CreateRecord(ctx context.Context, table string, params WriteParams) (*Response, error)

	// UpdateRecord replaces the rows identified by each record's Id.
	UpdateRecord(ctx context.Context, table string, params WriteParams) (*Response, error)

	// DeleteRecord removes params.RecordIDs and reports one RowResult per id.
	DeleteRecord(ctx context.Context, table string, params DeleteParams) (*Response, error)
}
