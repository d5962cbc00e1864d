package types

import "github.com/spf13/cast"

// IDField is the store column holding a record's identity.
const IDField = "Id"

// Record is one row in store shape, keyed by store column names.
type Record map[string]any

// ID returns the record identity, or 0 when the record has none.
func (r Record) ID() int64 {
	v, ok := r[IDField]
	if !ok || v == nil {
		return 0
	}
	id, err := cast.ToInt64E(v)
	if err != nil {
		return 0
	}
	return id
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Condition operators understood by every store.
const (
	OpEqualTo     = "EqualTo"
	OpNotEqualTo  = "NotEqualTo"
	OpContains    = "Contains"
	OpGreaterThan = "GreaterThan"
	OpLessThan    = "LessThan"
)

// Sort directions.
const (
	SortAsc  = "ASC"
	SortDesc = "DESC"
)

// Condition restricts a fetch to rows whose column matches any of Values.
type Condition struct {
	FieldName string `json:"FieldName"`
	Operator  string `json:"Operator"`
	Values    []any  `json:"Values"`
}

// OrderBy sorts a fetch by one column.
type OrderBy struct {
	FieldName string `json:"fieldName"`
	SortType  string `json:"sorttype"`
}

// Paging windows a fetch. A zero Limit means no limit.
type Paging struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// FetchParams describes a fetch or get-by-id call. Fields lists the columns
// to return; an empty list returns every column.
type FetchParams struct {
	Fields  []string    `json:"fields,omitempty"`
	Where   []Condition `json:"where,omitempty"`
	OrderBy []OrderBy   `json:"orderBy,omitempty"`
	Paging  Paging      `json:"pagingInfo"`
}

// WriteParams carries the records of a create or update call.
type WriteParams struct {
	Records []Record `json:"records"`
}

// DeleteParams carries the identities of a delete call.
type DeleteParams struct {
	RecordIDs []int64 `json:"RecordIds"`
}

// FieldError is a field-level validation failure reported for one row.
type FieldError struct {
	FieldLabel string `json:"fieldLabel"`
	Message    string `json:"message"`
}

// String renders the error the way it is shown to users.
func (e FieldError) String() string {
	if e.FieldLabel == "" {
		return e.Message
	}
	return e.FieldLabel + ": " + e.Message
}

// RowResult is the per-row outcome of a batch write or delete.
type RowResult struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
	Data    Record       `json:"data,omitempty"`
}

// Response is the envelope every store operation returns.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    []Record    `json:"data,omitempty"`
	Total   int         `json:"total,omitempty"`
	Results []RowResult `json:"results,omitempty"`
}

// Failure builds an unsuccessful Response.
func Failure(message string) *Response {
	return &Response{Success: false, Message: message}
}
