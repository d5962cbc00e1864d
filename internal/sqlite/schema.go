package sqlite

// Every store table shares one SQLite table. Field values live in a JSON
// object so any column set can be stored; filters and sorts reach into it
// with json_extract.
const (
	createRecords = `CREATE TABLE records (
    table_name TEXT NOT NULL,
    record_id INTEGER NOT NULL,
    fields TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    PRIMARY KEY (table_name, record_id)
);`

	createSequences = `CREATE TABLE sequences (
    table_name TEXT PRIMARY KEY,
    next_id INTEGER NOT NULL
);`
)

const (
	idxRecordsTable = `CREATE INDEX idx_records_table ON records(table_name);`
)

var schemaDDL = []string{
	createRecords,
	createSequences,
}

var indexDDL = []string{
	idxRecordsTable,
}
