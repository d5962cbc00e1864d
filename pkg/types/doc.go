// Package types defines the farmbook entities, the RecordStore contract
// that every storage backend implements, and the error taxonomy shared by
// the gateway, the services and the CLI.
package types
