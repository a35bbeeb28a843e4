// Package kv defines the persisted key-value store contract and
// provides in-memory and file-backed implementations.
package kv

// Store is the persistence collaborator: string keys to string values.
// Get reports absence through its second return value; Set and Remove
// never fail for domain reasons.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}
