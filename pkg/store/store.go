package store

import "context"

// Document is a schemaless record as the store hands it back. Fields may
// be missing or carry unexpected types; callers convert to typed records
// at their own boundary.
type Document map[string]interface{}

// Query selects documents from a collection. All clauses combine with
// logical AND; the substring search matches when any of SearchFields
// contains Search, compared case-insensitively with no anchoring.
type Query struct {
	// Equals holds exact field matches.
	Equals map[string]string
	// Search is a free-text needle. Empty means no search clause.
	Search string
	// SearchFields are the fields Search applies to, combined with OR.
	SearchFields []string
	// Limit caps the number of returned documents. Zero or negative
	// means DefaultLimit.
	Limit int64
}

// DefaultLimit bounds a Find when the query does not set one.
const DefaultLimit = 50

// Store is a schemaless document store addressed by collection name.
type Store interface {
	// Insert persists a document and returns its generated identifier.
	Insert(ctx context.Context, collection string, doc Document) (string, error)
	// Find returns documents matching the query in the store's natural
	// order, at most Limit of them.
	Find(ctx context.Context, collection string, q Query) ([]Document, error)
	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
	// Collections lists the collection names currently present.
	Collections(ctx context.Context) ([]string, error)
	// Name returns the backing database name.
	Name() string
	Close(ctx context.Context) error
}

func (q Query) limit() int64 {
	if q.Limit <= 0 {
		return DefaultLimit
	}
	return q.Limit
}
