package storage

import "errors"

var (
	ErrStoreUnavailable       = errors.New("vector store unreachable")
	ErrCollectionCreateFailed = errors.New("collection create failed")
	ErrUpsertFailed           = errors.New("point upsert failed")
	ErrSearchFailed           = errors.New("collection search failed")
	ErrDimensionMismatch      = errors.New("embedding dimension mismatch")
)
