package object

import (
	"context"
	"io"
)

// ObjectStore defines the contract for saving and retrieving audit objects
// (raw LLM transcripts) under caller-chosen keys.
type ObjectStore interface {
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}
