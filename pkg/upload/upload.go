package upload

import "context"

// ObjectWriter writes a serialized report to remote object storage.
type ObjectWriter interface {
	// Put writes data under bucket/key with the given content type.
	Put(ctx context.Context, bucket, key string, data []byte, contentType string) error
}
