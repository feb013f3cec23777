package objectstore

import "context"

// Object is a stored blob plus the metadata recorded at upload time.
type Object struct {
	Data        []byte
	ContentType string
	Filename    string
	OwnerID     string
	Size        int64
}

// ObjectClient abstracts the blob store so services and tests do not depend
// on the AWS SDK.
type ObjectClient interface {
	// Upload stores the blob under key and returns its public URL.
	Upload(ctx context.Context, key string, data []byte, contentType string, meta map[string]string) (string, error)
	// Download fetches the blob and its recorded metadata.
	Download(ctx context.Context, key string) (Object, error)
	Delete(ctx context.Context, key string) error
	// Ping verifies the backing bucket is reachable.
	Ping(ctx context.Context) error
}
