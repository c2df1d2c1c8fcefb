// Package storage delegates report binaries to an object store. The
// service layer only sees the ObjectStore interface; S3 is the production
// implementation.
package storage

import (
	"context"
	"fmt"
	"path"

	"github.com/google/uuid"
)

type ObjectStore interface {
	// Upload writes the object and returns its public URL.
	Upload(ctx context.Context, key, contentType string, body []byte) (string, error)

	// Download fetches the object bytes and content type.
	Download(ctx context.Context, key string) ([]byte, string, error)

	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
}

// ObjectKey builds the per-user key for an uploaded report file, e.g.
// "healthmate/<userID>/<random>.pdf". The random component keeps
// same-named uploads from colliding.
func ObjectKey(prefix string, userID uuid.UUID, fileName string) string {
	return fmt.Sprintf("%s/%s/%s%s", prefix, userID, uuid.New(), path.Ext(fileName))
}
