package photo

import (
	"context"
	"fmt"
)

// File is an uploaded image already read into memory and validated.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

func (f *File) Size() int64 {
	return int64(len(f.Data))
}

// Store keeps member photos outside the database.
type Store interface {
	// Upload stores the image and returns its public URL.
	Upload(ctx context.Context, file *File) (string, error)
	// Delete removes the image behind url and returns the provider's result string.
	Delete(ctx context.Context, url string) (string, error)
}

// DisabledStore rejects uploads. Used outside production when no credentials are configured.
type DisabledStore struct{}

func (DisabledStore) Upload(context.Context, *File) (string, error) {
	return "", fmt.Errorf("photo storage is not configured: %w", ErrPhotoUpload)
}

func (DisabledStore) Delete(context.Context, string) (string, error) {
	return "not configured", nil
}
