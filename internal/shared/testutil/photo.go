package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/lavictoria/club-api/internal/photo"
)

// FakePhotoStore records uploads and deletes in memory.
type FakePhotoStore struct {
	mu        sync.Mutex
	seq       int
	Uploaded  []string
	Deleted   []string
	UploadErr error
	DeleteErr error
}

func NewFakePhotoStore() *FakePhotoStore {
	return &FakePhotoStore{}
}

func (s *FakePhotoStore) Upload(_ context.Context, file *photo.File) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.UploadErr != nil {
		return "", s.UploadErr
	}
	s.seq++
	url := fmt.Sprintf("https://res.cloudinary.com/test/image/upload/v1/members/photo-%d.png", s.seq)
	s.Uploaded = append(s.Uploaded, url)
	return url, nil
}

func (s *FakePhotoStore) Delete(_ context.Context, url string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.DeleteErr != nil {
		return "", s.DeleteErr
	}
	if url == "" {
		return "", errors.New("empty url")
	}
	s.Deleted = append(s.Deleted, url)
	return "ok", nil
}

func (s *FakePhotoStore) DeletedURLs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.Deleted...)
}

var _ photo.Store = (*FakePhotoStore)(nil)
