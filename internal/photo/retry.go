package photo

import (
	"context"
	"fmt"
	"time"

	"github.com/lavictoria/club-api/internal/shared/logger"
	"github.com/lavictoria/club-api/internal/shared/metrics"

	"github.com/cenkalti/backoff/v4"
)

// RetryingStore retries uploads with a constant delay. Deletes are not retried.
type RetryingStore struct {
	next        Store
	maxAttempts int
	delay       time.Duration
	metrics     *metrics.Metrics
}

func NewRetryingStore(next Store, maxAttempts int, delay time.Duration, m *metrics.Metrics) *RetryingStore {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &RetryingStore{
		next:        next,
		maxAttempts: maxAttempts,
		delay:       delay,
		metrics:     m,
	}
}

func (s *RetryingStore) Upload(ctx context.Context, file *File) (string, error) {
	log := logger.FromContext(ctx)

	var (
		url     string
		attempt int
	)
	operation := func() error {
		attempt++
		var err error
		url, err = s.next.Upload(ctx, file)
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(s.delay), uint64(s.maxAttempts-1)),
		ctx,
	)
	notify := func(err error, wait time.Duration) {
		log.Warn("Photo upload failed, retrying",
			"attempt", attempt, "max_attempts", s.maxAttempts, "wait", wait.String(), "error", err)
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		s.metrics.IncrementPhotoUploadFailures()
		log.Error("Photo upload failed", "attempts", attempt, "error", err)
		return "", fmt.Errorf("upload photo after %d attempts: %v: %w", attempt, err, ErrPhotoUpload)
	}

	log.Info("Photo uploaded", "attempts", attempt)
	return url, nil
}

func (s *RetryingStore) Delete(ctx context.Context, url string) (string, error) {
	return s.next.Delete(ctx, url)
}
