package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/privytune/backend/internal/core/domain"
	"github.com/privytune/backend/internal/core/ports"
)

// DedupChecker abstracts the idempotency store (Redis).
type DedupChecker interface {
	IsDuplicate(ctx context.Context, key string) (bool, error)
	Mark(ctx context.Context, key string) error
}

type downloadService struct {
	repo  ports.DownloadRepository
	dedup DedupChecker
	log   zerolog.Logger
	now   func() time.Time
}

// NewDownloadService returns a DownloadService implementation.
func NewDownloadService(repo ports.DownloadRepository, dedup DedupChecker, log zerolog.Logger) ports.DownloadService {
	return &downloadService{
		repo:  repo,
		dedup: dedup,
		log:   log,
		now:   time.Now,
	}
}

// Validate checks a report before it is queued.
func (s *downloadService) Validate(in ports.DownloadReport) error {
	switch {
	case in.UserEmail == "":
		return domain.ErrUnauthenticated
	case !domain.ValidModelID(in.ModelID):
		return domain.ErrInvalidModelID
	case in.ShardURL == "":
		return fmt.Errorf("%w: shard_url is required", domain.ErrInvalidDownload)
	case !domain.ValidSHA256(in.SHA256):
		return fmt.Errorf("%w: sha256 must be 64 lowercase hex characters", domain.ErrInvalidDownload)
	case in.Size < 0:
		return fmt.Errorf("%w: size must not be negative", domain.ErrInvalidDownload)
	case !domain.DownloadStatus(in.Status).Valid():
		return fmt.Errorf("%w: status must be completed or failed", domain.ErrInvalidDownload)
	}
	return nil
}

// Process deduplicates and persists a single download report.
func (s *downloadService) Process(ctx context.Context, in ports.DownloadReport) error {
	if err := s.Validate(in); err != nil {
		return fmt.Errorf("process download: %w", err)
	}

	key := dedupKey(in)
	isDup, err := s.dedup.IsDuplicate(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("model_id", in.ModelID).Msg("dedup check failed, processing anyway")
	} else if isDup {
		s.log.Debug().Str("model_id", in.ModelID).Str("sha256", in.SHA256).Msg("duplicate download report skipped")
		return nil
	}

	record := &domain.ShardDownload{
		ID:         uuid.NewString(),
		UserEmail:  in.UserEmail,
		ModelID:    in.ModelID,
		ShardURL:   in.ShardURL,
		SHA256:     in.SHA256,
		Size:       in.Size,
		Status:     domain.DownloadStatus(in.Status),
		RecordedAt: s.now().UTC(),
	}
	if err := s.repo.Insert(ctx, record); err != nil {
		return fmt.Errorf("process download: insert: %w", err)
	}

	if err := s.dedup.Mark(ctx, key); err != nil {
		s.log.Warn().Err(err).Str("model_id", in.ModelID).Msg("failed to set dedup key")
	}

	s.log.Info().
		Str("model_id", in.ModelID).
		Str("status", in.Status).
		Str("download_id", record.ID).
		Msg("shard download recorded")
	return nil
}

// List returns the caller's records for modelID, newest first.
func (s *downloadService) List(ctx context.Context, email, modelID string) ([]*domain.ShardDownload, error) {
	if email == "" {
		return nil, domain.ErrUnauthenticated
	}
	if !domain.ValidModelID(modelID) {
		return nil, domain.ErrInvalidModelID
	}
	out, err := s.repo.ListByUserAndModel(ctx, email, modelID)
	if err != nil {
		return nil, fmt.Errorf("list downloads: %w", err)
	}
	return out, nil
}

func dedupKey(in ports.DownloadReport) string {
	return fmt.Sprintf("download:%s:%s:%s:%s", in.UserEmail, in.ModelID, in.SHA256, in.Status)
}
