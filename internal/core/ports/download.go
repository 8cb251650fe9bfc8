package ports

import (
	"context"

	"github.com/privytune/backend/internal/core/domain"
)

// DownloadReport is the DTO passed from the transport layer to DownloadService.
type DownloadReport struct {
	UserEmail string
	ModelID   string
	ShardURL  string
	SHA256    string
	Size      int64
	Status    string
}

// DownloadRepository persists shard-download records.
type DownloadRepository interface {
	Insert(ctx context.Context, d *domain.ShardDownload) error
	ListByUserAndModel(ctx context.Context, email, modelID string) ([]*domain.ShardDownload, error)
}

// DownloadService keeps per-user shard-download bookkeeping.
type DownloadService interface {
	Validate(in DownloadReport) error
	Process(ctx context.Context, in DownloadReport) error
	List(ctx context.Context, email, modelID string) ([]*domain.ShardDownload, error)
}
