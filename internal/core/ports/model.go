package ports

import (
	"context"
	"time"

	"github.com/privytune/backend/internal/core/domain"
)

// ModelLister enumerates the model ids available in the object store.
type ModelLister interface {
	ListModelIDs(ctx context.Context) ([]string, error)
}

// ManifestSource fetches a model manifest from the CDN.
// A missing manifest is reported as domain.ErrModelNotFound.
type ManifestSource interface {
	FetchManifest(ctx context.Context, modelID string) ([]byte, error)
	ManifestURL(modelID string) string
}

// ManifestCache keeps recently fetched manifests. A miss returns (nil, nil).
type ManifestCache interface {
	Get(ctx context.Context, modelID string) ([]byte, error)
	Set(ctx context.Context, modelID string, body []byte, ttl time.Duration) error
}

// ModelService serves the model catalogue.
type ModelService interface {
	ListModels(ctx context.Context) ([]domain.ModelSummary, error)
	GetManifest(ctx context.Context, modelID string) (*domain.ManifestDocument, error)
}
