package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/privytune/backend/internal/core/domain"
	"github.com/privytune/backend/internal/core/ports"
)

type modelService struct {
	lister   ports.ModelLister
	source   ports.ManifestSource
	cache    ports.ManifestCache
	cacheTTL time.Duration
	log      zerolog.Logger
}

// NewModelService returns a ModelService. cache may be nil to disable caching.
func NewModelService(
	lister ports.ModelLister,
	source ports.ManifestSource,
	cache ports.ManifestCache,
	cacheTTL time.Duration,
	log zerolog.Logger,
) ports.ModelService {
	return &modelService{
		lister:   lister,
		source:   source,
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

// ListModels returns every model published in the bucket.
func (s *modelService) ListModels(ctx context.Context) ([]domain.ModelSummary, error) {
	ids, err := s.lister.ListModelIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}

	out := make([]domain.ModelSummary, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.ModelSummary{ID: id, ManifestURL: s.source.ManifestURL(id)})
	}
	return out, nil
}

// GetManifest returns the manifest for modelID, served from cache when possible.
func (s *modelService) GetManifest(ctx context.Context, modelID string) (*domain.ManifestDocument, error) {
	if !domain.ValidModelID(modelID) {
		return nil, domain.ErrInvalidModelID
	}

	if s.cache != nil && s.cacheTTL > 0 {
		body, err := s.cache.Get(ctx, modelID)
		if err != nil {
			s.log.Warn().Err(err).Str("model_id", modelID).Msg("manifest cache read failed")
		} else if body != nil {
			if doc, err := parseManifest(body); err == nil {
				return doc, nil
			}
			s.log.Warn().Str("model_id", modelID).Msg("discarding unparsable cached manifest")
		}
	}

	body, err := s.source.FetchManifest(ctx, modelID)
	if err != nil {
		return nil, fmt.Errorf("get manifest %s: %w", modelID, err)
	}

	doc, err := parseManifest(body)
	if err != nil {
		return nil, fmt.Errorf("get manifest %s: %w: %w", modelID, domain.ErrUpstream, err)
	}

	if s.cache != nil && s.cacheTTL > 0 {
		if err := s.cache.Set(ctx, modelID, body, s.cacheTTL); err != nil {
			s.log.Warn().Err(err).Str("model_id", modelID).Msg("manifest cache write failed")
		}
	}
	return doc, nil
}

func parseManifest(body []byte) (*domain.ManifestDocument, error) {
	var m domain.Manifest
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &domain.ManifestDocument{Raw: json.RawMessage(body), Manifest: m}, nil
}
