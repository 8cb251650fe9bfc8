package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/privytune/backend/internal/api/metrics"
	"github.com/privytune/backend/internal/core/domain"
	"github.com/privytune/backend/internal/core/ports"
)

// ModelHandler serves the public model catalogue.
type ModelHandler struct {
	service ports.ModelService
}

func NewModelHandler(service ports.ModelService) *ModelHandler {
	return &ModelHandler{service: service}
}

// List handles GET /api/v1/models.
//
// @Summary      List available models
// @Tags         models
// @Produce      json
// @Success      200  {object}  modelListResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/v1/models [get]
func (h *ModelHandler) List(c echo.Context) error {
	models, err := h.service.ListModels(c.Request().Context())
	if err != nil {
		return err
	}
	if models == nil {
		models = []domain.ModelSummary{}
	}
	return c.JSON(http.StatusOK, modelListResponse{Models: models})
}

// Manifest handles GET /api/v1/models/:modelId and mirrors the manifest
// stored next to the model shards.
//
// @Summary      Get a model manifest
// @Tags         models
// @Produce      json
// @Param        modelId  path      string  true  "Model id"
// @Success      200      {object}  domain.Manifest
// @Failure      400      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Failure      502      {object}  errorResponse
// @Router       /api/v1/models/{modelId} [get]
func (h *ModelHandler) Manifest(c echo.Context) error {
	doc, err := h.service.GetManifest(c.Request().Context(), c.Param("modelId"))
	if err != nil {
		metrics.ManifestRequestsTotal.WithLabelValues(manifestResult(err)).Inc()
		return err
	}

	metrics.ManifestRequestsTotal.WithLabelValues("ok").Inc()
	return c.JSONBlob(http.StatusOK, doc.Raw)
}

func manifestResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrModelNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidModelID):
		return "invalid"
	case errors.Is(err, domain.ErrUpstream):
		return "upstream_error"
	default:
		return "error"
	}
}
