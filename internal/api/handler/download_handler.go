package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/privytune/backend/internal/core/domain"
	"github.com/privytune/backend/internal/core/ports"
)

// DownloadDispatcher is the interface the handler uses to enqueue reports.
type DownloadDispatcher interface {
	Enqueue(report ports.DownloadReport) error
}

// DownloadHandler records and lists the caller's shard downloads.
type DownloadHandler struct {
	service    ports.DownloadService
	dispatcher DownloadDispatcher
}

func NewDownloadHandler(service ports.DownloadService, dispatcher DownloadDispatcher) *DownloadHandler {
	return &DownloadHandler{service: service, dispatcher: dispatcher}
}

// Report handles POST /api/v1/models/:modelId/downloads. The report is
// validated synchronously and persisted in the background.
//
// @Summary      Report a shard download
// @Tags         downloads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        modelId  path      string                 true  "Model id"
// @Param        body     body      downloadReportRequest  true  "Download report"
// @Success      202      {object}  acceptedResponse
// @Failure      400      {object}  errorResponse
// @Failure      401      {object}  errorResponse
// @Failure      422      {object}  errorResponse
// @Failure      503      {object}  errorResponse
// @Router       /api/v1/models/{modelId}/downloads [post]
func (h *DownloadHandler) Report(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req downloadReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	report := ports.DownloadReport{
		UserEmail: id.User.Email,
		ModelID:   c.Param("modelId"),
		ShardURL:  req.ShardURL,
		SHA256:    req.SHA256,
		Size:      req.Size,
		Status:    req.Status,
	}
	if err := h.service.Validate(report); err != nil {
		return err
	}
	if err := h.dispatcher.Enqueue(report); err != nil {
		return err
	}

	return c.JSON(http.StatusAccepted, acceptedResponse{Message: "download report accepted"})
}

// List handles GET /api/v1/models/:modelId/downloads.
//
// @Summary      List the caller's downloads for a model
// @Tags         downloads
// @Produce      json
// @Security     BearerAuth
// @Param        modelId  path      string  true  "Model id"
// @Success      200      {object}  downloadListResponse
// @Failure      400      {object}  errorResponse
// @Failure      401      {object}  errorResponse
// @Router       /api/v1/models/{modelId}/downloads [get]
func (h *DownloadHandler) List(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}

	records, err := h.service.List(c.Request().Context(), id.User.Email, c.Param("modelId"))
	if err != nil {
		return err
	}
	if records == nil {
		records = []*domain.ShardDownload{}
	}
	return c.JSON(http.StatusOK, downloadListResponse{Downloads: records})
}
