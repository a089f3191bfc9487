package document

import (
	"log/slog"
	"net/http"

	"perangkum/internal/common/pagination"
	"perangkum/internal/handler/http/respond"
	"perangkum/internal/observability/logging"
)

type ListHandler struct {
	Svc           Service
	PaginationCfg pagination.Config
}

// ServeHTTP lists stored documents.
//
// @Summary      List documents
// @Description  Returns the stored documents sorted by name, one page at a time.
// @Tags         documents
// @Produce      json
// @Param        page   query    int  false  "Page number (1-based)" default(1) minimum(1)
// @Param        limit  query    int  false  "Items per page" default(20) minimum(1) maximum(100)
// @Success      200 {object} pagination.Response[DTO]
// @Failure      400 {object} respond.ErrorResponse "Invalid query parameters"
// @Failure      500 {object} respond.ErrorResponse "Store failure"
// @Router       /documents [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, logging.FromContext(ctx))

	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		pagination.RecordError("validation")
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	docs, err := h.Svc.List(ctx)
	if err != nil {
		logger.Error("failed to list documents", slog.Any("error", err))
		pagination.RecordError("store")
		respond.DomainError(w, err)
		return
	}

	page, meta := pagination.Slice(docs, params)
	dtos := make([]DTO, 0, len(page))
	for _, d := range page {
		dtos = append(dtos, toDTO(d))
	}

	pagination.RecordRequest(http.StatusOK, params.Page)
	logger.Debug("listed documents",
		slog.Int("page", params.Page),
		slog.Int("limit", params.Limit),
		slog.Int("returned", len(dtos)),
		slog.Int64("total", meta.Total))
	respond.JSON(w, http.StatusOK, pagination.NewResponse(dtos, meta))
}
